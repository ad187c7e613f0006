package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vlasovm/shop_backend/internal/logging"
	"github.com/vlasovm/shop_backend/internal/models"
	"github.com/vlasovm/shop_backend/internal/mykafka"
	"github.com/vlasovm/shop_backend/internal/repo"
	"github.com/vlasovm/shop_backend/internal/transport"
)

type OrderService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

// CreateOrder stores the authenticated caller as the order's user; any
// client-supplied user id is ignored.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint, req transport.OrderRequest) (*models.Order, error) {
	quantity, err := s.quantityOf(req)
	if err != nil {
		return nil, err
	}
	products, err := s.resolveProducts(ctx, req.Products)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:   userID,
		Products: products,
		Quantity: quantity,
		Date:     time.Now().UTC(),
	}
	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, map[string]interface{}{
		"type":    "order_created",
		"orderID": order.ID,
		"userID":  userID,
	}, fmt.Sprint(order.ID))

	logging.FromContext(ctx).Info("order_created", "orderID", order.ID, "userID", userID)
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx)
}

// OrderHistory returns only the caller's own orders.
func (s *OrderService) OrderHistory(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.Repo.ListOrdersByUser(ctx, userID)
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.Repo.OrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, "Order not found.")
		}
		return nil, err
	}
	return order, nil
}

// UpdateOrder replaces quantity and the product set. Ownership never changes
// here: a user field in the payload is ignored.
func (s *OrderService) UpdateOrder(ctx context.Context, id uint, req transport.OrderRequest) (*models.Order, error) {
	quantity, err := s.quantityOf(req)
	if err != nil {
		return nil, err
	}
	products, err := s.resolveProducts(ctx, req.Products)
	if err != nil {
		return nil, err
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Quantity = quantity
	if err := s.Repo.UpdateOrder(ctx, order, products); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newError(ErrNotFound, "Order not found.")
		}
		return err
	}
	return nil
}

func (s *OrderService) quantityOf(req transport.OrderRequest) (uint, error) {
	if req.Quantity == nil {
		return 1, nil
	}
	if *req.Quantity < 1 {
		return 0, newError(ErrValidation, "Quantity must be a positive integer.")
	}
	return uint(*req.Quantity), nil
}

// resolveProducts loads the referenced products and rejects the request when
// any id does not exist.
func (s *OrderService) resolveProducts(ctx context.Context, ids []uint) ([]models.Product, error) {
	products, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(products) == len(ids) {
		return products, nil
	}

	found := make(map[uint]bool, len(products))
	for _, p := range products {
		found[p.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, newError(ErrValidation, fmt.Sprintf("Invalid product id %d - object does not exist.", id))
		}
	}
	return products, nil
}

func (s *OrderService) publish(ctx context.Context, event map[string]interface{}, key string) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, "order_events", key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}
