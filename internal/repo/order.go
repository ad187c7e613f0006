package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/vlasovm/shop_backend/internal/models"
)

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *GormRepo) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Products").
		Order("date ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Products").
		Where("user_id = ?", userID).
		Order("date ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) OrderByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Products").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrder rewrites quantity and the full product association.
func (r *GormRepo) UpdateOrder(ctx context.Context, order *models.Order, products []models.Product) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(order).Update("quantity", order.Quantity).Error; err != nil {
			return err
		}
		if err := tx.Model(order).Association("Products").Replace(products); err != nil {
			return err
		}
		order.Products = products
		return nil
	})
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM order_products WHERE order_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}
