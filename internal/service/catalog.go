package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/vlasovm/shop_backend/internal/logging"
	"github.com/vlasovm/shop_backend/internal/models"
	"github.com/vlasovm/shop_backend/internal/mykafka"
	"github.com/vlasovm/shop_backend/internal/repo"
	"github.com/vlasovm/shop_backend/internal/search"
	"github.com/vlasovm/shop_backend/internal/transport"
)

type CatalogService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
	Indexer  *search.Indexer
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	cat, err := s.Repo.CategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, "Category not found.")
		}
		return nil, err
	}
	return cat, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	if req.Name == "" {
		return nil, newError(ErrValidation, "Name is required.")
	}
	cat := &models.Category{Name: req.Name}
	if err := s.Repo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, req transport.CategoryRequest) (*models.Category, error) {
	if req.Name == "" {
		return nil, newError(ErrValidation, "Name is required.")
	}
	cat, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	cat.Name = req.Name
	if err := s.Repo.SaveCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// DeleteCategory cascades to the category's products.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	products, err := s.Repo.ListProductsByCategory(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteCategoryCascade(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newError(ErrNotFound, "Category not found.")
		}
		return err
	}
	for _, p := range products {
		s.deindex(ctx, p.ID)
	}
	s.publish(ctx, map[string]interface{}{
		"type":       "category_deleted",
		"categoryID": id,
	}, fmt.Sprint(id))
	return nil
}

func (s *CatalogService) ListProducts(ctx context.Context, query string, offset, limit int) (int64, []models.Product, error) {
	total, err := s.Repo.CountProducts(ctx, query)
	if err != nil {
		return 0, nil, err
	}
	items, err := s.Repo.ListProducts(ctx, query, offset, limit)
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, "Product not found.")
		}
		return nil, err
	}
	return prod, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	if err := s.validateProduct(ctx, req); err != nil {
		return nil, err
	}

	prod := &models.Product{
		ProductName: req.ProductName,
		Description: req.Description,
		Price:       roundPrice(req.Price),
		CategoryID:  req.Category,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		return nil, err
	}

	s.index(ctx, *prod)
	s.publish(ctx, map[string]interface{}{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.ProductName,
	}, fmt.Sprint(prod.ID))
	return prod, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, req transport.ProductRequest) (*models.Product, error) {
	if err := s.validateProduct(ctx, req); err != nil {
		return nil, err
	}
	prod, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	prod.ProductName = req.ProductName
	prod.Description = req.Description
	prod.Price = roundPrice(req.Price)
	prod.CategoryID = req.Category
	if err := s.Repo.SaveProduct(ctx, prod); err != nil {
		return nil, err
	}

	s.index(ctx, *prod)
	s.publish(ctx, map[string]interface{}{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.ProductName,
	}, fmt.Sprint(prod.ID))
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newError(ErrNotFound, "Product not found.")
		}
		return err
	}
	s.deindex(ctx, id)
	s.publish(ctx, map[string]interface{}{
		"type":      "product_deleted",
		"productID": id,
	}, fmt.Sprint(id))
	return nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	return s.Indexer.Search(ctx, query, from, size)
}

func (s *CatalogService) validateProduct(ctx context.Context, req transport.ProductRequest) error {
	if req.ProductName == "" {
		return newError(ErrValidation, "Product name is required.")
	}
	if req.Price < 0 {
		return newError(ErrValidation, "Price must not be negative.")
	}
	if req.Category == 0 {
		return newError(ErrValidation, "Category is required.")
	}
	exists, err := s.Repo.CategoryExists(ctx, req.Category)
	if err != nil {
		return err
	}
	if !exists {
		return newError(ErrNotFound, "Category not found.")
	}
	return nil
}

func roundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}

func (s *CatalogService) index(ctx context.Context, prod models.Product) {
	ixCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Indexer.IndexProduct(ixCtx, prod); err != nil {
		logging.FromContext(ctx).Error("es index error", "productID", prod.ID, "error", err)
	}
}

func (s *CatalogService) deindex(ctx context.Context, id uint) {
	ixCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Indexer.DeleteProduct(ixCtx, id); err != nil {
		logging.FromContext(ctx).Error("es delete error", "productID", id, "error", err)
	}
}

func (s *CatalogService) publish(ctx context.Context, event map[string]interface{}, key string) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, "product_events", key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}
