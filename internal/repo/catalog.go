package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/vlasovm/shop_backend/internal/models"
)

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *GormRepo) CategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).First(&cat, id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *GormRepo) CategoryExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Category{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, cat *models.Category) error {
	return r.DB.WithContext(ctx).Create(cat).Error
}

func (r *GormRepo) SaveCategory(ctx context.Context, cat *models.Category) error {
	return r.DB.WithContext(ctx).Save(cat).Error
}

// DeleteCategoryCascade removes the category together with its products and
// their order associations in one transaction.
func (r *GormRepo) DeleteCategoryCascade(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cat models.Category
		if err := tx.First(&cat, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			"DELETE FROM order_products WHERE product_id IN (SELECT id FROM products WHERE category_id = ?)",
			id,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.Product{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cat).Error
	})
}

func (r *GormRepo) productQuery(ctx context.Context, search string) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where(
			"LOWER(product_name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)",
			pattern, pattern,
		)
	}
	return q
}

func (r *GormRepo) CountProducts(ctx context.Context, search string) (int64, error) {
	var count int64
	err := r.productQuery(ctx, search).Count(&count).Error
	return count, err
}

func (r *GormRepo) ListProducts(ctx context.Context, search string, offset, limit int) ([]models.Product, error) {
	var items []models.Product
	err := r.productQuery(ctx, search).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListProductsByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	var items []models.Product
	err := r.DB.WithContext(ctx).Where("category_id = ?", categoryID).Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var prod models.Product
	if err := r.DB.WithContext(ctx).First(&prod, id).Error; err != nil {
		return nil, err
	}
	return &prod, nil
}

func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	var prods []models.Product
	if len(ids) == 0 {
		return prods, nil
	}
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&prods).Error; err != nil {
		return nil, err
	}
	return prods, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Save(prod).Error
}

// DeleteProduct removes the product and clears it from any order's product
// set; the orders themselves survive.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prod models.Product
		if err := tx.First(&prod, id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM order_products WHERE product_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&prod).Error
	})
}
