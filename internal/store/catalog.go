package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/stockroom/internal/models"
	"github.com/example/stockroom/internal/utils"
)

type catalog struct {
	db *gorm.DB
}

// NewCatalog wraps an initialized gorm handle. The connection pool belongs to
// the caller; the store never holds a transaction across calls.
func NewCatalog(db *gorm.DB) Catalog {
	return &catalog{db: db}
}

// ensureCategory returns the id of the named category, inserting it on first
// reference. The unique index is the arbiter against concurrent inserts. The
// insert runs inside a nested transaction so it gets its own savepoint: a
// lost race rolls back only the savepoint, keeping the enclosing transaction
// usable for the re-read of the winner's row.
func ensureCategory(tx *gorm.DB, name string) (uuid.UUID, error) {
	var cat models.Category
	err := tx.Where("name = ?", name).First(&cat).Error
	if err == nil {
		return cat.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, err
	}

	cat = models.Category{Name: name}
	err = tx.Transaction(func(tx2 *gorm.DB) error {
		return tx2.Create(&cat).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.Category
			if err := tx.Where("name = ?", name).First(&existing).Error; err != nil {
				return uuid.Nil, err
			}
			return existing.ID, nil
		}
		return uuid.Nil, err
	}
	return cat.ID, nil
}

// ensureMaterial mirrors ensureCategory for the material table.
func ensureMaterial(tx *gorm.DB, name string) (uuid.UUID, error) {
	var mat models.Material
	err := tx.Where("name = ?", name).First(&mat).Error
	if err == nil {
		return mat.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, err
	}

	mat = models.Material{Name: name}
	err = tx.Transaction(func(tx2 *gorm.DB) error {
		return tx2.Create(&mat).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.Material
			if err := tx.Where("name = ?", name).First(&existing).Error; err != nil {
				return uuid.Nil, err
			}
			return existing.ID, nil
		}
		return uuid.Nil, err
	}
	return mat.ID, nil
}

// AddProduct creates a product, its category/material rows if missing, and
// exactly one media row, all inside one transaction.
func (s *catalog) AddProduct(ctx context.Context, in AddProductInput) (*ProductRecord, error) {
	if err := validateAddProduct(in); err != nil {
		return nil, err
	}

	skuHash := utils.DigestSKU(in.SKU)
	var productID uuid.UUID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).Where("sku_hash = ?", skuHash).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateSKU
		}

		categoryID, err := ensureCategory(tx, in.CategoryName)
		if err != nil {
			return err
		}
		materialID, err := ensureMaterial(tx, in.MaterialName)
		if err != nil {
			return err
		}

		product := models.Product{
			SKUHash:    skuHash,
			SKUDisplay: in.SKU,
			Name:       in.Name,
			CategoryID: categoryID,
			MaterialID: materialID,
			Price:      in.Price,
		}
		if err := tx.Create(&product).Error; err != nil {
			// A concurrent insert of the same SKU loses here; the unique
			// constraint, not the pre-check, decides the winner.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateSKU
			}
			return err
		}

		media := models.ProductMedia{ProductID: product.ID}
		if in.MediaURL != nil && strings.TrimSpace(*in.MediaURL) != "" {
			media.URL = in.MediaURL
		}
		if err := tx.Create(&media).Error; err != nil {
			return err
		}

		productID = product.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.getRecord(ctx, productID)
}

// UpdateProduct mutates a product in place and upserts its media URL. When
// both rename fields are set, the shared category and material rows are
// renamed, affecting every product referencing them.
func (s *catalog) UpdateProduct(ctx context.Context, id uuid.UUID, in UpdateProductInput) error {
	if err := validateUpdateProduct(in); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
			"name":        in.Name,
			"category_id": in.CategoryID,
			"material_id": in.MaterialID,
			"price":       in.Price,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if in.MediaURL != nil && strings.TrimSpace(*in.MediaURL) != "" {
			var media models.ProductMedia
			err := tx.Where("product_id = ?", id).First(&media).Error
			switch {
			case err == nil:
				if err := tx.Model(&media).Update("url", *in.MediaURL).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				media = models.ProductMedia{ProductID: id, URL: in.MediaURL}
				if err := tx.Create(&media).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}

		if in.CategoryName != "" && in.MaterialName != "" {
			if err := tx.Model(&models.Category{}).Where("id = ?", in.CategoryID).
				Update("name", in.CategoryName).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Material{}).Where("id = ?", in.MaterialID).
				Update("name", in.MaterialName).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// DeleteProduct removes a product; its media rows go via the FK cascade.
func (s *catalog) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// DeleteCategory removes a category. The FK cascade removes its products and
// their media rows; materials are untouched.
func (s *catalog) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Category{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *catalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}

func (s *catalog) ListMaterials(ctx context.Context) ([]models.Material, error) {
	var materials []models.Material
	err := s.db.WithContext(ctx).Order("name").Find(&materials).Error
	return materials, err
}

// validateAddProduct re-checks invariants the handler already enforced. The
// store is the last line before the row is written.
func validateAddProduct(in AddProductInput) error {
	if strings.TrimSpace(in.SKU) == "" || strings.TrimSpace(in.Name) == "" ||
		strings.TrimSpace(in.CategoryName) == "" || strings.TrimSpace(in.MaterialName) == "" {
		return fmt.Errorf("%w: missing required field", ErrValidation)
	}
	if !in.Price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	return nil
}

func validateUpdateProduct(in UpdateProductInput) error {
	if strings.TrimSpace(in.Name) == "" || in.CategoryID == uuid.Nil || in.MaterialID == uuid.Nil {
		return fmt.Errorf("%w: missing required field", ErrValidation)
	}
	if !in.Price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	return nil
}
