// Package store owns the category/material/product/media tables and the
// invariants on them: SKU uniqueness via a one-way digest, lazy
// create-or-get of categories and materials, and all-or-nothing write
// transactions. Handlers go through the Catalog interface and never touch
// gorm directly.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/stockroom/internal/models"
)

// Sentinel errors returned by catalog operations.
var (
	ErrDuplicateSKU = errors.New("sku already exists")
	ErrNotFound     = errors.New("record not found")
	ErrInvalidRange = errors.New("unknown price range")
	ErrValidation   = errors.New("invalid input")
)

// AddProductInput carries the fields of a product create request. SKU is the
// caller's plaintext identifier; it is digested before storage and echoed
// back only as the display token.
type AddProductInput struct {
	SKU          string
	Name         string
	CategoryName string
	MaterialName string
	Price        decimal.Decimal
	MediaURL     *string
}

// UpdateProductInput carries the mutable fields of a product. MediaURL nil
// means "leave media alone". CategoryName/MaterialName, when both are set,
// rename the referenced category and material rows in place; the rename is
// shared by every product pointing at them.
type UpdateProductInput struct {
	Name         string
	CategoryID   uuid.UUID
	MaterialID   uuid.UUID
	Price        decimal.Decimal
	MediaURL     *string
	CategoryName string
	MaterialName string
}

// ListFilter narrows a product listing. Zero values impose no constraint.
type ListFilter struct {
	SKU        string
	Name       string
	CategoryID uuid.UUID
	MaterialID uuid.UUID
	Page       int
	Limit      int
}

// ProductRecord is the read shape of a product: the row joined with its
// category and material names and the minimum media URL.
type ProductRecord struct {
	ID           uuid.UUID       `json:"id"`
	SKUDisplay   string          `gorm:"column:sku_display" json:"sku"`
	Name         string          `json:"name"`
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name"`
	MaterialID   uuid.UUID       `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Price        decimal.Decimal `json:"price"`
	MediaURL     *string         `json:"media_url"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CategoryPrice is one row of the category-wise highest price report.
type CategoryPrice struct {
	CategoryName string          `json:"category_name"`
	HighestPrice decimal.Decimal `json:"highest_price"`
}

// Catalog is the persistence contract for the product catalog.
type Catalog interface {
	AddProduct(ctx context.Context, in AddProductInput) (*ProductRecord, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in UpdateProductInput) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	ListProducts(ctx context.Context, f ListFilter) ([]ProductRecord, int64, error)
	CategoryHighestPrices(ctx context.Context) ([]CategoryPrice, error)
	PriceRangeCounts(ctx context.Context) (map[string]int64, error)
	ProductsByPriceRange(ctx context.Context, rangeKey string, page, limit int) ([]ProductRecord, int64, error)
	ProductsWithoutMedia(ctx context.Context) ([]ProductRecord, error)

	ListCategories(ctx context.Context) ([]models.Category, error)
	ListMaterials(ctx context.Context) ([]models.Material, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}
