package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. The caller-supplied SKU is kept only as a
// one-way digest (duplicate detection) plus a human-readable display token.
type Product struct {
	BaseModel
	SKUHash    string          `gorm:"uniqueIndex;not null" json:"-"`
	SKUDisplay string          `gorm:"uniqueIndex;not null" json:"sku"`
	Name       string          `gorm:"not null" json:"name"`
	CategoryID uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	Category   *Category       `json:"category,omitempty"`
	MaterialID uuid.UUID       `gorm:"type:uuid;not null;index" json:"material_id"`
	Material   *Material       `json:"material,omitempty"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Media      []ProductMedia  `gorm:"constraint:OnDelete:CASCADE" json:"media,omitempty"`
}

// TableName keeps the historical singular table name.
func (Product) TableName() string { return "product" }

// ProductMedia holds a media URL for a product. The URL is nullable: the
// write path always inserts one row per new product even when no URL was
// supplied, so the relation is never absent.
type ProductMedia struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	URL       *string   `json:"url"`
}

// TableName keeps the historical singular table name.
func (ProductMedia) TableName() string { return "product_media" }
