package models

// Category groups products. Rows are created lazily the first time a product
// references the name; deleting a category cascades to its products.
type Category struct {
	BaseModel
	Name     string    `gorm:"uniqueIndex;not null" json:"name"`
	Products []Product `gorm:"constraint:OnDelete:CASCADE" json:"products,omitempty"`
}

// TableName keeps the historical singular table name.
func (Category) TableName() string { return "category" }

// Material is the substance a product is made of, created lazily like Category.
type Material struct {
	BaseModel
	Name     string    `gorm:"uniqueIndex;not null" json:"name"`
	Products []Product `json:"products,omitempty"`
}

// TableName keeps the historical singular table name.
func (Material) TableName() string { return "material" }
