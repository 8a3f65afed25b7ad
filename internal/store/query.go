package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/stockroom/internal/models"
)

// priceBand is an inclusive price bracket; a nil Max means unbounded above.
type priceBand struct {
	Key string
	Min decimal.Decimal
	Max *decimal.Decimal
}

// priceBands matches the report brackets the dashboard renders. Ordered for
// stable report output.
var priceBands = []priceBand{
	{Key: "0-500", Min: decimal.Zero, Max: decimalPtr(500)},
	{Key: "501-1000", Min: decimal.NewFromInt(501), Max: decimalPtr(1000)},
	{Key: "1000+", Min: decimal.NewFromInt(1000)},
}

func decimalPtr(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

func findPriceBand(key string) (priceBand, bool) {
	for _, b := range priceBands {
		if b.Key == key {
			return b, true
		}
	}
	return priceBand{}, false
}

// recordQuery selects the joined product read shape: row + category/material
// names + minimum media URL.
func (s *catalog) recordQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table("product AS p").
		Select(`p.id, p.sku_display, p.name,
			p.category_id, c.name AS category_name,
			p.material_id, m.name AS material_name,
			p.price, p.created_at,
			(SELECT MIN(pm.url) FROM product_media pm WHERE pm.product_id = p.id) AS media_url`).
		Joins("LEFT JOIN category c ON c.id = p.category_id").
		Joins("LEFT JOIN material m ON m.id = p.material_id")
}

func (s *catalog) getRecord(ctx context.Context, id uuid.UUID) (*ProductRecord, error) {
	var records []ProductRecord
	if err := s.recordQuery(ctx).Where("p.id = ?", id).Scan(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return &records[0], nil
}

func applyListFilter(q *gorm.DB, f ListFilter) *gorm.DB {
	if f.SKU != "" {
		q = q.Where("p.sku_display = ?", f.SKU)
	}
	if f.Name != "" {
		q = q.Where("p.name ILIKE ?", "%"+f.Name+"%")
	}
	if f.CategoryID != uuid.Nil {
		q = q.Where("p.category_id = ?", f.CategoryID)
	}
	if f.MaterialID != uuid.Nil {
		q = q.Where("p.material_id = ?", f.MaterialID)
	}
	return q
}

// ListProducts returns one page of records plus the unpaginated match count.
// The sort key includes the id so page contents stay stable under concurrent
// writes.
func (s *catalog) ListProducts(ctx context.Context, f ListFilter) ([]ProductRecord, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 10
	}

	var total int64
	countQ := applyListFilter(s.db.WithContext(ctx).Table("product AS p"), f)
	if err := countQ.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []ProductRecord
	rowsQ := applyListFilter(s.recordQuery(ctx), f).
		Order("p.created_at DESC, p.id").
		Limit(f.Limit).Offset((f.Page - 1) * f.Limit)
	if err := rowsQ.Scan(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// CategoryHighestPrices reports the maximum product price per category.
func (s *catalog) CategoryHighestPrices(ctx context.Context) ([]CategoryPrice, error) {
	var rows []CategoryPrice
	err := s.db.WithContext(ctx).Table("product AS p").
		Select("c.name AS category_name, MAX(p.price) AS highest_price").
		Joins("JOIN category c ON c.id = p.category_id").
		Group("c.name").
		Order("c.name").
		Scan(&rows).Error
	return rows, err
}

// PriceRangeCounts reports how many products fall in each price band.
func (s *catalog) PriceRangeCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(priceBands))
	for _, band := range priceBands {
		q := s.db.WithContext(ctx).Model(&models.Product{})
		if band.Max != nil {
			q = q.Where("price BETWEEN ? AND ?", band.Min, *band.Max)
		} else {
			q = q.Where("price > ?", band.Min)
		}

		var n int64
		if err := q.Count(&n).Error; err != nil {
			return nil, err
		}
		counts[band.Key] = n
	}
	return counts, nil
}

// ProductsByPriceRange lists products inside a named band, paginated like
// ListProducts.
func (s *catalog) ProductsByPriceRange(ctx context.Context, rangeKey string, page, limit int) ([]ProductRecord, int64, error) {
	band, ok := findPriceBand(rangeKey)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidRange, rangeKey)
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	applyBand := func(q *gorm.DB) *gorm.DB {
		if band.Max != nil {
			return q.Where("p.price BETWEEN ? AND ?", band.Min, *band.Max)
		}
		return q.Where("p.price > ?", band.Min)
	}

	var total int64
	if err := applyBand(s.db.WithContext(ctx).Table("product AS p")).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []ProductRecord
	err := applyBand(s.recordQuery(ctx)).
		Order("p.created_at DESC, p.id").
		Limit(limit).Offset((page - 1) * limit).
		Scan(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ProductsWithoutMedia lists products whose media rows are absent or carry no
// usable URL.
func (s *catalog) ProductsWithoutMedia(ctx context.Context) ([]ProductRecord, error) {
	var records []ProductRecord
	err := s.recordQuery(ctx).
		Where(`NOT EXISTS (
			SELECT 1 FROM product_media pm
			WHERE pm.product_id = p.id AND pm.url IS NOT NULL AND pm.url <> ''
		)`).
		Order("p.created_at DESC, p.id").
		Scan(&records).Error
	return records, err
}
