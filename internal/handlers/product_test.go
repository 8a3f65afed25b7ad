package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/stockroom/internal/models"
	"github.com/example/stockroom/internal/store"
	"github.com/example/stockroom/internal/utils"
)

// ── In-memory Catalog stub ──────────────────────────────────────────────────

type stubCatalog struct {
	byID       map[uuid.UUID]*store.ProductRecord
	byDigest   map[string]uuid.UUID
	lastFilter store.ListFilter
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		byID:     make(map[uuid.UUID]*store.ProductRecord),
		byDigest: make(map[string]uuid.UUID),
	}
}

func (s *stubCatalog) AddProduct(_ context.Context, in store.AddProductInput) (*store.ProductRecord, error) {
	digest := utils.DigestSKU(in.SKU)
	if _, exists := s.byDigest[digest]; exists {
		return nil, store.ErrDuplicateSKU
	}

	rec := &store.ProductRecord{
		ID:           uuid.New(),
		SKUDisplay:   in.SKU,
		Name:         in.Name,
		CategoryID:   uuid.New(),
		CategoryName: in.CategoryName,
		MaterialID:   uuid.New(),
		MaterialName: in.MaterialName,
		Price:        in.Price,
		MediaURL:     in.MediaURL,
	}
	s.byID[rec.ID] = rec
	s.byDigest[digest] = rec.ID
	return rec, nil
}

func (s *stubCatalog) UpdateProduct(_ context.Context, id uuid.UUID, in store.UpdateProductInput) error {
	rec, ok := s.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	rec.Name = in.Name
	rec.Price = in.Price
	return nil
}

func (s *stubCatalog) DeleteProduct(_ context.Context, id uuid.UUID) error {
	if _, ok := s.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *stubCatalog) ListProducts(_ context.Context, f store.ListFilter) ([]store.ProductRecord, int64, error) {
	s.lastFilter = f
	var out []store.ProductRecord
	for _, rec := range s.byID {
		out = append(out, *rec)
	}
	return out, int64(len(out)), nil
}

func (s *stubCatalog) CategoryHighestPrices(_ context.Context) ([]store.CategoryPrice, error) {
	return nil, nil
}

func (s *stubCatalog) PriceRangeCounts(_ context.Context) (map[string]int64, error) {
	return map[string]int64{"0-500": 0, "501-1000": 0, "1000+": 0}, nil
}

func (s *stubCatalog) ProductsByPriceRange(_ context.Context, rangeKey string, _, _ int) ([]store.ProductRecord, int64, error) {
	switch rangeKey {
	case "0-500", "501-1000", "1000+":
		return nil, 0, nil
	default:
		return nil, 0, store.ErrInvalidRange
	}
}

func (s *stubCatalog) ProductsWithoutMedia(_ context.Context) ([]store.ProductRecord, error) {
	return nil, nil
}

func (s *stubCatalog) ListCategories(_ context.Context) ([]models.Category, error) {
	return nil, nil
}

func (s *stubCatalog) ListMaterials(_ context.Context) ([]models.Material, error) {
	return nil, nil
}

func (s *stubCatalog) DeleteCategory(_ context.Context, id uuid.UUID) error {
	return store.ErrNotFound
}

// ── Helpers ─────────────────────────────────────────────────────────────────

func newTestApp(catalog store.Catalog) *fiber.App {
	app := fiber.New()
	h := NewProductHandler(catalog)

	products := app.Group("/api/products")
	products.Get("/", h.ListProducts)
	products.Post("/", h.CreateProduct)
	products.Get("/category-wise-highest-price", h.CategoryWiseHighestPrice)
	products.Get("/price-range-count", h.PriceRangeCount)
	products.Get("/price-range", h.ProductsByPriceRange)
	products.Get("/without-media", h.ProductsWithoutMedia)
	products.Put("/:product_id", h.UpdateProduct)
	products.Delete("/:product_id", h.DeleteProduct)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func validCreateBody() map[string]interface{} {
	return map[string]interface{}{
		"sku":           "TEST123",
		"product_name":  "Widget",
		"category_name": "Electronics",
		"material_name": "Plastic",
		"price":         99.99,
		"media_url":     "http://x/y.jpg",
	}
}

// ── Tests ───────────────────────────────────────────────────────────────────

func TestCreateProduct(t *testing.T) {
	app := newTestApp(newStubCatalog())

	resp := doJSON(t, app, "POST", "/api/products/", validCreateBody())
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			SKU      string  `json:"sku"`
			Name     string  `json:"name"`
			MediaURL *string `json:"media_url"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "TEST123", envelope.Data.SKU)
	assert.Equal(t, "Widget", envelope.Data.Name)
	require.NotNil(t, envelope.Data.MediaURL)
	assert.Equal(t, "http://x/y.jpg", *envelope.Data.MediaURL)
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	app := newTestApp(newStubCatalog())

	resp := doJSON(t, app, "POST", "/api/products/", validCreateBody())
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Same SKU, every other field different.
	body := validCreateBody()
	body["product_name"] = "Gadget"
	body["category_name"] = "Toys"
	body["price"] = 5.0
	resp = doJSON(t, app, "POST", "/api/products/", body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateProductValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"missing sku", func(b map[string]interface{}) { delete(b, "sku") }},
		{"missing name", func(b map[string]interface{}) { delete(b, "product_name") }},
		{"missing category", func(b map[string]interface{}) { delete(b, "category_name") }},
		{"missing material", func(b map[string]interface{}) { delete(b, "material_name") }},
		{"zero price", func(b map[string]interface{}) { b["price"] = 0 }},
		{"negative price", func(b map[string]interface{}) { b["price"] = -10.5 }},
		{"non-numeric price", func(b map[string]interface{}) { b["price"] = "cheap" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(newStubCatalog())
			body := validCreateBody()
			tt.mutate(body)

			resp := doJSON(t, app, "POST", "/api/products/", body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	catalog := newStubCatalog()
	app := newTestApp(catalog)

	created, err := catalog.AddProduct(context.Background(), store.AddProductInput{
		SKU: "SKU-1", Name: "Widget", CategoryName: "Electronics", MaterialName: "Plastic",
	})
	require.NoError(t, err)

	body := map[string]interface{}{
		"product_name": "Widget v2",
		"category_id":  created.CategoryID.String(),
		"material_id":  created.MaterialID.String(),
		"price":        120.0,
	}

	resp := doJSON(t, app, "PUT", "/api/products/"+created.ID.String(), body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Widget v2", catalog.byID[created.ID].Name)

	resp = doJSON(t, app, "PUT", "/api/products/"+uuid.NewString(), body)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, "PUT", "/api/products/not-a-uuid", body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body["price"] = 0
	resp = doJSON(t, app, "PUT", "/api/products/"+created.ID.String(), body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDeleteProduct(t *testing.T) {
	catalog := newStubCatalog()
	app := newTestApp(catalog)

	created, err := catalog.AddProduct(context.Background(), store.AddProductInput{
		SKU: "SKU-1", Name: "Widget", CategoryName: "Electronics", MaterialName: "Plastic",
	})
	require.NoError(t, err)

	resp := doJSON(t, app, "DELETE", "/api/products/"+created.ID.String(), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "DELETE", "/api/products/"+created.ID.String(), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, "DELETE", "/api/products/nope", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListProductsFilters(t *testing.T) {
	catalog := newStubCatalog()
	app := newTestApp(catalog)

	categoryID := uuid.New()
	path := "/api/products/?page=2&limit=5&sku=ABC&product_name=wid&category_id=" + categoryID.String()
	resp := doJSON(t, app, "GET", path, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, 2, catalog.lastFilter.Page)
	assert.Equal(t, 5, catalog.lastFilter.Limit)
	assert.Equal(t, "ABC", catalog.lastFilter.SKU)
	assert.Equal(t, "wid", catalog.lastFilter.Name)
	assert.Equal(t, categoryID, catalog.lastFilter.CategoryID)
	assert.Equal(t, uuid.Nil, catalog.lastFilter.MaterialID)
}

func TestListProductsNormalizesPagination(t *testing.T) {
	catalog := newStubCatalog()
	app := newTestApp(catalog)

	resp := doJSON(t, app, "GET", "/api/products/?page=-1&limit=abc", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, catalog.lastFilter.Page)
	assert.Equal(t, 10, catalog.lastFilter.Limit)
}

func TestProductsByPriceRange(t *testing.T) {
	app := newTestApp(newStubCatalog())

	resp := doJSON(t, app, "GET", "/api/products/price-range?range=0-500", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/products/price-range?range=bogus", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPriceRangeCount(t *testing.T) {
	app := newTestApp(newStubCatalog())

	resp := doJSON(t, app, "GET", "/api/products/price-range-count", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Data map[string]int64 `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Contains(t, envelope.Data, "0-500")
	assert.Contains(t, envelope.Data, "501-1000")
	assert.Contains(t, envelope.Data, "1000+")
}
