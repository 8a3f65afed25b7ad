package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/stockroom/internal/store"
	"github.com/example/stockroom/internal/utils"
)

// ProductHandler manages product CRUD and the catalog reports.
type ProductHandler struct {
	catalog  store.Catalog
	validate *validator.Validate
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(catalog store.Catalog) *ProductHandler {
	return &ProductHandler{catalog: catalog, validate: validator.New()}
}

// mapStoreError translates catalog sentinel errors into client responses.
// Anything unrecognized falls through to the app error handler, which logs
// it and answers with a generic 500.
func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrDuplicateSKU):
		return fiber.NewError(fiber.StatusBadRequest, "SKU already exists")
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "record not found")
	case errors.Is(err, store.ErrInvalidRange):
		return fiber.NewError(fiber.StatusBadRequest, "unknown price range")
	default:
		return err
	}
}

// ListProducts returns paginated products with optional filters.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	filter := store.ListFilter{
		SKU:   c.Query("sku", c.Query("SKU")),
		Name:  c.Query("product_name"),
		Page:  pg.Page,
		Limit: pg.Limit,
	}
	if v := c.Query("category_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.CategoryID = id
		}
	}
	if v := c.Query("material_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.MaterialID = id
		}
	}

	records, total, err := h.catalog.ListProducts(c.Context(), filter)
	if err != nil {
		return mapStoreError(err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"products":    records,
		"total_count": total,
	})
}

type createProductRequest struct {
	SKU          string          `json:"sku" validate:"required"`
	Name         string          `json:"product_name" validate:"required"`
	CategoryName string          `json:"category_name" validate:"required"`
	MaterialName string          `json:"material_name" validate:"required"`
	Price        decimal.Decimal `json:"price"`
	MediaURL     *string         `json:"media_url"`
}

// CreateProduct handles product creation.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req createProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "all fields are required")
	}

	if !req.Price.IsPositive() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid price value")
	}

	record, err := h.catalog.AddProduct(c.Context(), store.AddProductInput{
		SKU:          req.SKU,
		Name:         req.Name,
		CategoryName: req.CategoryName,
		MaterialName: req.MaterialName,
		Price:        req.Price,
		MediaURL:     req.MediaURL,
	})
	if err != nil {
		return mapStoreError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": record})
}

type updateProductRequest struct {
	Name         string          `json:"product_name" validate:"required"`
	CategoryID   string          `json:"category_id" validate:"required"`
	MaterialID   string          `json:"material_id" validate:"required"`
	Price        decimal.Decimal `json:"price"`
	MediaURL     *string         `json:"media_url"`
	CategoryName string          `json:"category_name"`
	MaterialName string          `json:"material_name"`
}

// UpdateProduct mutates a product in place. The response is an ack only;
// clients re-fetch the record.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("product_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	var req updateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "all fields are required")
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid category_id")
	}
	materialID, err := uuid.Parse(req.MaterialID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid material_id")
	}

	if !req.Price.IsPositive() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid price value")
	}

	if err := h.catalog.UpdateProduct(c.Context(), id, store.UpdateProductInput{
		Name:         req.Name,
		CategoryID:   categoryID,
		MaterialID:   materialID,
		Price:        req.Price,
		MediaURL:     req.MediaURL,
		CategoryName: req.CategoryName,
		MaterialName: req.MaterialName,
	}); err != nil {
		return mapStoreError(err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "product updated successfully"})
}

// DeleteProduct removes a product; its media rows go with it.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("product_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	if err := h.catalog.DeleteProduct(c.Context(), id); err != nil {
		return mapStoreError(err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "product deleted successfully"})
}

// CategoryWiseHighestPrice reports the maximum price per category.
func (h *ProductHandler) CategoryWiseHighestPrice(c *fiber.Ctx) error {
	rows, err := h.catalog.CategoryHighestPrices(c.Context())
	if err != nil {
		return mapStoreError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": rows})
}

// PriceRangeCount reports product counts per price band.
func (h *ProductHandler) PriceRangeCount(c *fiber.Ctx) error {
	counts, err := h.catalog.PriceRangeCounts(c.Context())
	if err != nil {
		return mapStoreError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": counts})
}

// ProductsByPriceRange lists products inside a named price band.
func (h *ProductHandler) ProductsByPriceRange(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	records, total, err := h.catalog.ProductsByPriceRange(c.Context(), c.Query("range"), pg.Page, pg.Limit)
	if err != nil {
		return mapStoreError(err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"products":    records,
		"total_count": total,
	})
}

// ProductsWithoutMedia lists products with no usable media URL.
func (h *ProductHandler) ProductsWithoutMedia(c *fiber.Ctx) error {
	records, err := h.catalog.ProductsWithoutMedia(c.Context())
	if err != nil {
		return mapStoreError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": records})
}
