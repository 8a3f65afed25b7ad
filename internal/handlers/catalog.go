package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/stockroom/internal/store"
)

// CatalogHandler serves the category and material lookup lists that the UI
// filter dropdowns consume.
type CatalogHandler struct {
	catalog store.Catalog
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog store.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListCategories returns all categories ordered by name.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.Context())
	if err != nil {
		return mapStoreError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": categories})
}

// ListMaterials returns all materials ordered by name.
func (h *CatalogHandler) ListMaterials(c *fiber.Ctx) error {
	materials, err := h.catalog.ListMaterials(c.Context())
	if err != nil {
		return mapStoreError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": materials})
}

// DeleteCategory removes a category. The schema cascade removes every product
// in it, so the route sits behind the admin gate.
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.catalog.DeleteCategory(c.Context(), id); err != nil {
		return mapStoreError(err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "category deleted successfully"})
}
