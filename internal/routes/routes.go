package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/stockroom/internal/config"
	"github.com/example/stockroom/internal/handlers"
	"github.com/example/stockroom/internal/middleware"
	"github.com/example/stockroom/internal/store"
)

// Register wires up all HTTP routes. Everything except login sits behind the
// bearer-token middleware.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	catalog := store.NewCatalog(db)

	authHandler := handlers.NewAuthHandler(db, cfg)
	productHandler := handlers.NewProductHandler(catalog)
	catalogHandler := handlers.NewCatalogHandler(catalog)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)

	protected := api.Group("", middleware.AuthMiddleware(cfg))

	products := protected.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Post("/", productHandler.CreateProduct)
	// Report routes before the parameterized ones so Fiber does not swallow
	// them as product ids.
	products.Get("/category-wise-highest-price", productHandler.CategoryWiseHighestPrice)
	products.Get("/price-range-count", productHandler.PriceRangeCount)
	products.Get("/price-range", productHandler.ProductsByPriceRange)
	products.Get("/without-media", productHandler.ProductsWithoutMedia)
	products.Put("/:product_id", productHandler.UpdateProduct)
	products.Delete("/:product_id", productHandler.DeleteProduct)

	categories := protected.Group("/categories")
	categories.Get("/", catalogHandler.ListCategories)
	categories.Delete("/:id", middleware.RequireAdmin(), catalogHandler.DeleteCategory)

	materials := protected.Group("/materials")
	materials.Get("/", catalogHandler.ListMaterials)
}
