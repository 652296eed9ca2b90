package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/bodega-pos/internal/application/auth"
	"github.com/tu-usuario/bodega-pos/internal/application/insights"
	"github.com/tu-usuario/bodega-pos/internal/application/purchasing"
	"github.com/tu-usuario/bodega-pos/internal/application/sales"
	"github.com/tu-usuario/bodega-pos/internal/application/stock"
	"github.com/tu-usuario/bodega-pos/internal/application/usecase"
	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC   *usecase.CompanyUseCase
	ProductUC   *usecase.ProductUseCase
	LocationUC  *usecase.LocationUseCase
	SupplierUC  *usecase.SupplierUseCase
	ActivityUC  *usecase.ActivityUseCase
	StockUC     *stock.UseCase
	SalesUC     *sales.UseCase
	PurchaseUC  *purchasing.UseCase
	InsightsUC  *insights.UseCase
	AuthUC      *auth.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (alta de tenant; público)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Solo admin y bodeguero mutan inventario; vendedor solo vende y consulta.
	inventoryWrite := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", inventoryWrite, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", inventoryWrite, productHandler.Update)
	products.Delete("/:id", inventoryWrite, productHandler.Delete)

	// Motor de stock (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Post("/adjust", inventoryWrite, stockHandler.Adjust)
	stockGroup.Post("/transfer", inventoryWrite, stockHandler.Transfer)
	stockGroup.Post("/bulk-adjust", inventoryWrite, stockHandler.BulkAdjust)
	stockGroup.Get("/movements", stockHandler.CompanyMovements)
	products.Post("/bulk-delete", inventoryWrite, stockHandler.BulkDelete)
	products.Post("/import", inventoryWrite, stockHandler.Import)
	products.Get("/:id/movements", stockHandler.ProductMovements)
	products.Get("/:id/stocks", stockHandler.ProductStocks)

	// Batches (protegido)
	batches := protected.Group("/batches")
	batchHandler := NewBatchHandler(deps.StockUC)
	batches.Post("/", inventoryWrite, batchHandler.Create)
	batches.Post("/:id/adjust", inventoryWrite, batchHandler.Adjust)
	batches.Delete("/:id", inventoryWrite, batchHandler.Delete)
	products.Get("/:id/batches", batchHandler.ListByProduct)

	// Sales / POS (protegido; vendedor incluido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SalesUC)
	salesGroup.Post("/checkout", saleHandler.Checkout)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)

	// Purchase orders (protegido)
	orders := protected.Group("/purchase-orders")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	orders.Post("/", inventoryWrite, purchaseHandler.Create)
	orders.Get("/", purchaseHandler.List)
	orders.Get("/:id", purchaseHandler.GetByID)
	orders.Post("/:id/status", inventoryWrite, purchaseHandler.ChangeStatus)
	orders.Post("/:id/receive", inventoryWrite, purchaseHandler.Receive)

	// Locations (protegido)
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", inventoryWrite, locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", inventoryWrite, locationHandler.Update)
	locations.Delete("/:id", inventoryWrite, locationHandler.Delete)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", inventoryWrite, supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", inventoryWrite, supplierHandler.Update)
	suppliers.Delete("/:id", inventoryWrite, supplierHandler.Delete)

	// Insights (protegido, solo lectura salvo reglas)
	insightsGroup := protected.Group("/insights")
	insightsHandler := NewInsightsHandler(deps.InsightsUC)
	insightsGroup.Get("/reorder", insightsHandler.ReorderSuggestions)
	insightsGroup.Get("/forecast", insightsHandler.Forecast)
	insightsGroup.Get("/low-stock", insightsHandler.LowStock)
	protected.Put("/reorder-rules", inventoryWrite, insightsHandler.UpsertRule)
	protected.Delete("/reorder-rules/:productId", inventoryWrite, insightsHandler.DeleteRule)

	// Activity log (protegido, solo admin)
	activity := protected.Group("/activity", RequireRole(entity.RoleAdmin))
	activityHandler := NewActivityHandler(deps.ActivityUC)
	activity.Get("/", activityHandler.List)
}
