package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/kardex-pro/internal/application/auth"
	appinv "github.com/tu-usuario/kardex-pro/internal/application/inventory"
	"github.com/tu-usuario/kardex-pro/internal/application/sales"
	"github.com/tu-usuario/kardex-pro/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC       *usecase.CompanyUseCase
	LocationUC      *usecase.LocationUseCase
	ProductUC       *usecase.ProductUseCase
	SupplierUC      *usecase.SupplierUseCase
	BatchUC         *appinv.BatchUseCase
	ConsumeUC       *appinv.ConsumeStockUseCase
	KardexUC        *appinv.KardexUseCase
	ReconcileUC     *appinv.ReconciliationUseCase
	TransferUC      *appinv.TransferUseCase
	ReplenishmentUC *appinv.ReplenishmentUseCase
	SalesUC         *sales.CreateSaleUseCase
	AuthUC          *auth.AuthUseCase
	UserUC          *usecase.UserUseCase
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público por ahora; se puede proteger con AuthMiddleware(deps.JWTSecret))
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Actualizar empresa exige token; el handler limita al propio tenant
	protected.Put("/companies/:id", RequireRole("admin"), companyHandler.Update)

	// Users (protegido; listado y suspensión son de admin)
	usersGroup := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	usersGroup.Get("/me", userHandler.Me)
	usersGroup.Get("/", RequireRole("admin"), userHandler.List)
	usersGroup.Patch("/:id/status", RequireRole("admin"), userHandler.UpdateStatus)

	// Locations (protegido)
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", locationHandler.Update)
	locations.Delete("/:id", locationHandler.Delete)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Delete("/:id", supplierHandler.Deactivate)

	// Inventory: lotes, consumo, kardex y conciliación (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.BatchUC, deps.ConsumeUC, deps.KardexUC, deps.ReconcileUC)
	invGroup.Post("/batches", inventoryHandler.CreateBatch)
	invGroup.Get("/batches", inventoryHandler.ListBatches)
	invGroup.Post("/batches/:id/correct", inventoryHandler.CorrectBatch)
	invGroup.Post("/consumption/allocate", inventoryHandler.Allocate)
	invGroup.Post("/consumption", inventoryHandler.Consume)
	invGroup.Get("/kardex/:productId", inventoryHandler.Kardex)
	invGroup.Get("/kardex/:productId/pdf", inventoryHandler.KardexPDF)
	invGroup.Get("/reconciliation/:productId", inventoryHandler.Reconcile)
	// la purga borra historial: solo admin
	invGroup.Delete("/reconciliation/:productId/legacy-changes", RequireRole("admin"), inventoryHandler.PurgeLegacy)

	// Transfers (protegido)
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Post("/:id/complete", transferHandler.Complete)
	transfers.Post("/:id/cancel", transferHandler.Cancel)

	// Replenishments (protegido)
	replenishments := protected.Group("/replenishments")
	replenishmentHandler := NewReplenishmentHandler(deps.ReplenishmentUC)
	replenishments.Post("/", replenishmentHandler.Create)
	replenishments.Get("/", replenishmentHandler.List)
	replenishments.Post("/:id/approve", replenishmentHandler.Approve)
	replenishments.Post("/:id/reject", replenishmentHandler.Reject)
	replenishments.Post("/:id/fulfill", replenishmentHandler.Fulfill)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	salesHandler := NewSalesHandler(deps.SalesUC)
	salesGroup.Post("/", salesHandler.Create)
	salesGroup.Get("/", salesHandler.List)
	salesGroup.Get("/:id", salesHandler.GetByID)
}
