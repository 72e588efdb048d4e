package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tilo-app/tilo-api/internal/application/auth"
	"github.com/tilo-app/tilo-api/internal/application/inventory"
	"github.com/tilo-app/tilo-api/internal/application/pricing"
	"github.com/tilo-app/tilo-api/internal/application/usecase"
	"github.com/tilo-app/tilo-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC *usecase.ProductUseCase
	OutletUC  *usecase.OutletUseCase
	UserUC    *usecase.UserUseCase
	BatchUC   *inventory.BatchTrackingUseCase
	PricingUC *pricing.PriceTierUseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Solo admin y gerente mutan catálogo, tiers y sucursales;
	// el cajero consulta y deduce stock al vender.
	manager := RequireRole(entity.RoleAdmin, entity.RoleGerente)

	// Outlets (protegido)
	outlets := protected.Group("/outlets")
	outletHandler := NewOutletHandler(deps.OutletUC)
	outlets.Get("/", outletHandler.List)
	outlets.Get("/:id", outletHandler.Get)
	outlets.Post("/", manager, outletHandler.Create)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", manager, productHandler.Create)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", manager, productHandler.Update)
	products.Delete("/:id", manager, productHandler.Delete)

	// Batches anidados bajo producto (protegido)
	batchHandler := NewBatchHandler(deps.BatchUC)
	products.Get("/:productId/batches", batchHandler.ListByProduct)
	products.Get("/:productId/batches/summary", batchHandler.Summary)

	// Batches (protegido)
	batches := protected.Group("/batches")
	batches.Post("/", manager, batchHandler.Create)
	batches.Post("/deduct", batchHandler.Deduct)
	batches.Get("/expiring", batchHandler.Expiring)
	batches.Get("/expired", batchHandler.Expired)
	batches.Put("/:id", manager, batchHandler.Update)
	batches.Delete("/:id", manager, batchHandler.Delete)

	// Pricing (protegido)
	pricingHandler := NewPricingHandler(deps.PricingUC)
	products.Get("/:productId/tiers", pricingHandler.ListTiers)
	products.Post("/:productId/tiers", manager, pricingHandler.CreateTier)
	products.Put("/:productId/tiers", manager, pricingHandler.ReplaceTiers)
	products.Get("/:productId/price", pricingHandler.ResolvePrice)

	tiers := protected.Group("/tiers")
	tiers.Put("/:id", manager, pricingHandler.UpdateTier)
	tiers.Delete("/:id", manager, pricingHandler.DeleteTier)

	// Users (protegido, solo administración)
	users := protected.Group("/users", manager)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
}
