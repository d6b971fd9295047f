package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/jojopasta/internal/config"
	"github.com/example/jojopasta/internal/handlers"
	"github.com/example/jojopasta/internal/middleware"
	"github.com/example/jojopasta/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	lineService := services.NewLineService(cfg.LineClientID, cfg.LineClientSecret, cfg.LineRedirectURI)

	authHandler := handlers.NewAuthHandler(db, cfg, lineService)
	menuHandler := handlers.NewMenuHandler(db)
	categoryHandler := handlers.NewCategoryHandler(db)
	orderHandler := handlers.NewOrderHandler(db)
	adminHandler := handlers.NewAdminHandler(db, cfg)
	contactHandler := handlers.NewContactHandler(db)

	api := app.Group("/api")

	// Auth
	auth := api.Group("/auth")
	auth.Get("/line", authHandler.LineLogin)
	auth.Get("/line/callback", authHandler.LineCallback)
	auth.Get("/session", middleware.OptionalAuth(cfg, db), authHandler.Session)
	auth.Post("/sign-out", authHandler.SignOut)

	// Public catalog reads
	api.Get("/menu", menuHandler.ListMenuItems)
	api.Get("/menu/:id", menuHandler.GetMenuItem)
	api.Get("/categories", categoryHandler.ListCategories)

	// Orders: guest checkout allowed, session linked when present
	api.Post("/orders", middleware.OptionalAuth(cfg, db), orderHandler.CreateOrder)
	api.Get("/orders/:orderNumber", orderHandler.GetOrderByNumber)
	api.Get("/users/me/orders", middleware.Auth(cfg, db), orderHandler.ListMyOrders)

	// Contact form
	api.Post("/contact", contactHandler.CreateContactMessage)

	// Admin bootstrap; guarded by the setup key, not the admin gate
	api.Post("/admin/make-admin", adminHandler.MakeAdmin)

	// Admin surface: every catalog mutation goes through the admin gate
	admin := api.Group("/admin", middleware.Auth(cfg, db), middleware.RequireAdmin())
	admin.Get("/stats", adminHandler.DashboardStats)

	admin.Get("/menu-items", menuHandler.AdminListMenuItems)
	admin.Post("/menu-items", menuHandler.CreateMenuItem)
	admin.Put("/menu-items/:id", menuHandler.UpdateMenuItem)
	admin.Delete("/menu-items/:id", menuHandler.DeleteMenuItem)

	admin.Get("/categories", categoryHandler.AdminListCategories)
	admin.Post("/categories", categoryHandler.CreateCategory)
	admin.Put("/categories/:id", categoryHandler.UpdateCategory)
	admin.Delete("/categories/:id", categoryHandler.DeleteCategory)

	admin.Get("/orders", orderHandler.AdminListOrders)
	admin.Patch("/orders/:id/status", orderHandler.UpdateOrderStatus)
}
