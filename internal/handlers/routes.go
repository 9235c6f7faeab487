package handlers

import (
	"sgspadmin/internal/middleware"

	// registers the OpenAPI document served under /swagger
	_ "sgspadmin/internal/docs"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const (
	AdminAPIPrefix   = "/api/admin/v1"
	InvoiceAPIPrefix = "/api/invoice"
)

// Router groups every handler set the server exposes.
type Router struct {
	Auth       *AuthHandlers
	Admins     *AdminHandlers
	Categories *CategoryHandlers
	Products   *ProductHandlers
	Inventory  *InventoryHandlers
	Dashboard  *DashboardHandlers
	Invoices   *InvoiceHandlers
	Health     *HealthHandlers
}

// Register mounts every route on e. authGate runs for all requests except
// logout and only attaches identity; protected groups add RequireAuth on top.
// Logout reads the header itself so a stale or revoked token still gets 200.
func (r *Router) Register(e *echo.Echo, authGate echo.MiddlewareFunc) {
	e.Use(middleware.Except(authGate, AdminAPIPrefix+"/auth/logout"))

	if r.Health != nil {
		e.GET("/health", r.Health.LivenessCheck)
		e.GET("/health/ready", r.Health.ReadinessCheck)
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group(AdminAPIPrefix, middleware.VersionHeader("v1"))
	requireAuth := middleware.RequireAuth()

	auth := v1.Group("/auth")
	auth.POST("/login", r.Auth.Login)
	auth.POST("/logout", r.Auth.Logout)
	auth.GET("/me", r.Auth.Me)

	// image bytes are served to storefront pages without a token
	v1.GET("/products/:id/images/:imageId", r.Products.ServeImage)

	admins := v1.Group("/admin-users", requireAuth)
	admins.GET("", r.Admins.ListAdmins)
	admins.POST("", r.Admins.CreateAdmin)
	admins.PUT("/:id", r.Admins.UpdateAdmin)
	admins.POST("/:id/reset-password", r.Admins.ResetPassword)

	categories := v1.Group("/categories", requireAuth)
	categories.GET("", r.Categories.ListCategories)
	categories.POST("", r.Categories.CreateCategory)
	categories.PUT("/:id", r.Categories.UpdateCategory)
	categories.DELETE("/:id", r.Categories.DeleteCategory)

	products := v1.Group("/products", requireAuth)
	products.GET("", r.Products.ListProducts)
	products.POST("", r.Products.CreateProduct)
	products.GET("/:id", r.Products.GetProduct)
	products.PUT("/:id", r.Products.UpdateProduct)
	products.DELETE("/:id", r.Products.DeleteProduct)
	products.POST("/:id/publish", r.Products.PublishProduct)
	products.POST("/:id/unpublish", r.Products.UnpublishProduct)
	products.PUT("/:id/pricing", r.Products.UpdatePricing)
	products.PUT("/:id/inventory", r.Products.UpdateInventory)
	products.POST("/:id/images", r.Products.UploadImages)
	products.DELETE("/:id/images/:imageId", r.Products.DeleteImage)

	inventory := v1.Group("/inventory", requireAuth)
	inventory.GET("/low-stock", r.Inventory.LowStock)
	inventory.GET("/low-stock-summary", r.Inventory.LowStockSummary)

	dashboard := v1.Group("/dashboard", requireAuth)
	dashboard.GET("/summary", r.Dashboard.Summary)
	dashboard.GET("/top-products", r.Dashboard.TopProducts)

	invoices := e.Group(InvoiceAPIPrefix, requireAuth)
	invoices.POST("/generate", r.Invoices.GenerateInvoice)
}
