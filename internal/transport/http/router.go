package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bookbakery/storefront/internal/handlers"
	adminauth "github.com/bookbakery/storefront/internal/middleware/auth"
)

type Deps struct {
	OrderHandler    *handlers.OrderHandler
	ProductHandler  *handlers.ProductHandler
	CategoryHandler *handlers.CategoryHandler
	AdminHandler    *handlers.AdminHandler
	SearchHandler   *handlers.SearchHandler
	AdminMW         *adminauth.AdminMiddleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	api.POST("/orders", d.OrderHandler.CreateOrder)
	api.GET("/orders/:id", d.OrderHandler.GetOrder)
	api.POST("/orders/:id/payment", d.OrderHandler.ReconcilePayment)

	api.GET("/products", d.ProductHandler.GetProducts)
	api.GET("/products/:id", d.ProductHandler.GetProduct)
	api.GET("/categories", d.CategoryHandler.GetCategories)

	if d.SearchHandler != nil {
		api.GET("/search", d.SearchHandler.Search)
	}

	api.POST("/admin/auth/login", d.AdminHandler.Login)

	admin := api.Group("/admin", d.AdminMW.RequireAdmin)

	admin.GET("/auth/verify", d.AdminHandler.Verify)
	admin.GET("/profile", d.AdminHandler.GetProfile)
	admin.PUT("/profile", d.AdminHandler.UpdateProfile)
	admin.PUT("/password", d.AdminHandler.ChangePassword)

	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)

	admin.POST("/categories", d.CategoryHandler.CreateCategory)
	admin.PATCH("/categories/:id", d.CategoryHandler.PatchCategory)
	admin.DELETE("/categories/:id", d.CategoryHandler.DeleteCategory)

	admin.GET("/orders", d.AdminHandler.ListOrders)
	admin.GET("/orders/:id", d.AdminHandler.GetOrder)
	admin.PUT("/orders/:id/status", d.AdminHandler.UpdateOrderStatus)
}
