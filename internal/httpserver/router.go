package httpserver

import (
	"github.com/labstack/echo/v4"
)

type Deps struct {
	Auth      *AuthHTTP
	Catalog   *CatalogHTTP
	Order     *OrderHTTP
	JWTSecret []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.POST("/register/", d.Auth.Register)
	e.POST("/login/", d.Auth.Login)
	e.POST("/token/refresh/", d.Auth.Refresh)

	api := e.Group("", RequireAuth(d.JWTSecret))

	api.POST("/logout/", d.Auth.Logout)

	api.GET("/categories/", d.Catalog.ListCategories)
	api.POST("/categories/", d.Catalog.CreateCategory)
	api.GET("/categories/:id/", d.Catalog.GetCategory)
	api.PUT("/categories/:id/", d.Catalog.UpdateCategory)
	api.DELETE("/categories/:id/", d.Catalog.DeleteCategory)

	api.GET("/products/", d.Catalog.ListProducts)
	api.POST("/products/", d.Catalog.CreateProduct)
	api.GET("/products/:id/", d.Catalog.GetProduct)
	api.PUT("/products/:id/", d.Catalog.UpdateProduct)
	api.DELETE("/products/:id/", d.Catalog.DeleteProduct)

	api.GET("/search", d.Catalog.Search)

	api.GET("/orders/", d.Order.ListOrders)
	api.POST("/orders/", d.Order.CreateOrder)
	api.GET("/orders/:id/", d.Order.GetOrder)
	api.PUT("/orders/:id/", d.Order.UpdateOrder)
	api.DELETE("/orders/:id/", d.Order.DeleteOrder)

	api.GET("/order-history/", d.Order.OrderHistory)
}
