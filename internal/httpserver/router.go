package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	clientmw "github.com/kmdsweets/storefront/internal/middleware/client"
	"github.com/kmdsweets/storefront/internal/middleware/csrf"
)

type Deps struct {
	CartHandler    *CartHTTP
	CatalogHandler *CatalogHTTP
	SearchHandler  *SearchHTTP
	ContactHandler *ContactHTTP
	SessionHandler *SessionHTTP
	Events         *EventsHub

	Client clientmw.Config
	CSRF   csrf.Config
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api", clientmw.Middleware(d.Client), csrf.Middleware(d.CSRF))
	api.GET("/csrf", CSRFToken)

	cart := api.Group("/cart")
	cart.GET("", d.CartHandler.GetCart)
	cart.GET("/count", d.CartHandler.Count)
	cart.POST("/items", d.CartHandler.AddProduct)
	cart.POST("/items/snapshot", d.CartHandler.AddSnapshot)
	cart.PATCH("/items/:id", d.CartHandler.UpdateQuantity)
	cart.DELETE("/items/:id", d.CartHandler.Remove)
	cart.DELETE("", d.CartHandler.Clear)
	cart.GET("/events", d.Events.Stream)

	api.POST("/checkout", Checkout)

	api.GET("/products", d.CatalogHandler.GetProducts)
	api.GET("/products/:id", d.CatalogHandler.GetProduct)
	api.GET("/slides", d.CatalogHandler.GetSlides)
	api.GET("/suppliers", d.CatalogHandler.GetSuppliers)
	api.GET("/search", d.SearchHandler.Search)

	api.POST("/contact", d.ContactHandler.Send)

	session := api.Group("/session")
	session.GET("", d.SessionHandler.Current)
	session.POST("/login", d.SessionHandler.Login)
	session.POST("/logout", d.SessionHandler.Logout)
}

// CSRFToken lets clients that cannot read the cookie fetch the token to echo back.
func CSRFToken(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"token": csrf.Token(c)})
}

// Checkout is not available yet. The SPA shows a "coming soon" notice for it.
func Checkout(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]string{"status": "coming_soon"})
}

func remoteFailure(c echo.Context, message string) error {
	return c.JSON(http.StatusBadGateway, map[string]string{"status": "error", "message": message})
}
