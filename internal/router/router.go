package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/commerce-admin-api/internal/auth"       // the credential guard behind the token middleware
	"github.com/iliyamo/commerce-admin-api/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/commerce-admin-api/internal/middleware" // import middleware for token authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance: the liveness endpoint and the detailed health check.
func RegisterRoutes(e *echo.Echo, hh *handler.HealthHandler) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
	// The detailed variant also reports database and Redis connectivity and
	// turns 503 when the database is unreachable.
	e.GET("/api/health", hh.Detailed)
}

// RegisterAuth registers session endpoints.  Login is public; logout and
// /api/me require a valid bearer credential.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, g *auth.Guard) {
	// Login lives under the admin prefix because only staff accounts use
	// password sessions; customers authenticate through the storefront.
	e.POST("/api/admin/login", a.Login)

	// Routes below need the opaque "<id>|<secret>" credential.  The
	// middleware resolves it to a principal or rejects with the fixed
	// status for the failure reason.
	s := e.Group("/api")
	s.Use(middleware.TokenAuth(g))
	s.POST("/logout", a.Logout)
	s.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints: product
// reviews and the visual search stub.
func RegisterPublic(e *echo.Echo, rv *handler.ReviewHandler, vs *handler.VisualSearchHandler) {
	// Anyone can read a product's reviews.
	e.GET("/api/products/:id/reviews", rv.ListByProduct)
	// Visual search is open to guests so the storefront can offer it
	// before sign-in.
	e.POST("/api/search/visual", vs.Search)
}

// RegisterUser registers endpoints available to any authenticated user:
// reviews, review votes, payment methods and payment intents.
func RegisterUser(e *echo.Echo, g *auth.Guard, rv *handler.ReviewHandler, pay *handler.PaymentHandler) {
	u := e.Group("/api")
	u.Use(middleware.TokenAuth(g))

	// Reviews and votes.
	u.POST("/reviews", rv.Create)
	u.POST("/reviews/:id/vote", rv.Vote)

	// Stored cards, owner scoped.
	u.GET("/payment-methods", pay.ListMethods)
	u.POST("/payment-methods", pay.CreateMethod)
	u.DELETE("/payment-methods/:id", pay.DeleteMethod)

	// Payment intents, owner scoped.
	u.POST("/payment-intents", pay.CreateIntent)
	u.GET("/payment-intents/:id", pay.GetIntent)
	u.POST("/payment-intents/:id/cancel", pay.CancelIntent)
}

// RegisterAdmin registers the staff-only surface: reports, customers,
// review moderation and discount codes.  Every route passes TokenAuth and
// then RequireAdmin; report GETs additionally sit behind the Redis
// response cache when one is configured.
func RegisterAdmin(e *echo.Echo, g *auth.Guard, cache echo.MiddlewareFunc,
	rep *handler.ReportHandler, cust *handler.CustomerHandler,
	rv *handler.ReviewHandler, disc *handler.DiscountHandler) {
	admin := e.Group("/api/admin")
	admin.Use(middleware.TokenAuth(g))
	admin.Use(middleware.RequireAdmin())

	// Reports are read-only aggregates; cache middleware is applied per
	// route so customer and discount mutations never hit it.
	reports := admin.Group("")
	if cache != nil {
		reports.Use(cache)
	}
	reports.GET("/dashboard", rep.Dashboard)
	reports.GET("/analytics/sales", rep.SalesAnalytics)
	reports.GET("/analytics/users", rep.UserAnalytics)
	reports.GET("/analytics/products", rep.ProductAnalytics)
	reports.GET("/analytics/customers", rep.CustomerAnalytics)
	reports.GET("/analytics/performance", rep.PerformanceAnalytics)

	// Customer resource.
	admin.GET("/customers", cust.List)
	admin.GET("/customers/:id", cust.Get)
	admin.POST("/customers", cust.Create)
	admin.PUT("/customers/:id", cust.Update)
	admin.DELETE("/customers/:id", cust.Delete)

	// Review moderation.
	admin.GET("/reviews", rv.ListAll)
	admin.DELETE("/reviews/:id", rv.Delete)

	// Discount codes.
	admin.GET("/discount-codes", disc.List)
	admin.GET("/discount-codes/:id", disc.Get)
	admin.POST("/discount-codes", disc.Create)
	admin.PUT("/discount-codes/:id", disc.Update)
	admin.DELETE("/discount-codes/:id", disc.Delete)
}

// RegisterMonitoring registers the event ingestion sink.  Callers are
// other services, not humans, so these routes authenticate with a signed
// service token instead of a bearer credential.
func RegisterMonitoring(e *echo.Echo, serviceSecret string, mon *handler.MonitoringHandler) {
	m := e.Group("/api/monitoring")
	m.Use(middleware.ServiceAuth(serviceSecret))
	m.POST("/behavior", mon.Behavior)
	m.POST("/performance", mon.Performance)
	m.POST("/business", mon.Business)
}
