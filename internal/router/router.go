package router

import (
	"github.com/labstack/echo/v4"

	"github.com/duskbar/table-reservation/internal/handler"
	"github.com/duskbar/table-reservation/internal/middleware"
)

// RegisterRoutes registers routes that carry no identity at all.
// Currently that is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// Handlers bundles every HTTP handler the API mounts.
type Handlers struct {
	Catalog      *handler.CatalogHandler
	Availability *handler.AvailabilityHandler
	Reservation  *handler.ReservationHandler
	Admin        *handler.AdminHandler
}

// RegisterAPI wires the /v1 surface.  Identity is resolved once for the
// whole group: requests without a token proceed as guests, so booking and
// lookup stay open while /v1/my-reservations and the admin console demand
// a user or the ADMIN role respectively.  The cache and rate-limit
// middleware are optional; pass nil to skip them.
func RegisterAPI(e *echo.Echo, h Handlers, jwtSecret string, cache, limiter echo.MiddlewareFunc) {
	v1 := e.Group("/v1")
	v1.Use(middleware.OptionalIdentity(jwtSecret))
	if limiter != nil {
		v1.Use(limiter)
	}

	// Catalog reads.
	v1.GET("/slots", h.Catalog.GetSlots)
	v1.GET("/table-types", h.Catalog.GetTableTypes)

	// Availability reads sit behind the response cache when one is
	// configured; counts change rarely enough that a short TTL is safe.
	avail := v1.Group("/availability")
	if cache != nil {
		avail.Use(cache)
	}
	avail.GET("/:date", h.Availability.GetSlots)
	avail.GET("/:date/status", h.Availability.GetDayStatus)

	// Guest booking surface.
	v1.POST("/reservations", h.Reservation.Create)
	v1.GET("/reservations/lookup", h.Reservation.Lookup)

	mine := v1.Group("")
	mine.Use(middleware.RequireUser())
	mine.GET("/my-reservations", h.Reservation.ListMine)
	mine.DELETE("/reservations/:id", h.Reservation.CancelMine)

	// Staff console.
	admin := v1.Group("/admin")
	admin.Use(middleware.RequireUser())
	admin.Use(middleware.RequireRole("ADMIN"))
	admin.GET("/reservations", h.Admin.ListReservations)
	admin.POST("/reservations/:id/confirm", h.Admin.Confirm)
	admin.POST("/reservations/:id/arrive", h.Admin.Arrive)
	admin.POST("/reservations/:id/no-show", h.Admin.NoShow)
	admin.POST("/reservations/:id/cancel", h.Admin.Cancel)
	admin.POST("/reservations/:id/remind", h.Admin.Remind)
	admin.GET("/stats", h.Admin.Stats)
}
