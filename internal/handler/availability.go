package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/duskbar/table-reservation/internal/availability"
	"github.com/duskbar/table-reservation/internal/model"
)

// AvailabilityHandler serves the calendar read endpoints.  Both endpoints
// are pure reads and sit behind the response cache; past dates remain
// queryable because read-only queries are never blocked.
type AvailabilityHandler struct {
	Engine *availability.Engine
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(engine *availability.Engine) *AvailabilityHandler {
	if engine == nil {
		panic("nil engine passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Engine: engine}
}

// GetSlots handles GET /v1/availability/:date.  It returns remaining and
// total table counts for every catalog slot on that date.
func (h *AvailabilityHandler) GetSlots(c echo.Context) error {
	date := c.Param("date")
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_slot"})
	}
	items, err := h.Engine.SlotsForDate(c.Request().Context(), date)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage_unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"date": date, "items": items})
}

// GetDayStatus handles GET /v1/availability/:date/status.  It condenses a
// date into one of available/limited/full/unknown for calendar tiles.
func (h *AvailabilityHandler) GetDayStatus(c echo.Context) error {
	date := c.Param("date")
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_slot"})
	}
	status, err := h.Engine.DayStatus(c.Request().Context(), date)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage_unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"date": date, "status": status})
}
