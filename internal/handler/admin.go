package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/duskbar/table-reservation/internal/booking"
	"github.com/duskbar/table-reservation/internal/model"
	"github.com/duskbar/table-reservation/internal/reporting"
	"github.com/duskbar/table-reservation/internal/repository"
)

// AdminHandler serves the staff console: the full reservation list with
// filters, the lifecycle actions (confirm, arrive, no-show, cancel,
// remind) and the aggregate stats endpoint.
type AdminHandler struct {
	Booking *booking.Service
	Repo    *repository.ReservationRepo
	Reports *reporting.Aggregator
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(svc *booking.Service, repo *repository.ReservationRepo, rep *reporting.Aggregator) *AdminHandler {
	if svc == nil || repo == nil || rep == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{Booking: svc, Repo: repo, Reports: rep}
}

// ListReservations handles GET /v1/admin/reservations.  Supported query
// params: status, date (exact), q (guest name or email substring) and
// limit.
func (h *AdminHandler) ListReservations(c echo.Context) error {
	filter := repository.ListFilter{
		Date:   strings.TrimSpace(c.QueryParam("date")),
		Search: strings.TrimSpace(c.QueryParam("q")),
	}
	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
		st, ok := model.ParseStatus(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed"})
		}
		filter.Status = &st
	}
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed"})
		}
		filter.Limit = n
	}
	items, err := h.Repo.List(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage_unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Confirm handles POST /v1/admin/reservations/:id/confirm.
func (h *AdminHandler) Confirm(c echo.Context) error {
	return h.mutate(c, h.Booking.Confirm)
}

// Arrive handles POST /v1/admin/reservations/:id/arrive.  Marking the
// party as arrived closes the reservation out as COMPLETED.
func (h *AdminHandler) Arrive(c echo.Context) error {
	return h.mutate(c, h.Booking.MarkArrived)
}

// NoShow handles POST /v1/admin/reservations/:id/no-show.
func (h *AdminHandler) NoShow(c echo.Context) error {
	return h.mutate(c, h.Booking.MarkNoShow)
}

// Cancel handles POST /v1/admin/reservations/:id/cancel.  Unlike the
// guest endpoint there is no ownership check; staff may cancel any
// active reservation.
func (h *AdminHandler) Cancel(c echo.Context) error {
	return h.mutate(c, h.Booking.Cancel)
}

// Remind handles POST /v1/admin/reservations/:id/remind.
func (h *AdminHandler) Remind(c echo.Context) error {
	return h.mutate(c, h.Booking.SendReminder)
}

func (h *AdminHandler) mutate(c echo.Context, op func(ctx context.Context, id uint64) (*model.Reservation, error)) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed"})
	}
	res, err := op(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// Stats handles GET /v1/admin/stats?days=.  The window defaults to 30
// days and is clamped to 365; optional status/date/q filters narrow the
// underlying listing.
func (h *AdminHandler) Stats(c echo.Context) error {
	days := 30
	if raw := c.QueryParam("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 365 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed"})
		}
		days = n
	}
	filters := reporting.Filters{
		Date:   strings.TrimSpace(c.QueryParam("date")),
		Search: strings.TrimSpace(c.QueryParam("q")),
	}
	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
		st, ok := model.ParseStatus(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed"})
		}
		filters.Status = &st
	}
	stats, err := h.Reports.Stats(c.Request().Context(), days, filters)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage_unavailable"})
	}
	return c.JSON(http.StatusOK, stats)
}
