package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/duskbar/table-reservation/internal/booking"
	"github.com/duskbar/table-reservation/internal/repository"
)

// ReservationHandler serves the guest-facing booking endpoints: create,
// lookup by confirmation code, listing one's own reservations and
// cancelling them.  All lifecycle mutations delegate to the booking
// service; the handler never touches status directly.
type ReservationHandler struct {
	Booking *booking.Service
	Repo    *repository.ReservationRepo
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(svc *booking.Service, repo *repository.ReservationRepo) *ReservationHandler {
	if svc == nil || repo == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Booking: svc, Repo: repo}
}

type createReservationRequest struct {
	GuestName  string `json:"guest_name" validate:"required,max=120"`
	GuestEmail string `json:"guest_email" validate:"required,email"`
	GuestPhone string `json:"guest_phone" validate:"required,max=32"`
	PartySize  int    `json:"party_size" validate:"required,min=1"`
	TableType  string `json:"table_type" validate:"required"`
	Date       string `json:"date" validate:"required"`
	Time       string `json:"time" validate:"required"`
	Occasion   string `json:"occasion" validate:"max=64"`
	Notes      string `json:"notes" validate:"max=2000"`
}

// Create handles POST /v1/reservations.  Identity is optional: when the
// guest is authenticated the reservation is tagged with their user id,
// otherwise ownership rests on the contact fields.
func (h *ReservationHandler) Create(c echo.Context) error {
	var body createReservationRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed"})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed"})
	}
	req := booking.CreateRequest{
		GuestName:  body.GuestName,
		GuestEmail: body.GuestEmail,
		GuestPhone: body.GuestPhone,
		PartySize:  body.PartySize,
		TableType:  body.TableType,
		Date:       body.Date,
		Time:       body.Time,
		Occasion:   body.Occasion,
		Notes:      body.Notes,
	}
	if uid, ok := userID(c); ok {
		req.UserID = &uid
	}
	res, err := h.Booking.Create(c.Request().Context(), req)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": res})
}

// Lookup handles GET /v1/reservations/lookup?code=.  Guests use their
// confirmation code to retrieve a booking without an account.
func (h *ReservationHandler) Lookup(c echo.Context) error {
	code := strings.TrimSpace(c.QueryParam("code"))
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed"})
	}
	res, err := h.Repo.GetByCode(c.Request().Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found"})
		}
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage_unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// ListMine handles GET /v1/my-reservations for authenticated guests.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Repo.List(c.Request().Context(), repository.ListFilter{UserID: &uid})
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage_unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CancelMine handles DELETE /v1/reservations/:id.  Guests may only cancel
// reservations they own; the reservation row survives as CANCELLED and its
// table is released immediately.
func (h *ReservationHandler) CancelMine(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed"})
	}
	res, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found"})
		}
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage_unavailable"})
	}
	if res.UserID == nil || *res.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	cancelled, err := h.Booking.Cancel(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": cancelled})
}
