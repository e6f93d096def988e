// Package handler exposes the HTTP surface of the reservation service.
// Handlers translate between wire requests and the booking, availability
// and reporting cores; they never format user-facing prose, only error-kind
// strings the presentation layer maps to messages.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/duskbar/table-reservation/internal/booking"
)

// bookingError maps a booking error kind to its HTTP response.
func bookingError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, booking.ErrValidationFailed), errors.Is(err, booking.ErrInvalidSlot):
		status = http.StatusBadRequest
	case errors.Is(err, booking.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, booking.ErrCapacityExceeded), errors.Is(err, booking.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, booking.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, echo.Map{"error": booking.Kind(err)})
}

// userID extracts the authenticated user id stored by the identity
// middleware.  The boolean is false for guests.
func userID(c echo.Context) (uint64, bool) {
	v, ok := c.Get("user_id").(uint64)
	return v, ok
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
