package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskbar/table-reservation/internal/booking"
)

func newContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBookingErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{booking.ErrValidationFailed, http.StatusBadRequest, "validation_failed"},
		{booking.ErrInvalidSlot, http.StatusBadRequest, "invalid_slot"},
		{booking.ErrNotFound, http.StatusNotFound, "not_found"},
		{booking.ErrCapacityExceeded, http.StatusConflict, "capacity_exceeded"},
		{booking.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
		{booking.ErrStorageUnavailable, http.StatusServiceUnavailable, "storage_unavailable"},
		{fmt.Errorf("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		c, rec := newContext(t)
		// Wrapped errors must map the same as bare sentinels.
		require.NoError(t, bookingError(c, fmt.Errorf("ctx: %w", tc.err)))
		assert.Equal(t, tc.status, rec.Code, tc.kind)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tc.kind, body["error"])
	}
}

func TestUserIDAbsentForGuests(t *testing.T) {
	c, _ := newContext(t)
	_, ok := userID(c)
	assert.False(t, ok)

	c.Set("user_id", uint64(12))
	uid, ok := userID(c)
	assert.True(t, ok)
	assert.Equal(t, uint64(12), uid)
}

func TestPathID(t *testing.T) {
	c, _ := newContext(t)
	c.SetParamNames("id")
	c.SetParamValues("42")
	id, err := pathID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	for _, bad := range []string{"", "0", "-3", "abc"} {
		c.SetParamValues(bad)
		_, err := pathID(c)
		assert.Error(t, err, bad)
	}
}
