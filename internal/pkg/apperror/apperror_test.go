package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndNewf(t *testing.T) {
	err := New(http.StatusNotFound, "booking not found")
	assert.Equal(t, http.StatusNotFound, err.Code)
	assert.Equal(t, "booking not found", err.Error())

	err = Newf(http.StatusBadRequest, "unknown amenity %q", "helipad")
	assert.Equal(t, `unknown amenity "helipad"`, err.Message)
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, http.StatusInternalServerError, "something went wrong")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "something went wrong", err.Error())
}

func TestWithFields(t *testing.T) {
	sentinel := New(http.StatusBadRequest, "required fields are missing")
	err := sentinel.WithFields("customer_name", "vehicle_number")

	// The original sentinel stays untouched.
	assert.Empty(t, sentinel.Fields)
	assert.Equal(t, []string{"customer_name", "vehicle_number"}, err.Fields)

	// The copy still matches the sentinel and surfaces as an AppError.
	assert.ErrorIs(t, err, sentinel)

	var appErr *AppError
	require.ErrorAs(t, fmt.Errorf("create booking: %w", err), &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}
