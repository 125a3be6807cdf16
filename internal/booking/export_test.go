package booking

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExport(t *testing.T) {
	gateway := newFakeSpotGateway(testSpot(5, 5))
	repo := newFakeBookingRepo()
	svc := newTestService(repo, gateway)

	req := validCreateRequest()
	req.DurationHours = 2
	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	content, err := svc.Export(context.Background(),
		time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, content)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	// Title row, header row, one booking row.
	require.Len(t, rows, 3)

	assert.Equal(t, "Booking ID", rows[1][0])
	assert.Equal(t, created.ID, rows[2][0])
	assert.Equal(t, "Central Garage", rows[2][1])
	assert.Equal(t, "Asha Rao", rows[2][2])
}

func TestExportEmptyRange(t *testing.T) {
	svc := newTestService(newFakeBookingRepo(), newFakeSpotGateway(testSpot(5, 5)))

	content, err := svc.Export(context.Background(),
		time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
