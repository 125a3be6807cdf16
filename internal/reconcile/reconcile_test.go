package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/parkorbit/parking-spot-backend/internal/pkg/metrics"
)

type fakeSource struct {
	drifts []Drift
	err    error
}

func (s *fakeSource) Drift(_ context.Context) ([]Drift, error) {
	return s.drifts, s.err
}

func TestDelta(t *testing.T) {
	// 10 total, 7 available implies 3 occupied; only 2 active bookings
	// account for it, so the counter over-reports occupancy by 1.
	d := Drift{TotalSlots: 10, AvailableSlots: 7, ActiveBookings: 2}
	assert.Equal(t, 1, d.Delta())

	d = Drift{TotalSlots: 10, AvailableSlots: 9, ActiveBookings: 3}
	assert.Equal(t, -2, d.Delta())
}

func TestSweep(t *testing.T) {
	t.Run("reports drift count and gauge", func(t *testing.T) {
		m := metrics.New(prometheus.NewRegistry())
		source := &fakeSource{drifts: []Drift{
			{SpotID: "spot-1", TotalSlots: 5, AvailableSlots: 4, ActiveBookings: 0},
			{SpotID: "spot-2", TotalSlots: 3, AvailableSlots: 3, ActiveBookings: 1},
		}}
		sweeper := NewSweeper(source, 0, zerolog.Nop(), m)

		assert.Equal(t, 2, sweeper.Sweep(context.Background()))
		assert.Equal(t, float64(2), testutil.ToFloat64(m.DriftedSpots))
	})

	t.Run("clean scan resets gauge", func(t *testing.T) {
		m := metrics.New(prometheus.NewRegistry())
		source := &fakeSource{drifts: []Drift{{SpotID: "spot-1"}}}
		sweeper := NewSweeper(source, 0, zerolog.Nop(), m)

		sweeper.Sweep(context.Background())
		source.drifts = nil
		assert.Equal(t, 0, sweeper.Sweep(context.Background()))
		assert.Equal(t, float64(0), testutil.ToFloat64(m.DriftedSpots))
	})

	t.Run("scan failure reports zero", func(t *testing.T) {
		source := &fakeSource{err: errors.New("db down")}
		sweeper := NewSweeper(source, 0, zerolog.Nop(), nil)

		assert.Equal(t, 0, sweeper.Sweep(context.Background()))
	})
}
