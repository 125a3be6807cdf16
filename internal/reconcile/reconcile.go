package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/parkorbit/parking-spot-backend/internal/pkg/metrics"
)

// Drift describes one spot whose counter disagrees with its bookings.
type Drift struct {
	SpotID         string
	SpotName       string
	TotalSlots     int
	AvailableSlots int
	ActiveBookings int
}

// Delta is the number of slots the counter is off by. Positive means the
// counter claims more occupancy than active bookings account for.
func (d Drift) Delta() int {
	return (d.TotalSlots - d.AvailableSlots) - d.ActiveBookings
}

// Source lists spots whose occupancy implied by available_slots differs
// from the count of their non-cancelled bookings.
type Source interface {
	Drift(ctx context.Context) ([]Drift, error)
}

type pgxSource struct {
	pool *pgxpool.Pool
}

func NewPgxSource(pool *pgxpool.Pool) Source {
	return &pgxSource{pool: pool}
}

func (s *pgxSource) Drift(ctx context.Context) ([]Drift, error) {
	// Best-effort release paths can leave available_slots behind; this
	// query surfaces the divergence without repairing it.
	query := `SELECT s.id, s.name, s.total_slots, s.available_slots,
			COUNT(b.id) FILTER (WHERE b.status <> 'cancelled') AS active
		FROM public.spots s
		LEFT JOIN public.bookings b ON b.spot_id = s.id
		GROUP BY s.id, s.name, s.total_slots, s.available_slots
		HAVING s.total_slots - s.available_slots <> COUNT(b.id) FILTER (WHERE b.status <> 'cancelled')`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query capacity drift failed: %w", err)
	}
	defer rows.Close()

	var drifts []Drift
	for rows.Next() {
		var d Drift
		if err := rows.Scan(&d.SpotID, &d.SpotName, &d.TotalSlots, &d.AvailableSlots, &d.ActiveBookings); err != nil {
			return nil, fmt.Errorf("scan capacity drift failed: %w", err)
		}
		drifts = append(drifts, d)
	}
	return drifts, nil
}

// Sweeper periodically reports capacity drift. It only observes; fixing a
// drifted counter is an operator decision.
type Sweeper struct {
	source   Source
	interval time.Duration
	log      zerolog.Logger
	metrics  *metrics.Metrics
}

func NewSweeper(source Source, interval time.Duration, log zerolog.Logger, m *metrics.Metrics) *Sweeper {
	return &Sweeper{
		source:   source,
		interval: interval,
		log:      log,
		metrics:  m,
	}
}

// Run sweeps immediately, then on every tick until the context is done.
func (s *Sweeper) Run(ctx context.Context) {
	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one drift scan and returns the number of drifted spots.
func (s *Sweeper) Sweep(ctx context.Context) int {
	drifts, err := s.source.Drift(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("capacity drift scan failed")
		return 0
	}

	for _, d := range drifts {
		s.log.Warn().
			Str("spot_id", d.SpotID).
			Str("spot_name", d.SpotName).
			Int("total_slots", d.TotalSlots).
			Int("available_slots", d.AvailableSlots).
			Int("active_bookings", d.ActiveBookings).
			Int("delta", d.Delta()).
			Msg("capacity drift detected")
	}

	if s.metrics != nil {
		s.metrics.DriftedSpots.Set(float64(len(drifts)))
	}

	return len(drifts)
}
