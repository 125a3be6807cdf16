package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the booking core.
type Metrics struct {
	BookingsCreated     *prometheus.CounterVec
	CapacityConflicts   prometheus.Counter
	AdmissionRollbacks  prometheus.Counter
	SlotReleaseFailures prometheus.Counter
	DriftedSpots        prometheus.Gauge
}

// New registers and returns the metric set on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		BookingsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "parking_bookings_created_total",
			Help: "Total number of bookings created",
		}, []string{"payment_method"}),

		CapacityConflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "parking_capacity_conflicts_total",
			Help: "Booking attempts rejected because no slot was available",
		}),

		AdmissionRollbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "parking_admission_rollbacks_total",
			Help: "Slot reservations released because booking persistence failed",
		}),

		SlotReleaseFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "parking_slot_release_failures_total",
			Help: "Best-effort slot releases that failed on delete or cancel",
		}),

		DriftedSpots: f.NewGauge(prometheus.GaugeOpts{
			Name: "parking_capacity_drifted_spots",
			Help: "Spots whose available_slots disagrees with active bookings",
		}),
	}
}
