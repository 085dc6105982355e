package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	TriggerAuto   = "auto"
	TriggerManual = "manual"

	StatusSuccess = "success"
	StatusFailure = "failure"
)

var (
	// GiveawaysStarted counts giveaways created by Start.
	GiveawaysStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "giveaway_started_total",
		Help: "Number of giveaways started",
	})

	// GiveawaysEnded counts resolved giveaways by what triggered the end.
	GiveawaysEnded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giveaway_ended_total",
			Help: "Number of giveaways ended, by trigger",
		},
		[]string{"trigger"}, // auto or manual
	)

	GiveawaysRerolled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "giveaway_rerolled_total",
		Help: "Number of successful rerolls",
	})

	// Notifications counts private deliveries by outcome.
	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giveaway_notifications_total",
			Help: "Private notifications attempted, by status",
		},
		[]string{"status"}, // success or failure
	)

	// ResolutionDuration tracks how long End and Reroll take, including
	// gateway round-trips.
	ResolutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "giveaway_resolution_duration_seconds",
			Help: "Duration of winner resolution in seconds",
			Buckets: []float64{
				0.05, // 50ms
				0.1,  // 100ms
				0.25, // 250ms
				0.5,  // 500ms
				1.0,  // 1s
				2.5,  // 2.5s
				5.0,  // 5s
				10.0, // 10s
				30.0, // 30s
			},
		},
		[]string{"operation"}, // end or reroll
	)
)

// RecordEnded records a resolved giveaway and how long it took.
func RecordEnded(automatic bool, seconds float64) {
	trigger := TriggerManual
	if automatic {
		trigger = TriggerAuto
	}
	GiveawaysEnded.WithLabelValues(trigger).Inc()
	ResolutionDuration.WithLabelValues("end").Observe(seconds)
}

// RecordRerolled records a reroll and how long it took.
func RecordRerolled(seconds float64) {
	GiveawaysRerolled.Inc()
	ResolutionDuration.WithLabelValues("reroll").Observe(seconds)
}

// RecordNotification records the outcome of one private delivery.
func RecordNotification(err error) {
	if err != nil {
		Notifications.WithLabelValues(StatusFailure).Inc()
		return
	}
	Notifications.WithLabelValues(StatusSuccess).Inc()
}
