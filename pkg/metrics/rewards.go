package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RewardMetrics records outcomes of calls to the rewards endpoint.
type RewardMetrics struct {
	duration    *prometheus.HistogramVec
	outcomes    *prometheus.CounterVec
	distributed *prometheus.CounterVec
	eventTypes  map[string]struct{}
}

// OtherEventType labels event types outside the known set.
const OtherEventType = "other"

// NewRewardMetrics registers the reward metrics on the provided registerer.
// Event types are caller supplied, so only those in eventTypes get their own
// series; the rest share OtherEventType. A nil registerer yields a no-op
// recorder.
func NewRewardMetrics(reg prometheus.Registerer, eventTypes ...string) *RewardMetrics {
	if reg == nil {
		return &RewardMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "loyalteez_request_duration_seconds",
		Help:    "Duration of rewards endpoint calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"event_type"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loyalteez_events_total",
		Help: "Tracked reward events by outcome.",
	}, []string{"event_type", "outcome"})
	distributed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loyalteez_ltz_distributed_total",
		Help: "LTZ reported as distributed by the rewards endpoint.",
	}, []string{"event_type"})
	reg.MustRegister(duration, outcomes, distributed)
	known := make(map[string]struct{}, len(eventTypes))
	for _, eventType := range eventTypes {
		known[eventType] = struct{}{}
	}
	return &RewardMetrics{
		duration:    duration,
		outcomes:    outcomes,
		distributed: distributed,
		eventTypes:  known,
	}
}

// ObserveDuration records the round-trip time of one call.
func (m *RewardMetrics) ObserveDuration(eventType string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(m.eventLabel(eventType)).Observe(duration.Seconds())
}

// IncOutcome counts one tracked event with the given outcome label.
func (m *RewardMetrics) IncOutcome(eventType, outcome string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(m.eventLabel(eventType), normalizeLabel(outcome)).Inc()
}

// AddDistributed adds the LTZ granted for an event. Non-positive amounts are ignored.
func (m *RewardMetrics) AddDistributed(eventType string, amount float64) {
	if m == nil || m.distributed == nil || amount <= 0 {
		return
	}
	m.distributed.WithLabelValues(m.eventLabel(eventType)).Add(amount)
}

func (m *RewardMetrics) eventLabel(eventType string) string {
	if eventType == "" {
		return "unknown"
	}
	if _, ok := m.eventTypes[eventType]; ok {
		return eventType
	}
	return OtherEventType
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
