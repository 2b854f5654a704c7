package typer

import (
	"errors"
	"time"

	"github.com/aeolun/reactype/pkg/slackapi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for a typing session.
// A nil *Metrics records nothing.
type Metrics struct {
	reactionCalls    *prometheus.CounterVec
	reactionDuration *prometheus.HistogramVec
	rejectedInputs   *prometheus.CounterVec
	sequenceLength   prometheus.Gauge
}

// NewMetrics registers the typer metrics with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		reactionCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reactype_reaction_calls_total",
				Help: "Reaction add/remove calls by outcome",
			},
			[]string{"op", "outcome"},
		),
		reactionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reactype_reaction_call_duration_seconds",
				Help:    "Time spent waiting for reaction calls",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"op"},
		),
		rejectedInputs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reactype_rejected_inputs_total",
				Help: "Keystrokes rejected before any remote call",
			},
			[]string{"reason"},
		),
		sequenceLength: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "reactype_sequence_length",
				Help: "Letters currently believed to be on the message",
			},
		),
	}
}

// RecordCall records the outcome and latency of one remote call
func (m *Metrics) RecordCall(op string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.reactionCalls.WithLabelValues(op, outcome(err)).Inc()
	m.reactionDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// RecordRejected counts a keystroke the controller refused
func (m *Metrics) RecordRejected(reason string) {
	if m == nil {
		return
	}
	m.rejectedInputs.WithLabelValues(reason).Inc()
}

// SetSequenceLength updates the sequence length gauge
func (m *Metrics) SetSequenceLength(n int) {
	if m == nil {
		return
	}
	m.sequenceLength.Set(float64(n))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, slackapi.ErrAlreadyReacted):
		return "already_reacted"
	case errors.Is(err, slackapi.ErrInvalidReactionName):
		return "invalid_name"
	case errors.Is(err, slackapi.ErrNoSuchReaction):
		return "no_reaction"
	default:
		return "error"
	}
}
