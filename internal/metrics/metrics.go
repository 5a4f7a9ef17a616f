package metrics

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/simonkvalheim/bankist/internal/model"
)

// Transition outcomes
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var rejections = []error{
	model.ErrInvalidCredentials,
	model.ErrNotLoggedIn,
	model.ErrInvalidRequest,
	model.ErrInvalidAmount,
	model.ErrRecipientNotFound,
	model.ErrSameAccount,
	model.ErrInsufficientFunds,
	model.ErrLoanDeclined,
	model.ErrCloseMismatch,
}

// Recorder counts session transitions
type Recorder struct {
	registry    *prometheus.Registry
	transitions *prometheus.CounterVec
}

// NewRecorder creates a Recorder with its own registry
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bankist",
		Name:      "transitions_total",
		Help:      "Session transitions by action and outcome.",
	}, []string{"action", "outcome"})
	reg.MustRegister(transitions)

	return &Recorder{registry: reg, transitions: transitions}
}

// Observe records the outcome of one transition
func (r *Recorder) Observe(action string, err error) {
	r.transitions.WithLabelValues(action, Outcome(err)).Inc()
}

// TrackSessions exposes the live session count as a gauge
func (r *Recorder) TrackSessions(count func() int) error {
	return r.registry.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "bankist",
		Name:      "active_sessions",
		Help:      "Sessions that are logged in and not yet expired or swept.",
	}, func() float64 {
		return float64(count())
	}))
}

// TrackQueue exposes the movement queue backlog as a gauge. A failed
// lookup reports NaN.
func (r *Recorder) TrackQueue(length func(ctx context.Context) (int64, error)) error {
	return r.registry.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "bankist",
		Name:      "movement_queue_length",
		Help:      "Movement messages published and not yet consumed.",
	}, func() float64 {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		n, err := length(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to read movement queue length")
			return math.NaN()
		}
		return float64(n)
	}))
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Outcome classifies a transition error
func Outcome(err error) string {
	if err == nil {
		return OutcomeAccepted
	}
	for _, target := range rejections {
		if errors.Is(err, target) {
			return OutcomeRejected
		}
	}
	return OutcomeError
}
