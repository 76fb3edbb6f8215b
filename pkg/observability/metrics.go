package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/aretw0/planfsa/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Run outcomes recorded by ObserveRun.
const (
	OutcomeLearned = "learned"
	OutcomeCached  = "cached"
	OutcomeFailed  = "failed"
)

// Metrics holds the collectors of the learning pipeline.
type Metrics struct {
	Splits      *prometheus.CounterVec
	Leaves      *prometheus.CounterVec
	SplitLevel  prometheus.Histogram
	States      prometheus.Gauge
	Transitions prometheus.Gauge
	Alphabet    prometheus.Gauge
	Runs        *prometheus.CounterVec
	Duration    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Splits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planfsa_splits_total",
				Help: "Plan set splits by recursion kind and repetition class",
			},
			[]string{"kind", "repetition"},
		),
		Leaves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planfsa_leaves_total",
				Help: "Recursion branches that bottomed out",
			},
			[]string{"kind", "borders"},
		),
		SplitLevel: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planfsa_split_level",
			Help:    "Recursion depth at which splits happen",
			Buckets: prometheus.LinearBuckets(0, 1, 10),
		}),
		States: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planfsa_automaton_states",
			Help: "States of the last learned automaton",
		}),
		Transitions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planfsa_automaton_transitions",
			Help: "Transitions of the last learned automaton",
		}),
		Alphabet: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planfsa_automaton_alphabet",
			Help: "Alphabet size of the last learned automaton",
		}),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planfsa_learn_runs_total",
				Help: "Learning runs by outcome",
			},
			[]string{"outcome"},
		),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planfsa_learn_duration_seconds",
			Help:    "Wall time of learning runs",
			Buckets: prometheus.DefBuckets,
		}),
	}

	for _, c := range []prometheus.Collector{
		m.Splits, m.Leaves, m.SplitLevel, m.States, m.Transitions, m.Alphabet, m.Runs, m.Duration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns learning hooks that record into m.
func (m *Metrics) Hooks() domain.LearnHooks {
	return domain.LearnHooks{
		OnSplit: func(ctx context.Context, e *domain.SplitEvent) {
			m.Splits.WithLabelValues(e.Kind.String(), e.Repetition).Inc()
			m.SplitLevel.Observe(float64(e.Level))
		},
		OnLeaf: func(ctx context.Context, e *domain.LeafEvent) {
			m.Leaves.WithLabelValues(e.Kind.String(), strconv.FormatBool(e.Borders)).Inc()
		},
		OnAutomaton: func(ctx context.Context, e *domain.AutomatonEvent) {
			m.States.Set(float64(e.States))
			m.Transitions.Set(float64(e.Transitions))
			m.Alphabet.Set(float64(e.Alphabet))
		},
	}
}

// ObserveRun records one learning run.
func (m *Metrics) ObserveRun(outcome string, d time.Duration) {
	m.Runs.WithLabelValues(outcome).Inc()
	m.Duration.Observe(d.Seconds())
}

// Chain combines hooks so each event reaches every non-nil observer in order.
func Chain(hooks ...domain.LearnHooks) domain.LearnHooks {
	return domain.LearnHooks{
		OnSplit: func(ctx context.Context, e *domain.SplitEvent) {
			for _, h := range hooks {
				h.EmitSplit(ctx, e)
			}
		},
		OnLeaf: func(ctx context.Context, e *domain.LeafEvent) {
			for _, h := range hooks {
				h.EmitLeaf(ctx, e)
			}
		},
		OnAutomaton: func(ctx context.Context, e *domain.AutomatonEvent) {
			for _, h := range hooks {
				h.EmitAutomaton(ctx, e)
			}
		},
	}
}

// WriteTextfile writes everything g gathers in the text exposition format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
