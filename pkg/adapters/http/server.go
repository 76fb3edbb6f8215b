// Package http exposes the learner over a small JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/planfsa"
	"github.com/aretw0/planfsa/internal/presentation/graph"
	"github.com/aretw0/planfsa/pkg/domain"
	"github.com/aretw0/planfsa/pkg/observability"
	"github.com/aretw0/planfsa/pkg/pddl"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/singleflight"
)

// MaxBodyBytes bounds the size of a learn request.
const MaxBodyBytes = 8 << 20

// LearnRequest is the body of POST /learn. Plans may be given structured, as
// plan texts, or both; texts are appended after structured plans.
type LearnRequest struct {
	Plans  []domain.Plan `json:"plans"`
	Texts  []string      `json:"texts"`
	Format string        `json:"format"`
	// Domain is optional PDDL source; when set, states are typed and the
	// merged domain is returned.
	Domain string `json:"domain"`
	Name   string `json:"name"`
}

// LearnResponse is the body of a successful POST /learn.
type LearnResponse struct {
	Fingerprint string `json:"fingerprint"`
	Stack       string `json:"stack"`
	States      int    `json:"states"`
	Transitions int    `json:"transitions"`
	Cached      bool   `json:"cached"`
	Diagram     string `json:"diagram,omitempty"`
	Domain      string `json:"domain,omitempty"`
}

// Server serves the learn API.
type Server struct {
	options  []planfsa.Option
	renderer *graph.Renderer
	metrics  *observability.Metrics
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	flights  singleflight.Group
}

// Option configures the server.
type Option func(*Server)

// WithLearnerOptions sets the options every request's learner starts from
// (store, selector, hooks...).
func WithLearnerOptions(opts ...planfsa.Option) Option {
	return func(s *Server) {
		s.options = append(s.options, opts...)
	}
}

// WithMetrics records every request into m and serves g on /metrics.
func WithMetrics(m *observability.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server.
func NewServer(opts ...Option) *Server {
	s := &Server{
		renderer: graph.NewRenderer(nil),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates the HTTP handler for the learn API.
func NewHandler(opts ...Option) http.Handler {
	return NewServer(opts...).Routes()
}

// Routes mounts the API on a chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/learn", s.Learn)
	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Learn handles the POST /learn request.
func (s *Server) Learn(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := s.logger.With("request_id", middleware.GetReqID(r.Context()))

	var body LearnRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		logger.Warn("Learn: invalid request body", "err", err)
		return
	}

	plans := body.Plans
	for i, text := range body.Texts {
		p, err := domain.ParsePlanString(text)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("plan text %d: %w", i, err))
			return
		}
		plans = append(plans, p)
	}
	if err := checkActionNames(plans); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if body.Format == "" {
		body.Format = graph.FormatMermaid
	}
	if !graph.Supported(body.Format) || graph.IsImage(body.Format) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("format %q: %w", body.Format, graph.ErrUnsupportedFormat))
		return
	}

	opts := append([]planfsa.Option{planfsa.WithLogger(logger)}, s.options...)
	if s.metrics != nil {
		opts = append(opts, planfsa.WithHooks(s.metrics.Hooks()))
	}
	if strings.TrimSpace(body.Domain) != "" {
		dom, err := pddl.Parse(body.Domain)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid domain: %w", err))
			return
		}
		opts = append(opts, planfsa.WithDomain(dom))
	}
	learner := planfsa.New(opts...)

	// Identical concurrent requests share one learn run.
	key := planfsa.Fingerprint(plans) + "\x00" + body.Domain
	v, err, shared := s.flights.Do(key, func() (any, error) {
		return learner.Learn(context.WithoutCancel(r.Context()), plans)
	})
	if err != nil {
		s.observe(observability.OutcomeFailed, start)
		writeError(w, statusFor(err), err)
		logger.Warn("Learn failed", "err", err)
		return
	}
	res := v.(*planfsa.Result)
	if shared {
		logger.Debug("Learn shared with a concurrent request", "fingerprint", res.Fingerprint)
	}
	outcome := observability.OutcomeLearned
	if res.Cached {
		outcome = observability.OutcomeCached
	}
	s.observe(outcome, start)

	diagram, err := s.renderer.Render(r.Context(), res.Automaton, body.Format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := LearnResponse{
		Fingerprint: res.Fingerprint,
		Stack:       res.Stack.String(),
		States:      len(res.Automaton.States()),
		Transitions: len(res.Automaton.Transitions()),
		Cached:      res.Cached,
		Diagram:     string(diagram),
	}
	if dom := learner.Domain(); dom != nil {
		name := body.Name
		if name == "" {
			name = dom.Name + "-fsa"
		}
		merged, err := learner.Merge(res, name)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		resp.Domain = merged.String()
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) observe(outcome string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveRun(outcome, time.Since(start))
	}
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "ok")
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"app":     "planfsa-http",
		"version": strings.TrimSpace(planfsa.Version),
		"formats": []string{graph.FormatMermaid, graph.FormatDOT, graph.FormatJSON, graph.FormatYAML},
	})
}

// statusFor maps learning errors to HTTP status codes.
// checkActionNames rejects actions without a name. The empty name is reserved
// for plan borders and pattern placeholders.
func checkActionNames(plans []domain.Plan) error {
	for i, p := range plans {
		for j, a := range p {
			if strings.TrimSpace(a.Name) == "" {
				return fmt.Errorf("plan %d, action %d: empty action name: %w", i, j, domain.ErrMalformedPlan)
			}
		}
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyCorpus), errors.Is(err, domain.ErrMalformedPlan):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInconsistentStack),
		errors.Is(err, domain.ErrSequenceMismatch),
		errors.Is(err, domain.ErrInvalidRepetition),
		errors.Is(err, domain.ErrNoCommonType),
		errors.Is(err, domain.ErrUnknownState),
		errors.Is(err, domain.ErrUnknownAction),
		errors.Is(err, domain.ErrArityMismatch),
		errors.Is(err, domain.ErrArgumentReuse):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
