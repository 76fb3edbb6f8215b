package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/planfsa"
	"github.com/aretw0/planfsa/internal/config"
	"github.com/aretw0/planfsa/internal/presentation/graph"
	"github.com/aretw0/planfsa/internal/presentation/tui"
	"github.com/aretw0/planfsa/pkg/adapters/file"
	"github.com/aretw0/planfsa/pkg/adapters/process"
	"github.com/aretw0/planfsa/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// Session is one configured learn pipeline. Watch mode reuses it across runs.
type Session struct {
	cfg      *config.Config
	out      io.Writer
	logger   *slog.Logger
	learner  *planfsa.Learner
	source   *file.Source
	renderer *graph.Renderer
	registry *prometheus.Registry
	metrics  *observability.Metrics
	closer   io.Closer

	// writeDiagram and writeDomain are cleared when the configuration
	// cannot produce that output.
	writeDiagram bool
	writeDomain  bool
}

// NewSession validates the configuration, warns about skipped outputs and
// wires the learner, its store and the renderer.
func NewSession(cfg *config.Config, out io.Writer, logger *slog.Logger) (*Session, error) {
	if cfg.Plans.Dir == "" {
		return nil, fmt.Errorf("missing path to plans (-p)")
	}

	s := &Session{
		cfg:          cfg,
		out:          out,
		logger:       logger,
		registry:     prometheus.NewRegistry(),
		writeDiagram: true,
		writeDomain:  true,
	}

	name, format := cfg.Output.Name, cfg.Output.Format
	if name == "" {
		tui.Warning(out, "Output file not specified. Use -o NAME")
		s.writeDiagram = false
		s.writeDomain = false
	}
	switch {
	case format == "":
		tui.Warning(out, "Option -f missing, automaton diagram not rendered.")
		s.writeDiagram = false
	case !graph.Supported(format):
		tui.Warning(out, "Unknown output format %q (one of %v), automaton diagram not rendered.", format, graph.Formats)
		s.writeDiagram = false
	}
	if cfg.Domain.File == "" {
		tui.Warning(out, "No domain specified. Use -m PATH_TO_DOMAIN_FILE")
		s.writeDomain = false
	}

	procs := process.NewRunner()
	procs.Register(graph.DotProcess, cfg.Render.DotCommand)
	if s.writeDiagram && graph.IsImage(format) && !procs.Available(graph.DotProcess) {
		tui.Warning(out, "Graphviz %q not found, automaton diagram not rendered.", cfg.Render.DotCommand)
		s.writeDiagram = false
	}
	s.renderer = graph.NewRenderer(procs)

	metrics, err := observability.NewMetrics(s.registry)
	if err != nil {
		return nil, err
	}
	s.metrics = metrics

	source, err := file.NewSource(cfg.Plans.Dir, cfg.Plans.Filter, file.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	s.source = source

	store, locker, closer := OpenStore(cfg.Store)
	s.closer = closer

	hooks := observability.Chain(metrics.Hooks(), createDebugHooks(logger))
	learner, err := createLearner(cfg, logger, hooks, store, locker)
	if err != nil {
		closer.Close()
		return nil, err
	}
	s.learner = learner

	return s, nil
}

// Close releases the result store.
func (s *Session) Close() error {
	return s.closer.Close()
}

// Run learns the automaton once and writes every enabled output.
func (s *Session) Run(ctx context.Context) (*planfsa.Result, error) {
	start := time.Now()
	res, err := s.learner.LearnFrom(ctx, s.source)
	if err != nil {
		s.metrics.ObserveRun(observability.OutcomeFailed, time.Since(start))
		s.flushMetrics()
		return nil, err
	}
	outcome := observability.OutcomeLearned
	if res.Cached {
		outcome = observability.OutcomeCached
	}
	s.metrics.ObserveRun(outcome, time.Since(start))

	s.printSummary(res)

	if s.writeDiagram {
		path := s.cfg.Output.Name + "." + s.cfg.Output.Format
		data, err := s.renderer.Render(ctx, res.Automaton, s.cfg.Output.Format)
		if err != nil {
			return nil, fmt.Errorf("error rendering diagram: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("error writing diagram: %w", err)
		}
		printSystemMessage(s.out, "Diagram written to '%s'.", path)
	}

	if s.writeDomain {
		path := s.cfg.Output.Name + ".pddl"
		merged, err := s.learner.Merge(res, filepath.Base(s.cfg.Output.Name))
		if err != nil {
			return nil, fmt.Errorf("error merging domain: %w", err)
		}
		if err := os.WriteFile(path, []byte(merged.String()), 0644); err != nil {
			return nil, fmt.Errorf("error writing domain: %w", err)
		}
		printSystemMessage(s.out, "Domain written to '%s'.", path)
	}

	s.flushMetrics()
	return res, nil
}

func (s *Session) flushMetrics() {
	path := s.cfg.Metrics.File
	if path == "" {
		return
	}
	if err := observability.WriteTextfile(path, s.registry); err != nil {
		s.logger.Warn("Failed to write metrics", "path", path, "err", err)
	}
}

// printSummary renders the result with glamour on a terminal and as plain
// markdown otherwise.
func (s *Session) printSummary(res *planfsa.Result) {
	md := tui.Summary(res)
	if f, ok := s.out.(*os.File); ok && tui.IsTerminal(f) {
		if rendered, err := tui.NewRenderer(tui.Width(f))(md); err == nil {
			fmt.Fprint(s.out, rendered)
			return
		}
	}
	fmt.Fprint(s.out, md)
}
