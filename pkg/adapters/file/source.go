// Package file reads plan corpora from the local filesystem.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/aretw0/planfsa/pkg/domain"
)

// DefaultFilter accepts every file name with at least one character.
const DefaultFilter = "..*"

// Source implements ports.PlanSource over a directory of plan files, one plan per file.
type Source struct {
	Dir    string
	filter *regexp.Regexp
	logger *slog.Logger
}

// Option configures the source.
type Option func(*Source)

// WithLogger sets the logger used to report skipped files.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

// NewSource creates a source for dir. Only files whose name starts with a match
// of filter are read; an empty filter means DefaultFilter.
func NewSource(dir, filter string, opts ...Option) (*Source, error) {
	if filter == "" {
		filter = DefaultFilter
	}
	re, err := regexp.Compile("^(?:" + filter + ")")
	if err != nil {
		return nil, fmt.Errorf("invalid plan filter %q: %w", filter, err)
	}
	s := &Source{
		Dir:    dir,
		filter: re,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Files lists the matching regular files of the directory in name order.
func (s *Source) Files() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !s.filter.MatchString(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ReadPlans reads every matching file. Malformed plans are logged and skipped.
func (s *Source) ReadPlans(ctx context.Context) ([]domain.Plan, error) {
	names, err := s.Files()
	if err != nil {
		return nil, err
	}

	var plans []domain.Plan
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.logger.DebugContext(ctx, "reading plan", "file", name)

		plan, err := readPlan(filepath.Join(s.Dir, name))
		if err != nil {
			if errors.Is(err, domain.ErrMalformedPlan) {
				s.logger.WarnContext(ctx, "skipping plan", "file", name, "err", err)
				continue
			}
			return nil, err
		}
		plans = append(plans, plan)
	}

	if len(plans) == 0 {
		return nil, fmt.Errorf("no plans in %s: %w", s.Dir, domain.ErrEmptyCorpus)
	}
	return plans, nil
}

func readPlan(path string) (domain.Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open plan: %w", err)
	}
	defer f.Close()

	plan, err := domain.ParsePlan(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return plan, nil
}
