package planfsa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/planfsa/pkg/augment"
	"github.com/aretw0/planfsa/pkg/automaton"
	"github.com/aretw0/planfsa/pkg/domain"
	"github.com/aretw0/planfsa/pkg/induction"
	"github.com/aretw0/planfsa/pkg/pddl"
	"github.com/aretw0/planfsa/pkg/ports"
	"github.com/aretw0/planfsa/pkg/token"
)

// ErrNoDomain is returned by Merge when the learner was built without a domain.
var ErrNoDomain = errors.New("no planning domain configured")

// Learner is the high-level entry point of the library.
// It runs induction, builds and resolves the automaton, and consults an optional
// result store.
type Learner struct {
	logger   *slog.Logger
	selector *induction.Selector
	hooks    domain.LearnHooks
	store    ports.ResultStore
	locker   ports.DistributedLocker
	lockTTL  time.Duration
	domain   *pddl.Domain
	now      func() time.Time
}

// Option defines a functional option for configuring the Learner.
type Option func(*Learner)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Learner) {
		l.logger = logger
	}
}

// WithSelector replaces the default pivot selector.
func WithSelector(s *induction.Selector) Option {
	return func(l *Learner) {
		l.selector = s
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LearnHooks) Option {
	return func(l *Learner) {
		l.hooks = hooks
	}
}

// WithDomain types state arguments against a planning domain and enables Merge.
func WithDomain(d *pddl.Domain) Option {
	return func(l *Learner) {
		l.domain = d
	}
}

// WithStore caches results by corpus fingerprint.
func WithStore(store ports.ResultStore) Option {
	return func(l *Learner) {
		l.store = store
	}
}

// WithLocker makes concurrent learners of the same corpus wait for each other,
// so the second one finds the first one's result in the store.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(l *Learner) {
		l.locker = locker
		l.lockTTL = ttl
	}
}

// Result is a learned automaton together with the grammar it came from.
type Result struct {
	// Fingerprint is the store key of the result.
	Fingerprint string
	Plans       int
	Stack       token.Stack
	// Grammar is nil when the result was served from the store.
	Grammar   *induction.Result
	Automaton *automaton.FSA
	Cached    bool
}

// New creates a Learner.
func New(opts ...Option) *Learner {
	l := &Learner{
		lockTTL: 30 * time.Second,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if l.selector == nil {
		l.selector = induction.NewSelector()
	}
	return l
}

// Domain returns the configured planning domain, or nil.
func (l *Learner) Domain() *pddl.Domain {
	return l.domain
}

// LearnFrom reads the corpus from src and learns it.
func (l *Learner) LearnFrom(ctx context.Context, src ports.PlanSource) (*Result, error) {
	plans, err := src.ReadPlans(ctx)
	if err != nil {
		return nil, err
	}
	return l.Learn(ctx, plans)
}

// Learn induces the grammar of the plans and builds its resolved automaton.
func (l *Learner) Learn(ctx context.Context, plans []domain.Plan) (*Result, error) {
	if len(plans) == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	key := l.key(plans)
	logger := l.logger.With("fingerprint", key[:12])

	if l.store != nil && l.locker != nil {
		unlock, err := l.locker.Lock(ctx, key, l.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to lock corpus: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("failed to release corpus lock", "err", err)
			}
		}()
	}

	if res, ok := l.cached(ctx, logger, key, len(plans)); ok {
		return res, nil
	}

	inducer := induction.New(
		induction.WithLogger(logger),
		induction.WithSelector(l.selector),
		induction.WithHooks(l.hooks),
	)
	grammar, err := inducer.Induce(ctx, plans)
	if err != nil {
		return nil, err
	}

	fsa, err := l.buildAutomaton(grammar.Stack)
	if err != nil {
		return nil, err
	}
	l.emitAutomaton(ctx, fsa)
	logger.Info("automaton learned",
		"plans", len(plans),
		"states", len(fsa.States()),
		"transitions", len(fsa.Transitions()),
	)

	res := &Result{
		Fingerprint: key,
		Plans:       len(plans),
		Stack:       grammar.Stack,
		Grammar:     grammar,
		Automaton:   fsa,
	}
	l.save(ctx, logger, res)
	return res, nil
}

func (l *Learner) buildAutomaton(stack token.Stack) (*automaton.FSA, error) {
	fsa, err := automaton.Build(stack)
	if err != nil {
		return nil, err
	}
	// A nil *pddl.Domain must not reach ResolveStates as a non-nil interface.
	var types automaton.TypeSource
	if l.domain != nil {
		types = l.domain
	}
	if err := fsa.ResolveStates(types); err != nil {
		return nil, err
	}
	fsa.InitLambdaArgs()
	return fsa, nil
}

// key is the corpus fingerprint, qualified by the domain name when states are typed.
func (l *Learner) key(plans []domain.Plan) string {
	fp := Fingerprint(plans)
	if l.domain != nil {
		return fp + "." + l.domain.Name
	}
	return fp
}

func (l *Learner) cached(ctx context.Context, logger *slog.Logger, key string, plans int) (*Result, bool) {
	if l.store == nil {
		return nil, false
	}
	record, err := l.store.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrResultNotFound) {
			logger.Warn("result store unavailable, learning from scratch", "err", err)
		}
		return nil, false
	}
	if record.Automaton == nil {
		logger.Warn("stored result has no automaton, learning from scratch")
		return nil, false
	}
	fsa, err := automaton.FromSnapshot(record.Automaton)
	if err != nil {
		logger.Warn("stored result is corrupt, learning from scratch", "err", err)
		return nil, false
	}

	l.emitAutomaton(ctx, fsa)
	logger.Info("automaton served from store", "created_at", record.CreatedAt)
	return &Result{
		Fingerprint: key,
		Plans:       plans,
		Stack:       record.Stack,
		Automaton:   fsa,
		Cached:      true,
	}, true
}

func (l *Learner) save(ctx context.Context, logger *slog.Logger, res *Result) {
	if l.store == nil {
		return
	}
	err := l.store.Save(ctx, &ports.LearnRecord{
		Fingerprint: res.Fingerprint,
		Plans:       res.Plans,
		Stack:       res.Stack,
		Automaton:   res.Automaton.Snapshot(),
		CreatedAt:   l.now().UTC(),
	})
	if err != nil {
		logger.Warn("failed to store result", "err", err)
	}
}

func (l *Learner) emitAutomaton(ctx context.Context, fsa *automaton.FSA) {
	l.hooks.EmitAutomaton(ctx, &domain.AutomatonEvent{
		States:      len(fsa.States()),
		Transitions: len(fsa.Transitions()),
		Alphabet:    len(fsa.Alphabet()),
	})
}

// Merge builds the augmented planning domain for a result.
func (l *Learner) Merge(res *Result, name string) (*pddl.Domain, error) {
	if l.domain == nil {
		return nil, ErrNoDomain
	}
	return augment.Merge(res.Automaton, l.domain, name)
}
