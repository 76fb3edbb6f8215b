package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/planfsa"
	"github.com/aretw0/planfsa/internal/adapters/file"
	"github.com/aretw0/planfsa/internal/adapters/redis"
	"github.com/aretw0/planfsa/internal/config"
	"github.com/aretw0/planfsa/pkg/domain"
	"github.com/aretw0/planfsa/pkg/induction"
	"github.com/aretw0/planfsa/pkg/pddl"
	"github.com/aretw0/planfsa/pkg/ports"
)

// DefaultLockTTL bounds how long a run holds the corpus lock in Redis.
const DefaultLockTTL = 2 * time.Minute

// OpenStore selects the result store: Redis when an address is configured,
// the file store when a directory is, none otherwise. The closer is never nil.
func OpenStore(cfg config.StoreConfig) (ports.ResultStore, ports.DistributedLocker, io.Closer) {
	if cfg.Redis.Addr != "" {
		var opts []redis.Option
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		return store, redis.NewLocker(store.Client(), cfg.Redis.Prefix), store
	}
	if cfg.Dir != "" {
		return file.New(cfg.Dir), nil, nopCloser{}
	}
	return nil, nil, nopCloser{}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// createLearner initializes a learner with standard CLI conventions.
func createLearner(cfg *config.Config, logger *slog.Logger, hooks domain.LearnHooks, store ports.ResultStore, locker ports.DistributedLocker) (*planfsa.Learner, error) {
	var selOpts []induction.SelectorOption
	if cfg.Selector.ObjectFocus {
		selOpts = append(selOpts, induction.WithObjectFocus())
	}

	opts := []planfsa.Option{
		planfsa.WithLogger(logger),
		planfsa.WithSelector(induction.NewSelector(selOpts...)),
		planfsa.WithHooks(hooks),
	}

	if cfg.Domain.File != "" {
		dom, err := pddl.ReadFile(cfg.Domain.File)
		if err != nil {
			return nil, fmt.Errorf("error reading domain: %w", err)
		}
		opts = append(opts, planfsa.WithDomain(dom))
	}

	if store != nil {
		opts = append(opts, planfsa.WithStore(store))
		if locker != nil {
			opts = append(opts, planfsa.WithLocker(locker, DefaultLockTTL))
		}
	}

	return planfsa.New(opts...), nil
}
