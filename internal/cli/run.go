package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/planfsa"
	"github.com/aretw0/planfsa/internal/config"
	"github.com/aretw0/planfsa/internal/presentation/tui"
)

// RunOptions contains all the configuration for the learn command.
type RunOptions struct {
	Config *config.Config
	Watch  bool
	// Banner prints the banner before the first run.
	Banner bool
	Out    io.Writer
}

// Execute handles the learn command, dispatching to a single run or watch mode.
func Execute(opts RunOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	logger, err := createLogger(opts.Config.Log)
	if err != nil {
		return err
	}
	if opts.Banner {
		tui.PrintBanner(opts.Out, planfsa.Version)
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	if opts.Watch {
		err = Watch(sigCtx, opts.Config, opts.Out, logger)
	} else {
		_, err = Learn(sigCtx, opts.Config, opts.Out, logger)
	}
	logCompletion(opts.Out, err, sigCtx.Signal())
	return handleExecutionError(err)
}

// Learn runs the learn pipeline once.
func Learn(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) (*planfsa.Result, error) {
	session, err := NewSession(cfg, out, logger)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	logger.Info("Learning", "dir", cfg.Plans.Dir, "filter", cfg.Plans.Filter)
	return session.Run(ctx)
}
