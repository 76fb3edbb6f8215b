package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/planfsa/internal/config"
	"github.com/aretw0/planfsa/internal/logging"
	"github.com/aretw0/planfsa/internal/presentation/tui"
	"github.com/aretw0/planfsa/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger from the log section.
// Logs go to stderr so stdout stays reserved for run output.
func createLogger(cfg config.LogConfig) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	switch cfg.Format {
	case "", "text":
		return logging.New(level), nil
	case "json":
		return logging.NewJSON(level), nil
	}
	return nil, fmt.Errorf("unknown log format %q", cfg.Format)
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	tui.Info(w, format, args...)
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}

// handleExecutionError maps interruptions to a clean exit.
func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}

func logCompletion(w io.Writer, err error, sig os.Signal) {
	if !isInterrupted(err) {
		return
	}
	if sig == os.Interrupt {
		fmt.Fprintf(w, "[CTRL+C]\n")
		printSystemMessage(w, "Interrupted.")
	} else {
		fmt.Fprintf(w, "\n")
		printSystemMessage(w, "Terminated.")
	}
}

func createDebugHooks(logger *slog.Logger) domain.LearnHooks {
	return domain.LearnHooks{
		OnSplit: func(ctx context.Context, e *domain.SplitEvent) {
			logger.Debug("Split", "level", e.Level, "pivot", e.Pivot, "repetition", e.Repetition, "plans", e.Plans)
		},
		OnAutomaton: func(ctx context.Context, e *domain.AutomatonEvent) {
			logger.Debug("Automaton", "states", e.States, "transitions", e.Transitions, "alphabet", e.Alphabet)
		},
	}
}
