// Package process runs allow-listed local executables, feeding them stdin and
// collecting stdout. The diagram renderer uses it to drive Graphviz.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNotRegistered is returned when a command name is not on the allow-list.
var ErrNotRegistered = errors.New("process not registered")

// Runner executes local processes.
// It follows a Strict Registry pattern (Allow-Listing): only registered names run.
type Runner struct {
	registry map[string]ProcessConfig
	baseDir  string
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithRegistry populates the allow-list from configuration.
func WithRegistry(procs map[string]ProcessConfig) RunnerOption {
	return func(r *Runner) {
		for name, p := range procs {
			p.Name = name
			r.registry[name] = p
		}
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// NewRunner creates a new Process Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: make(map[string]ProcessConfig),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a trusted command to the allow-list.
func (r *Runner) Register(name string, command string, args ...string) {
	r.registry[name] = ProcessConfig{
		Name:    name,
		Command: command,
		Args:    args,
	}
}

// Registered reports whether name is on the allow-list.
func (r *Runner) Registered(name string) bool {
	_, ok := r.registry[name]
	return ok
}

// Available reports whether the executable behind name can be found.
func (r *Runner) Available(name string) bool {
	p, ok := r.registry[name]
	if !ok {
		return false
	}
	_, err := exec.LookPath(p.Command)
	return err == nil
}

// Execute runs the registered command with its configured args followed by
// extra, writes input to its stdin and returns its stdout.
func (r *Runner) Execute(ctx context.Context, name string, input []byte, extra ...string) ([]byte, error) {
	p, ok := r.registry[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotRegistered)
	}

	args := append(append([]string{}, p.Args...), extra...)
	cmd := exec.CommandContext(ctx, p.Command, args...)
	cmd.Dir = r.baseDir

	env := cmd.Environ()
	for k, v := range p.Environment {
		env = append(env, k+"="+v)
	}
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%s failed: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
