package process_test

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/aretw0/planfsa/pkg/adapters/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Execute(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on a POSIX shell")
	}

	runner := process.NewRunner()
	runner.Register("upper", "sh", "-c", "tr a-z A-Z")

	t.Run("Pipes Stdin To Stdout", func(t *testing.T) {
		out, err := runner.Execute(context.Background(), "upper", []byte("digraph"))
		require.NoError(t, err)
		assert.Equal(t, "DIGRAPH", string(out))
	})

	t.Run("Fails For Unregistered Command", func(t *testing.T) {
		_, err := runner.Execute(context.Background(), "hacker_script", nil)
		assert.ErrorIs(t, err, process.ErrNotRegistered)
		assert.False(t, runner.Available("hacker_script"))
	})

	t.Run("Extra Args Are Appended", func(t *testing.T) {
		runner.Register("args", "sh", "-c", `echo "$0 $1"`)
		out, err := runner.Execute(context.Background(), "args", nil, "-Tsvg", "-o")
		require.NoError(t, err)
		assert.Equal(t, "-Tsvg -o\n", string(out))
	})

	t.Run("Reports Stderr On Failure", func(t *testing.T) {
		runner.Register("broken", "sh", "-c", "echo syntax error >&2; exit 3")
		_, err := runner.Execute(context.Background(), "broken", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "syntax error")
	})

	t.Run("Registry Environment", func(t *testing.T) {
		r := process.NewRunner(process.WithRegistry(map[string]process.ProcessConfig{
			"env": {Command: "sh", Args: []string{"-c", "printf %s \"$LAYOUT\""}, Environment: map[string]string{"LAYOUT": "LR"}},
		}))
		assert.True(t, r.Registered("env"))
		out, err := r.Execute(context.Background(), "env", nil)
		require.NoError(t, err)
		assert.Equal(t, "LR", string(out))
	})

	t.Run("Honors Context Deadline", func(t *testing.T) {
		runner.Register("slow", "sleep", "5")
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := runner.Execute(ctx, "slow", nil)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), 3*time.Second)
	})
}
