package tui_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/aretw0/planfsa"
	"github.com/aretw0/planfsa/internal/presentation/tui"
	"github.com/aretw0/planfsa/pkg/adapters/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	src, err := memory.NewSourceFromText(map[string]string{
		"p1": "(start r1)\n(move r1)\n(end r1)\n",
		"p2": "(start r2)\n(move r2)\n(move r2)\n(end r2)\n",
	})
	require.NoError(t, err)
	res, err := planfsa.New().LearnFrom(context.Background(), src)
	require.NoError(t, err)

	md := tui.Summary(res)
	for _, want := range []string{
		"# Learned automaton",
		"2 plans, 4 states, 5 transitions (induced).",
		"start(?x0) 0 move(?x0) * end(?x0) 0",
		"| s0 (init) |  |  |",
		"| s3 (goal) | `?x0` |  |",
		"- s2 → s1 `(_l-2-1 ?x0)`",
	} {
		assert.Contains(t, md, want)
	}

	rendered, err := tui.NewRenderer(tui.DefaultWidth)(md)
	require.NoError(t, err)
	assert.Contains(t, rendered, "Learned automaton")
}

func TestWarning(t *testing.T) {
	var buf bytes.Buffer
	tui.Warning(&buf, "no output format given, skipping %s", "diagram")
	assert.Contains(t, buf.String(), "Warning:")
	assert.Contains(t, buf.String(), "no output format given, skipping diagram")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "version 1.2.3")
}
