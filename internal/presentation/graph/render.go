package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/aretw0/planfsa/pkg/adapters/process"
	"github.com/aretw0/planfsa/pkg/automaton"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatDOT     = "gv"
	FormatMermaid = "mmd"
	FormatPNG     = "png"
	FormatSVG     = "svg"
	FormatPDF     = "pdf"
	FormatJSON    = "json"
	FormatYAML    = "yaml"
)

// DotProcess is the runner name the renderer executes for image formats.
const DotProcess = "dot"

// ErrUnsupportedFormat is returned for formats the renderer does not know.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Formats lists every supported format.
var Formats = []string{FormatDOT, FormatMermaid, FormatPNG, FormatSVG, FormatPDF, FormatJSON, FormatYAML}

// IsImage reports whether the format needs Graphviz.
func IsImage(format string) bool {
	return format == FormatPNG || format == FormatSVG || format == FormatPDF
}

// Renderer turns automata into diagram or snapshot bytes.
type Renderer struct {
	runner *process.Runner
}

// NewRenderer creates a renderer. runner may be nil when no image formats are
// needed; otherwise it must have DotProcess registered.
func NewRenderer(runner *process.Runner) *Renderer {
	return &Renderer{runner: runner}
}

// Render encodes the automaton in the given format.
func (r *Renderer) Render(ctx context.Context, a *automaton.FSA, format string) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(GenerateDOT(a)), nil
	case FormatMermaid:
		return []byte(GenerateMermaid(a)), nil
	case FormatJSON:
		data, err := json.MarshalIndent(a.Snapshot(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		return yaml.Marshal(a.Snapshot())
	}

	if !IsImage(format) {
		return nil, fmt.Errorf("%q (want one of %v): %w", format, Formats, ErrUnsupportedFormat)
	}
	if r.runner == nil || !r.runner.Registered(DotProcess) {
		return nil, fmt.Errorf("%s output needs graphviz: %w", format, process.ErrNotRegistered)
	}
	return r.runner.Execute(ctx, DotProcess, []byte(GenerateDOT(a)), "-T"+format)
}

// Supported reports whether format is known.
func Supported(format string) bool {
	return slices.Contains(Formats, format)
}
