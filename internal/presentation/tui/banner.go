package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the planfsa banner with the version underneath.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{`       _               __           `, "#818cf8"},
		{` _ __ | | __ _ _ __   / _|___  __ _ `, "#a78bfa"},
		{`| '_ \| |/ _' | '_ \ | |_/ __|/ _' |`, "#c084fc"},
		{`| |_) | | (_| | | | ||  _\__ \ (_| |`, "#e879f9"},
		{`| .__/|_|\__,_|_| |_||_| |___/\__,_|`, "#f472b6"},
		{`|_|                                 `, "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  version "+version).Faint())
	fmt.Fprintln(w)
}

// Warning prints a highlighted warning line, e.g. for an output that will be skipped.
func Warning(w io.Writer, format string, args ...any) {
	out := termenv.NewOutput(w)
	prefix := out.String("Warning:").Foreground(out.Color("#fbbf24")).Bold()
	fmt.Fprintf(w, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

// Info prints a system message.
func Info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
