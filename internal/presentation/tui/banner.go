package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the thicket ASCII banner with its version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Green to teal, top to bottom
	lines := []struct{ text, color string }{
		{"  _   _     _      _        _   ", "#4ade80"},
		{" | |_| |__ (_) ___| | _____| |_ ", "#34d399"},
		{" | __| '_ \\| |/ __| |/ / _ \\ __|", "#2dd4bf"},
		{" | |_| | | | | (__|   <  __/ |_ ", "#22d3ee"},
		{"  \\__|_| |_|_|\\___|_|\\_\\___|\\__|", "#38bdf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
