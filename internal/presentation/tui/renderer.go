package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/thicket/pkg/fixture"
	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)

	return func(markdown string) (string, error) {
		if err != nil {
			return markdown, err
		}
		return r.Render(markdown)
	}
}

// Describe renders a fixture definition as a markdown summary: its levels
// with their counts and fields, then types and columns.
func Describe(def *fixture.Definition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", def.Name)
	if def.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", def.Description)
	}
	if def.Source != "" {
		fmt.Fprintf(&b, "Source: `%s`\n\n", def.Source)
	}

	b.WriteString("## Levels\n\n")
	for i, l := range def.Levels {
		fmt.Fprintf(&b, "%d. count `%s`", i, l.Count)
		if l.Callback != nil {
			b.WriteString(", with callback")
		}
		b.WriteString("\n")
		for _, f := range l.Fields {
			fmt.Fprintf(&b, "    - **%s**: `%s`\n", f.Name, f.Spec)
		}
	}

	if def.Types != nil && def.Types.Len() > 0 {
		b.WriteString("\n## Types\n\n")
		for pair := def.Types.Oldest(); pair != nil; pair = pair.Next() {
			fmt.Fprintf(&b, "- %s\n", pair.Key)
		}
	}

	if len(def.Columns) > 0 {
		b.WriteString("\n## Columns\n\n| id | title |\n|----|-------|\n")
		for _, col := range def.Columns {
			id, _ := col.Get("id")
			title, _ := col.Get("title")
			fmt.Fprintf(&b, "| %v | %v |\n", id, title)
		}
	}
	return b.String()
}

// SizeDisp formats a file size: plain digits for small files, IEC units
// from 5 kB on.
func SizeDisp(size int64) string {
	if size > 5000 {
		return humanize.IBytes(uint64(size))
	}
	return humanize.Comma(size)
}

// Created prints a "Created <file>, <size>" status line.
func Created(w io.Writer, name string, size int64) {
	p := termenv.ColorProfile()
	fmt.Fprintf(w, "%s %s, %s\n", termenv.String("Created").Foreground(p.Color("#4ade80")), name, SizeDisp(size))
}

// Removed prints a "REMOVED <path>" status line.
func Removed(w io.Writer, path string) {
	p := termenv.ColorProfile()
	fmt.Fprintf(w, "%s %s\n", termenv.String("REMOVED").Foreground(p.Color("#f59e0b")), path)
}
