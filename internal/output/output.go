// Package output provides consistent CLI output formatting with optional
// color when writing to a terminal.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color palette. A single green accent keeps output readable on both
// light and dark terminals.
const (
	colorGreen  = "114"
	colorWhite  = "255"
	colorGray   = "245"
	colorRed    = "196"
	colorYellow = "220"
)

// Styles holds the lipgloss styles used for CLI rendering.
type Styles struct {
	Title   lipgloss.Style
	Path    lipgloss.Style
	Section lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Dim     lipgloss.Style
}

func defaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorWhite)),
		Path:    lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen)),
		Section: lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed)),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)),
	}
}

// Writer provides formatted output for the CLI.
type Writer struct {
	out      io.Writer
	styles   Styles
	useColor bool
}

// New creates a Writer. Color is enabled only when out is a terminal.
func New(out io.Writer) *Writer {
	useColor := false
	if f, ok := out.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Writer{out: out, styles: defaultStyles(), useColor: useColor}
}

// render applies a style only when color is enabled.
func (w *Writer) render(style lipgloss.Style, s string) string {
	if !w.useColor {
		return s
	}
	return style.Render(s)
}

// Printf writes formatted plain text.
// Write errors are intentionally ignored for console output.
func (w *Writer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(w.out, format, args...)
}

// Println writes a plain line.
func (w *Writer) Println(args ...any) {
	_, _ = fmt.Fprintln(w.out, args...)
}

// Success prints a success message.
func (w *Writer) Success(msg string) {
	_, _ = fmt.Fprintf(w.out, "%s %s\n", w.render(w.styles.Success, "✓"), msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	_, _ = fmt.Fprintf(w.out, "%s %s\n", w.render(w.styles.Warning, "!"), msg)
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	_, _ = fmt.Fprintf(w.out, "%s %s\n", w.render(w.styles.Error, "✗"), msg)
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Result prints one search hit: title, path, and the matched section when
// a section filter selected one.
func (w *Writer) Result(title, path, section string) {
	_, _ = fmt.Fprintf(w.out, "%s  %s\n",
		w.render(w.styles.Title, title),
		w.render(w.styles.Path, path))
	if section != "" {
		_, _ = fmt.Fprintf(w.out, "    %s %s\n",
			w.render(w.styles.Dim, "section:"),
			w.render(w.styles.Section, section))
	}
}

// Dim prints secondary text.
func (w *Writer) Dim(msg string) {
	_, _ = fmt.Fprintln(w.out, w.render(w.styles.Dim, msg))
}
