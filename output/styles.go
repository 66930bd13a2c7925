// Package output provides styling helpers for terminal output.
//
// Styling follows the capabilities of the destination writer: when it is not
// a terminal every helper returns its input unchanged.
package output

import (
	"io"

	"github.com/muesli/termenv"
)

// Styles renders styled strings for one writer.
type Styles struct {
	output *termenv.Output
}

// NewStyles creates Styles for w.
func NewStyles(w io.Writer) *Styles {
	return &Styles{output: termenv.NewOutput(w)}
}

func (s *Styles) style(text string) termenv.Style {
	return s.output.String(text)
}

// Success renders text green and bold.
func (s *Styles) Success(text string) string {
	return s.style(text).Foreground(s.output.Color("2")).Bold().String()
}

// Error renders text red and bold.
func (s *Styles) Error(text string) string {
	return s.style(text).Foreground(s.output.Color("1")).Bold().String()
}

// FilePath renders a path in cyan.
func (s *Styles) FilePath(text string) string {
	return s.style(text).Foreground(s.output.Color("6")).String()
}

// Card renders a card number in yellow.
func (s *Styles) Card(text string) string {
	return s.style(text).Foreground(s.output.Color("3")).String()
}

// Amount renders a money amount in magenta.
func (s *Styles) Amount(text string) string {
	return s.style(text).Foreground(s.output.Color("5")).String()
}

// Keyword renders text bold.
func (s *Styles) Keyword(text string) string {
	return s.style(text).Bold().String()
}

// Dim renders secondary text faint.
func (s *Styles) Dim(text string) string {
	return s.style(text).Faint().String()
}

// Warning renders text yellow and bold.
func (s *Styles) Warning(text string) string {
	return s.style(text).Foreground(s.output.Color("3")).Bold().String()
}

// Timing renders a duration: red when slow, faint otherwise.
func (s *Styles) Timing(text string, slow bool) string {
	if slow {
		return s.style(text).Foreground(s.output.Color("1")).String()
	}
	return s.Dim(text)
}

// Output returns the underlying termenv output.
func (s *Styles) Output() *termenv.Output {
	return s.output
}
