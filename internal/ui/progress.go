// Package ui provides plain terminal output for the non-interactive
// commands: status lines, recommendation lists and a progress bar.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/fincoach-dev/fincoach/internal/recommend"
)

// DefaultBarWidth is the number of cells in a progress bar.
const DefaultBarWidth = 30

// Printer writes status output to w, coloured only when w is a terminal.
type Printer struct {
	w     io.Writer
	isTTY bool

	green  *color.Color
	yellow *color.Color
	red    *color.Color
	dim    *color.Color
	bold   *color.Color
}

// NewPrinter creates a Printer for w.
func NewPrinter(w io.Writer) *Printer {
	p := &Printer{
		w:      w,
		isTTY:  isTerminal(w),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
		dim:    color.New(color.FgHiBlack),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.green, p.yellow, p.red, p.dim, p.bold} {
		if p.isTTY {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Width returns the terminal width of the output, or 80 when unknown.
func (p *Printer) Width() int {
	if f, ok := p.w.(*os.File); ok && p.isTTY {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

// Styled reports whether output goes to a terminal.
func (p *Printer) Styled() bool {
	return p.isTTY
}

func (p *Printer) Heading(format string, args ...any) {
	fmt.Fprintln(p.w, p.bold.Sprintf(format, args...))
}

func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.w, p.green.Sprintf(format, args...))
}

func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.w, p.yellow.Sprintf(format, args...))
}

func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.w, p.red.Sprintf(format, args...))
}

func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Recommendations prints one line per recommendation with a status marker.
func (p *Printer) Recommendations(items []*recommend.Recommendation) {
	if len(items) == 0 {
		p.Info("No recommendations available at this time.")
		return
	}
	for _, r := range items {
		fmt.Fprintf(p.w, "  %s %3d  %s  %s\n", p.statusIcon(r.Status), r.ID, r.Description, p.statusDetail(r.Status))
	}
}

// Progress prints the snapshot with a bar.
func (p *Printer) Progress(s recommend.Snapshot) {
	fmt.Fprintln(p.w, ProgressBar(s, DefaultBarWidth))
}

// statusIcon returns the marker for a recommendation status.
func (p *Printer) statusIcon(s recommend.Status) string {
	switch {
	case s.IsComplete():
		return p.green.Sprint("[x]")
	case s == recommend.StatusPending:
		return p.dim.Sprint("[ ]")
	default:
		return p.yellow.Sprint("[?]")
	}
}

func (p *Printer) statusDetail(s recommend.Status) string {
	switch {
	case s.IsComplete():
		return p.green.Sprint("(complete)")
	case s == recommend.StatusPending:
		return p.dim.Sprint("(pending)")
	default:
		return p.yellow.Sprintf("(%s)", s)
	}
}

// ProgressBar renders s as "[#####-----] 50% (1/2)" with width cells.
func ProgressBar(s recommend.Snapshot, width int) string {
	if width <= 0 {
		width = DefaultBarWidth
	}
	filled := 0
	if s.Total > 0 {
		filled = width * s.Completed / s.Total
	}
	return fmt.Sprintf("[%s%s] %d%% (%d/%d)",
		strings.Repeat("#", filled), strings.Repeat("-", width-filled),
		s.Percent, s.Completed, s.Total)
}
