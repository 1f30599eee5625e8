package tui

import (
	"fmt"
	"io"
)

// FallbackRunner handles non-TTY execution by guiding users to CLI commands.
type FallbackRunner struct {
	w io.Writer
}

// NewFallbackRunner creates a new FallbackRunner writing to w.
func NewFallbackRunner(w io.Writer) *FallbackRunner {
	return &FallbackRunner{w: w}
}

// Run prints the non-interactive equivalents of the TUI stages.
func (f *FallbackRunner) Run() error {
	fmt.Fprintln(f.w, "Non-TTY environment detected.")
	fmt.Fprintln(f.w, "Use the non-interactive commands instead:")
	for _, line := range []string{
		"fincoach register      create an account",
		"fincoach onboard       submit your profile and answers",
		"fincoach analysis      show your analysis",
		"fincoach plan          show your financial plan",
		"fincoach recs          list recommendations",
		"fincoach progress      show completion progress",
	} {
		fmt.Fprintf(f.w, "  %s\n", line)
	}
	return nil
}
