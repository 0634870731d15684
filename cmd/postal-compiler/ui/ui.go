// Package ui provides terminal presentation for the postal-compiler CLI.
package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// Init applies global presentation settings.
func Init(noColor bool) {
	if noColor {
		color.NoColor = true
	}
}

// Section prints a bold section header.
func Section(title string) {
	fmt.Println()
	color.New(color.Bold).Println(title)
}

// Successf prints a green success line.
func Successf(format string, args ...interface{}) {
	color.Green("✓ "+format, args...)
}

// Warnf prints a yellow warning line.
func Warnf(format string, args ...interface{}) {
	color.Yellow("⚠ "+format, args...)
}

// Errorf prints a red error line to stderr.
func Errorf(format string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}

// Spinner shows an indeterminate activity indicator until Stop is called.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner starts a spinner with a message.
func NewSpinner(message string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	s.Start()
	return &Spinner{s: s}
}

// Stop halts the spinner and clears its line.
func (sp *Spinner) Stop() {
	sp.s.Stop()
}

// ProgressBar wraps a deterministic progress display.
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBar creates a progress bar with the given total and label.
func NewProgressBar(total int64, description string) *ProgressBar {
	bar := progressbar.NewOptions64(
		total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
	)
	return &ProgressBar{bar: bar}
}

// Set moves the bar to the given position.
func (p *ProgressBar) Set(current int64) {
	_ = p.bar.Set64(current)
}

// Finish completes the bar.
func (p *ProgressBar) Finish() {
	_ = p.bar.Finish()
}
