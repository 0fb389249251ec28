// Package progress draws stderr progress bars for the scan and extraction
// phases.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a progress bar for file processing.
type Tracker struct {
	bar   *progressbar.ProgressBar
	w     io.Writer
	label string
}

// Option configures a Tracker.
type Option func(*settings)

type settings struct {
	w io.Writer
}

// WithWriter redirects the bar and its finish messages, which go to stderr
// by default.
func WithWriter(w io.Writer) Option {
	return func(s *settings) {
		s.w = w
	}
}

func apply(opts []Option) settings {
	s := settings{w: os.Stderr}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// NewSpinner creates a spinner for operations with unknown total count, such
// as walking the asset tree.
func NewSpinner(label string, opts ...Option) *Tracker {
	s := apply(opts)
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(s.w),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &Tracker{bar: bar, w: s.w, label: label}
}

// NewTracker creates a counting bar, one tick per extracted file.
func NewTracker(label string, total int, opts ...Option) *Tracker {
	s := apply(opts)
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(s.w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Tracker{bar: bar, w: s.w, label: label}
}

// Tick advances by one file. Safe for concurrent use, so it can be handed to
// the extraction pool directly.
func (t *Tracker) Tick() {
	if t == nil {
		return
	}
	_ = t.bar.Add(1)
}

// Describe replaces the label, for example to show the phase.
func (t *Tracker) Describe(label string) {
	if t == nil {
		return
	}
	t.label = label
	t.bar.Describe(label)
}

// FinishSuccess clears the bar without printing anything.
func (t *Tracker) FinishSuccess() {
	if t == nil {
		return
	}
	t.clear()
}

// FinishSkipped clears the bar and prints why the phase was skipped.
func (t *Tracker) FinishSkipped(reason string) {
	if t == nil {
		return
	}
	t.clear()
	fmt.Fprintf(t.w, "  %s skipped (%s)\n", t.label, reason)
}

// FinishError clears the bar and prints the error.
func (t *Tracker) FinishError(err error) {
	if t == nil {
		return
	}
	t.clear()
	fmt.Fprintf(t.w, "  %s error: %v\n", t.label, err)
}

func (t *Tracker) clear() {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
}
