package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter shows that a long backend call is running.
type Reporter interface {
	Start(message string)
	Finish()
}

// IsCI reports whether output should stay line-oriented.
func IsCI() bool {
	return os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != ""
}

// NewReporter returns a TerminalReporter if running in an interactive terminal,
// or a CIReporter if the CI environment variable is set.
func NewReporter(w io.Writer) Reporter {
	if w == nil {
		w = os.Stderr
	}
	if IsCI() {
		return &CIReporter{w: w}
	}
	return &TerminalReporter{w: w}
}

// TerminalReporter displays a spinner in the terminal.
type TerminalReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(message string) {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
	// A max of -1 renders an indeterminate spinner.
	r.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription(message),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionClearOnFinish(),
	)
	_ = r.bar.RenderBlank()
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}
}

// CIReporter prints one line per step, suitable for CI logs.
type CIReporter struct {
	w       io.Writer
	running bool
}

func (r *CIReporter) Start(message string) {
	r.running = true
	fmt.Fprintf(r.w, "... %s\n", message)
}

func (r *CIReporter) Finish() {
	if r.running {
		fmt.Fprintln(r.w, "... done")
		r.running = false
	}
}
