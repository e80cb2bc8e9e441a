// Package tui renders the generation workflow in a terminal.
package tui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"github.com/ziadkadry99/testgen/internal/api"
	"github.com/ziadkadry99/testgen/internal/progress"
	"github.com/ziadkadry99/testgen/internal/session"
	"github.com/ziadkadry99/testgen/internal/workflow"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	alertColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	hintColor    = color.New(color.FgYellow)
	faintColor   = color.New(color.Faint)
)

// Terminal is a workflow.View writing to a terminal. Long operations show a
// spinner until their final status arrives.
type Terminal struct {
	mu       sync.Mutex
	out      io.Writer
	reporter progress.Reporter
	// ShowResults prints the full results payload when it changes.
	ShowResults bool
}

// NewTerminal creates a Terminal writing to out, or stdout if nil.
func NewTerminal(out io.Writer, reporter progress.Reporter) *Terminal {
	if out == nil {
		out = os.Stdout
	}
	if reporter == nil {
		reporter = progress.NewReporter(os.Stderr)
	}
	return &Terminal{out: out, reporter: reporter, ShowResults: true}
}

func (t *Terminal) Status(kind workflow.StatusKind, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status(kind, message)
}

func (t *Terminal) UploadStatus(kind workflow.StatusKind, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status(kind, message)
}

func (t *Terminal) status(kind workflow.StatusKind, message string) {
	switch kind {
	case workflow.StatusLoading:
		t.reporter.Start(message)
	case workflow.StatusSuccess:
		t.reporter.Finish()
		successColor.Fprintf(t.out, "✓ %s\n", message)
	case workflow.StatusError:
		t.reporter.Finish()
		errorColor.Fprintf(t.out, "✗ %s\n", message)
	default:
		fmt.Fprintln(t.out, message)
	}
}

func (t *Terminal) FileChip(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	infoColor.Fprintf(t.out, "  document: %s\n", name)
}

func (t *Terminal) Busy(op session.Operation, busy bool) {
	if busy {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reporter.Finish()
}

func (t *Terminal) Focus(field string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if hint, ok := fieldHints[field]; ok {
		hintColor.Fprintf(t.out, "  hint: %s\n", hint)
	}
}

var fieldHints = map[string]string{
	workflow.FieldModel:        "pass --model or run with --interactive",
	workflow.FieldRequirements: "pass --text or --text-file",
	workflow.FieldFile:         "pass --file or --doc-id",
	workflow.FieldTestLevels:   "pass --levels",
}

func (t *Terminal) Results(raw []byte) {
	if !t.ShowResults {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "%s\n", raw)
}

func (t *Terminal) Statistics(stats api.Statistics) {
	t.mu.Lock()
	defer t.mu.Unlock()
	writeStatistics(t.out, stats)
}

func writeStatistics(w io.Writer, stats api.Statistics) {
	infoColor.Fprintln(w, "Statistics")
	fmt.Fprintf(w, "  Total test cases:      %d\n", stats.TotalCases)
	fmt.Fprintf(w, "  Projects:              %d\n", stats.TotalProjects)
	fmt.Fprintf(w, "  Generations:           %d\n", stats.TotalGenerations)
	fmt.Fprintf(w, "  Average per generation: %d\n", stats.AveragePerGeneration())
	fmt.Fprintf(w, "  Priority high/medium/low: %d/%d/%d\n", stats.HighPriority, stats.MediumPriority, stats.LowPriority)
}

func (t *Terminal) Models(catalog api.Catalog, live bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	writeCatalog(t.out, catalog, live)
}

func writeCatalog(w io.Writer, catalog api.Catalog, live bool) {
	if !live {
		hintColor.Fprintln(w, "Backend model list unavailable, showing built-in models.")
	}
	for _, g := range catalog {
		infoColor.Fprintln(w, g.Name)
		for _, m := range g.Models {
			fmt.Fprintf(w, "  %-20s %s\n", m.ID, m.Name)
			if m.Description != "" {
				faintColor.Fprintf(w, "  %-20s %s\n", "", m.Description)
			}
		}
	}
}

// ModelHelp prints description under the model list. Output is append-only,
// so a model without a description prints nothing.
func (t *Terminal) ModelHelp(description string) {
	if description == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	faintColor.Fprintf(t.out, "  %s\n", description)
}

func (t *Terminal) Alert(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reporter.Finish()
	alertColor.Fprintf(t.out, "! %s\n", message)
}

func (t *Terminal) Saved(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	successColor.Fprintf(t.out, "Saved %s\n", path)
}
