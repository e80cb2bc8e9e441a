package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/ziadkadry99/testgen/internal/api"
	"github.com/ziadkadry99/testgen/internal/session"
	"github.com/ziadkadry99/testgen/internal/workflow"
)

func init() {
	color.NoColor = true
}

type fakeReporter struct {
	started  []string
	finished int
}

func (r *fakeReporter) Start(message string) { r.started = append(r.started, message) }
func (r *fakeReporter) Finish()              { r.finished++ }

func TestTerminalStatusLines(t *testing.T) {
	var buf bytes.Buffer
	rep := &fakeReporter{}
	term := NewTerminal(&buf, rep)

	term.Status(workflow.StatusLoading, "Generating test cases... This may take a moment.")
	if len(rep.started) != 1 || buf.Len() != 0 {
		t.Fatalf("loading should start the spinner only, got %q", buf.String())
	}

	term.Status(workflow.StatusSuccess, "Successfully generated 7 test cases!")
	term.UploadStatus(workflow.StatusError, "Upload failed: Bad Gateway")
	term.Busy(session.OpGenerate, false)

	out := buf.String()
	if !strings.Contains(out, "✓ Successfully generated 7 test cases!") {
		t.Errorf("missing success line: %q", out)
	}
	if !strings.Contains(out, "✗ Upload failed: Bad Gateway") {
		t.Errorf("missing error line: %q", out)
	}
	if rep.finished != 3 {
		t.Errorf("spinner finished %d times, want 3", rep.finished)
	}
}

func TestTerminalFocusHint(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, &fakeReporter{})

	term.Focus(workflow.FieldModel)
	term.Focus("unknown")
	if got := buf.String(); got != "  hint: pass --model or run with --interactive\n" {
		t.Errorf("output = %q", got)
	}
}

func TestTerminalModelHelp(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, &fakeReporter{})

	term.ModelHelp("")
	if buf.Len() != 0 {
		t.Errorf("empty help wrote %q", buf.String())
	}
	term.ModelHelp("Fast multimodal model")
	if got := buf.String(); got != "  Fast multimodal model\n" {
		t.Errorf("help = %q", got)
	}
}

func TestTerminalResultsToggle(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, &fakeReporter{})

	term.ShowResults = false
	term.Results([]byte(`{"count": 1}`))
	if buf.Len() != 0 {
		t.Errorf("results printed while hidden: %q", buf.String())
	}

	term.ShowResults = true
	term.Results([]byte(`{"count": 1}`))
	if buf.String() != "{\"count\": 1}\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestTerminalStatistics(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, &fakeReporter{})

	term.Statistics(api.Statistics{TotalCases: 100, TotalGenerations: 4, HighPriority: 10, MediumPriority: 60, LowPriority: 30})
	out := buf.String()
	if !strings.Contains(out, "Average per generation: 25") {
		t.Errorf("missing average: %q", out)
	}
	if !strings.Contains(out, "10/60/30") {
		t.Errorf("missing priorities: %q", out)
	}
}

func TestTerminalModelsOffline(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, &fakeReporter{})

	term.Models(api.Catalog{{Key: "llama3", Name: "LLAMA3", Models: []api.Model{{ID: "llama3", Name: "LLAMA3 8B"}}}}, false)
	out := buf.String()
	if !strings.Contains(out, "built-in models") || !strings.Contains(out, "LLAMA3 8B") {
		t.Errorf("output = %q", out)
	}
}

func TestModelItemsKeepOrder(t *testing.T) {
	catalog := api.Catalog{
		{Key: "zeta", Name: "Zeta", Models: []api.Model{{ID: "z1", Name: "Z1"}}},
		{Key: "alpha", Name: "Alpha", Models: []api.Model{{ID: "a1", Name: "A1"}, {ID: "a2", Name: "A2"}}},
	}
	items := modelItems(catalog)
	var ids []string
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	if strings.Join(ids, ",") != "z1,a1,a2" {
		t.Errorf("ids = %v", ids)
	}
	if items[1].Group != "Alpha" {
		t.Errorf("group = %q", items[1].Group)
	}
}

func TestLevelChecklist(t *testing.T) {
	set := workflow.NewLevelSet([]string{"unit", "system"}, []string{"unit"})

	items := levelItems(set)
	want := []string{"[x] unit", "[ ] system", levelsSelectAll, levelsClearAll, levelsDone}
	if strings.Join(items, "|") != strings.Join(want, "|") {
		t.Errorf("items = %v", items)
	}
	if masterLabel(set.Master()) != "some" {
		t.Errorf("master = %s", masterLabel(set.Master()))
	}

	tests := []struct {
		idx    int
		done   bool
		master string
	}{
		{1, false, "all"},  // toggle system on
		{0, false, "some"}, // toggle unit off
		{3, false, "none"}, // clear all
		{2, false, "all"},  // select all
		{4, true, "all"},   // done
	}
	for _, tt := range tests {
		done, err := applyLevelChoice(set, tt.idx)
		if err != nil {
			t.Fatalf("choice %d: %v", tt.idx, err)
		}
		if done != tt.done || masterLabel(set.Master()) != tt.master {
			t.Errorf("choice %d: done=%v master=%s, want %v %s", tt.idx, done, masterLabel(set.Master()), tt.done, tt.master)
		}
	}
}

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"40", true},
		{" 12 ", true},
		{"0", false},
		{"-3", false},
		{"abc", false},
		{"", false},
	}
	for _, tt := range tests {
		if err := validatePositive(tt.in); (err == nil) != tt.ok {
			t.Errorf("validatePositive(%q) error = %v", tt.in, err)
		}
	}
}
