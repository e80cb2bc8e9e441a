package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/testgen/internal/api"
	"github.com/ziadkadry99/testgen/internal/workflow"
)

// modelItem is one entry of the model picker.
type modelItem struct {
	ID          string
	Group       string
	Name        string
	Description string
}

// modelItems flattens catalog in provider order.
func modelItems(catalog api.Catalog) []modelItem {
	var items []modelItem
	for _, g := range catalog {
		for _, m := range g.Models {
			items = append(items, modelItem{ID: m.ID, Group: g.Name, Name: m.Name, Description: m.Description})
		}
	}
	return items
}

const (
	levelsSelectAll = "Select all"
	levelsClearAll  = "Clear all"
	levelsDone      = "Done"
)

// levelItems renders the level checklist followed by the bulk actions.
func levelItems(set *workflow.LevelSet) []string {
	items := make([]string, 0, len(set.Levels())+3)
	for _, l := range set.Levels() {
		mark := " "
		if set.IsSelected(l) {
			mark = "x"
		}
		items = append(items, fmt.Sprintf("[%s] %s", mark, l))
	}
	return append(items, levelsSelectAll, levelsClearAll, levelsDone)
}

// applyLevelChoice applies the picker choice at index i. It reports whether
// the checklist is finished.
func applyLevelChoice(set *workflow.LevelSet, i int) (bool, error) {
	levels := set.Levels()
	switch {
	case i < len(levels):
		return false, set.Toggle(levels[i])
	case i == len(levels):
		set.SetAll(true)
	case i == len(levels)+1:
		set.SetAll(false)
	default:
		return true, nil
	}
	return false, nil
}

func masterLabel(s workflow.CheckState) string {
	switch s {
	case workflow.Checked:
		return "all"
	case workflow.Indeterminate:
		return "some"
	default:
		return "none"
	}
}

func validatePositive(input string) error {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n <= 0 {
		return errors.New("enter a positive whole number")
	}
	return nil
}

// RunForm walks the user through the generation form, filling the
// controller's state. It does not submit.
func RunForm(ctx context.Context, c *workflow.Controller) error {
	state := c.State()

	project, err := (&promptui.Prompt{Label: "Project name", Default: state.Form.ProjectName, AllowEdit: true}).Run()
	if err != nil {
		return fmt.Errorf("project prompt: %w", err)
	}
	state.Form.ProjectName = project

	if err := askSource(ctx, c); err != nil {
		return err
	}
	if err := askModel(ctx, c); err != nil {
		return err
	}
	if err := askLevels(state.Levels); err != nil {
		return err
	}
	return askAdvanced(state)
}

func askSource(ctx context.Context, c *workflow.Controller) error {
	state := c.State()
	sel := promptui.Select{
		Label: "Requirements source",
		Items: []string{"Enter text", "Upload a file"},
	}
	idx, _, err := sel.Run()
	if err != nil {
		return fmt.Errorf("source prompt: %w", err)
	}

	if idx == 0 {
		c.SetSource(workflow.SourceText)
		text, err := (&promptui.Prompt{Label: "Requirements", Default: state.Form.RequirementsText, AllowEdit: true}).Run()
		if err != nil {
			return fmt.Errorf("requirements prompt: %w", err)
		}
		state.Form.RequirementsText = text
		return nil
	}

	c.SetSource(workflow.SourceFile)
	for {
		path, err := (&promptui.Prompt{Label: "Path to requirements file"}).Run()
		if err != nil {
			return fmt.Errorf("file prompt: %w", err)
		}
		// Errors are already shown by the view; ask again.
		if err := c.SelectFile(ctx, strings.TrimSpace(path)); err == nil {
			return nil
		}
	}
}

func askModel(ctx context.Context, c *workflow.Controller) error {
	catalog := c.State().Catalog
	if len(catalog) == 0 {
		catalog = c.LoadModels(ctx)
	}
	items := modelItems(catalog)

	sel := promptui.Select{
		Label: "AI model",
		Items: items,
		Size:  10,
		Templates: &promptui.SelectTemplates{
			Active:   "▸ {{ .Group | faint }} / {{ .Name | cyan }}",
			Inactive: "  {{ .Group | faint }} / {{ .Name }}",
			Selected: "Model: {{ .Name | green }}",
			Details:  "{{ if .Description }}{{ .Description | faint }}{{ end }}",
		},
	}
	idx, _, err := sel.Run()
	if err != nil {
		return fmt.Errorf("model prompt: %w", err)
	}
	return c.SelectModel(items[idx].ID)
}

func askLevels(set *workflow.LevelSet) error {
	cursor := 0
	for {
		sel := promptui.Select{
			Label:     fmt.Sprintf("Test levels (%s selected)", masterLabel(set.Master())),
			Items:     levelItems(set),
			Size:      len(set.Levels()) + 3,
			CursorPos: cursor,
		}
		idx, _, err := sel.Run()
		if err != nil {
			return fmt.Errorf("test level prompt: %w", err)
		}
		done, err := applyLevelChoice(set, idx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		cursor = idx
	}
}

func askAdvanced(state *workflow.State) error {
	confirm := promptui.Prompt{Label: "Adjust advanced settings", IsConfirm: true}
	if _, err := confirm.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return nil
		}
		return fmt.Errorf("advanced prompt: %w", err)
	}

	count, err := askInt("Number of test cases", state.Form.Count)
	if err != nil {
		return err
	}
	topK, err := askInt("Context chunks (top-k)", state.Form.TopK)
	if err != nil {
		return err
	}
	state.Form.Count = count
	state.Form.TopK = topK
	return nil
}

func askInt(label string, current int) (int, error) {
	p := promptui.Prompt{
		Label:     label,
		Default:   strconv.Itoa(current),
		AllowEdit: true,
		Validate:  validatePositive,
	}
	result, err := p.Run()
	if err != nil {
		return 0, fmt.Errorf("%s prompt: %w", strings.ToLower(label), err)
	}
	return strconv.Atoi(strings.TrimSpace(result))
}
