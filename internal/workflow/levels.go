package workflow

import "fmt"

// CheckState is the tri-state of the "select all" control.
type CheckState int

const (
	Unchecked CheckState = iota
	Checked
	Indeterminate
)

func (s CheckState) String() string {
	switch s {
	case Checked:
		return "checked"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unchecked"
	}
}

// LevelSet tracks which test levels are selected. The master state is
// derived from the individual levels on every read.
type LevelSet struct {
	order   []string
	checked map[string]bool
}

// NewLevelSet creates a set over levels with selected initially on.
// Selected entries that are not in levels are ignored.
func NewLevelSet(levels, selected []string) *LevelSet {
	s := &LevelSet{
		order:   append([]string(nil), levels...),
		checked: make(map[string]bool, len(levels)),
	}
	for _, l := range levels {
		s.checked[l] = false
	}
	for _, l := range selected {
		if _, ok := s.checked[l]; ok {
			s.checked[l] = true
		}
	}
	return s
}

// Levels returns every level in display order.
func (s *LevelSet) Levels() []string {
	return append([]string(nil), s.order...)
}

// SetAll applies the master control to every level.
func (s *LevelSet) SetAll(on bool) {
	for _, l := range s.order {
		s.checked[l] = on
	}
}

// Set selects or clears one level.
func (s *LevelSet) Set(level string, on bool) error {
	if _, ok := s.checked[level]; !ok {
		return fmt.Errorf("unknown test level %q", level)
	}
	s.checked[level] = on
	return nil
}

// Toggle flips one level.
func (s *LevelSet) Toggle(level string) error {
	return s.Set(level, !s.checked[level])
}

// IsSelected reports whether level is on.
func (s *LevelSet) IsSelected(level string) bool {
	return s.checked[level]
}

// Selected returns the selected levels in display order.
func (s *LevelSet) Selected() []string {
	var out []string
	for _, l := range s.order {
		if s.checked[l] {
			out = append(out, l)
		}
	}
	return out
}

// Master reports the "select all" state: checked iff every level is on,
// unchecked iff none is, indeterminate otherwise.
func (s *LevelSet) Master() CheckState {
	n := len(s.Selected())
	switch {
	case n == 0:
		return Unchecked
	case n == len(s.order):
		return Checked
	default:
		return Indeterminate
	}
}
