package workflow

import (
	"encoding/json"

	"github.com/ziadkadry99/testgen/internal/api"
	"github.com/ziadkadry99/testgen/internal/config"
	"github.com/ziadkadry99/testgen/internal/models"
	"github.com/ziadkadry99/testgen/internal/upload"
)

// Source selects where requirements come from.
type Source int

const (
	SourceText Source = iota
	SourceFile
)

func (s Source) String() string {
	if s == SourceFile {
		return "file"
	}
	return "text"
}

// Form holds the user's inputs.
type Form struct {
	ProjectName      string
	Source           Source
	RequirementsText string
	SelectedFile     *upload.File
	// DocID, when set, is used instead of the last uploaded document.
	DocID      string
	FormFactor config.FormFactor
	Count      int
	TopK       int
}

// State is everything the workflow knows for the lifetime of a session.
type State struct {
	Form    Form
	Levels  *LevelSet
	Catalog api.Catalog
	Model   *models.Selection
	// ModelHelp is the description shown next to the model picker.
	ModelHelp string
	// LastDocID is set by the most recent successful upload.
	LastDocID string
	// FileChip names the uploaded file.
	FileChip string
	// Latest holds the most recent results, indented. Last writer wins.
	Latest json.RawMessage
}

// NewState builds a State pre-filled from defaults with selected levels on.
func NewState(defaults config.FormDefaults, selected []string) *State {
	ff := defaults.FormFactor
	if ff == "" {
		ff = config.FormFactorWeb
	}
	return &State{
		Form: Form{
			ProjectName: defaults.ProjectName,
			Source:      SourceText,
			FormFactor:  ff,
			Count:       defaults.Count,
			TopK:        defaults.TopK,
		},
		Levels: NewLevelSet(config.KnownTestLevels, selected),
	}
}

// docID returns the document the request should reference.
func (s *State) docID() string {
	if s.Form.DocID != "" {
		return s.Form.DocID
	}
	return s.LastDocID
}
