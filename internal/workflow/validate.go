package workflow

import (
	"errors"
	"strings"

	"github.com/ziadkadry99/testgen/internal/api"
	"github.com/ziadkadry99/testgen/internal/config"
)

// Form fields named in validation errors.
const (
	FieldModel        = "model"
	FieldRequirements = "requirements"
	FieldFile         = "file"
	FieldTestLevels   = "test_levels"
)

// ValidationError is a client-side form problem. Field is the input that
// should receive focus.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ErrNoModel is returned when a request is built without a model.
var ErrNoModel = errors.New("no model selected")

// Validate runs the readiness checks in order and returns the first
// failure.
func Validate(s *State) error {
	if s.Model == nil || s.Model.ID == "" {
		return &ValidationError{Field: FieldModel, Message: "Please select an AI model."}
	}

	switch s.Form.Source {
	case SourceText:
		if strings.TrimSpace(s.Form.RequirementsText) == "" {
			return &ValidationError{Field: FieldRequirements, Message: "Please enter your requirements text."}
		}
	case SourceFile:
		if s.docID() == "" && s.Form.SelectedFile == nil {
			return &ValidationError{Field: FieldFile, Message: "Please upload a requirements file."}
		}
	}

	if len(s.Levels.Selected()) == 0 {
		return &ValidationError{Field: FieldTestLevels, Message: "Please select at least one test level."}
	}

	return nil
}

// BuildRequest assembles the generate payload from s. Exactly one of the
// requirements text and document id is populated, matching the active
// source.
func BuildRequest(s *State) (*api.GenerateRequest, error) {
	if s.Model == nil {
		return nil, ErrNoModel
	}

	ff := s.Form.FormFactor
	if ff == "" {
		ff = config.FormFactorWeb
	}
	count := s.Form.Count
	if count <= 0 {
		count = config.DefaultCount
	}
	topK := s.Form.TopK
	if topK <= 0 {
		topK = config.DefaultTopK
	}

	req := &api.GenerateRequest{
		ProjectName: strings.TrimSpace(s.Form.ProjectName),
		FormFactor:  string(ff),
		TestLevels:  s.Levels.Selected(),
		Count:       count,
		TopK:        topK,
		Modes:       []string{string(ff)},
		LLMModel:    s.Model.ID,
		LLMProvider: s.Model.Provider,
	}

	if s.Form.Source == SourceText {
		text := strings.TrimSpace(s.Form.RequirementsText)
		req.RequirementsText = &text
	} else {
		id := s.docID()
		req.DocID = &id
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}
