package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// Model is one selectable AI model in the backend catalog.
type Model struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ProviderGroup is the set of models offered by one provider.
type ProviderGroup struct {
	Key    string  `json:"-"`
	Name   string  `json:"name"`
	Models []Model `json:"models"`
}

// Catalog is the grouped model list. The backend sends it as a JSON object
// keyed by provider; the order of keys is preserved.
type Catalog []ProviderGroup

func (c *Catalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading model catalog: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("model catalog must be a JSON object")
	}

	var groups Catalog
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("reading provider key: %w", err)
		}
		key, _ := tok.(string)

		var g ProviderGroup
		if err := dec.Decode(&g); err != nil {
			return fmt.Errorf("decoding provider %q: %w", key, err)
		}
		g.Key = key
		groups = append(groups, g)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("closing model catalog: %w", err)
	}

	*c = groups
	return nil
}

func (c Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(g.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(g)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UploadResponse is returned by the upload endpoint.
type UploadResponse struct {
	DocID string `json:"doc_id"`
}

// GenerateRequest is the payload of the generate endpoint. Exactly one of
// RequirementsText and DocID is set; the other is sent as null.
type GenerateRequest struct {
	ProjectName      string   `json:"project_name"`
	RequirementsText *string  `json:"requirements_text" validate:"required_without=DocID,excluded_with=DocID"`
	DocID            *string  `json:"doc_id" validate:"required_without=RequirementsText"`
	FormFactor       string   `json:"form_factor" validate:"required"`
	TestLevels       []string `json:"test_levels" validate:"min=1,dive,required"`
	Count            int      `json:"count" validate:"gt=0"`
	TopK             int      `json:"top_k" validate:"gt=0"`
	Modes            []string `json:"modes"`
	LLMModel         string   `json:"llm_model" validate:"required"`
	LLMProvider      string   `json:"llm_provider" validate:"required"`
}

var validate = validator.New()

// Validate checks the structural invariants of the request.
func (r *GenerateRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid generate request: %w", err)
	}
	return nil
}

// GenerateResult wraps the raw generate response.
type GenerateResult struct {
	Raw   json.RawMessage
	Count int
}

// TestCase is the subset of a stored test case the client displays.
type TestCase struct {
	Name      string `json:"test_case_name"`
	Priority  string `json:"priority"`
	TestLevel string `json:"test_level"`
}

// TestCaseList is the response of the testcases endpoint.
type TestCaseList struct {
	TestCases []TestCase `json:"test_cases"`
}

// ParseTestCases extracts the displayable test cases from a raw payload.
func ParseTestCases(raw []byte) ([]TestCase, error) {
	var list TestCaseList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("parsing test cases: %w", err)
	}
	return list.TestCases, nil
}

// Statistics is the usage summary returned by the statistics endpoint.
type Statistics struct {
	TotalCases       int `json:"total_cases"`
	TotalProjects    int `json:"total_projects"`
	TotalGenerations int `json:"total_generations"`
	HighPriority     int `json:"high_priority"`
	MediumPriority   int `json:"medium_priority"`
	LowPriority      int `json:"low_priority"`
}

// AveragePerGeneration is total cases over total generations, rounded, or
// zero when nothing has been generated.
func (s Statistics) AveragePerGeneration() int {
	if s.TotalGenerations <= 0 {
		return 0
	}
	return int(math.Round(float64(s.TotalCases) / float64(s.TotalGenerations)))
}

// Spreadsheet is a server-rendered export.
type Spreadsheet struct {
	Filename string
	Data     []byte
}
