package workflow

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNoResults is returned when exporting before anything was generated.
var ErrNoResults = errors.New("No results to export. Please generate test cases first.")

// JSONExportName is the file name for a JSON export taken at t.
func JSONExportName(t time.Time) string {
	return fmt.Sprintf("test-cases-%s.json", t.UTC().Format("2006-01-02"))
}

// FormatResults validates raw and re-indents it with two spaces, keeping
// key order and number text intact.
func FormatResults(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return nil, fmt.Errorf("parsing results: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteJSONExport writes results into dir and returns the file path.
func WriteJSONExport(dir string, results []byte, now time.Time) (string, error) {
	if len(bytes.TrimSpace(results)) == 0 {
		return "", ErrNoResults
	}
	formatted, err := FormatResults(results)
	if err != nil {
		return "", err
	}
	return writeFile(dir, JSONExportName(now), append(formatted, '\n'))
}

// baseName strips any directory from name. Names with no usable base
// become fallback.
func baseName(name, fallback string) string {
	base := filepath.Base(name)
	switch base {
	case ".", "..", string(filepath.Separator):
		return fallback
	}
	return base
}

// writeFile saves data as dir/name.
func writeFile(dir, name string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
