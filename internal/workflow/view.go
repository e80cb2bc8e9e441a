package workflow

import (
	"github.com/ziadkadry99/testgen/internal/api"
	"github.com/ziadkadry99/testgen/internal/session"
)

// StatusKind styles a status line.
type StatusKind string

const (
	StatusLoading StatusKind = "loading"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// View renders workflow state. The controller only ever writes to it.
type View interface {
	// Status shows the generation/export status line.
	Status(kind StatusKind, message string)
	// UploadStatus shows the upload status line.
	UploadStatus(kind StatusKind, message string)
	// FileChip marks name as the uploaded document.
	FileChip(name string)
	// Busy switches the control for op between idle and loading.
	Busy(op session.Operation, busy bool)
	// Focus moves attention to a form field after a validation error.
	Focus(field string)
	Results(raw []byte)
	Statistics(stats api.Statistics)
	Models(catalog api.Catalog, live bool)
	// ModelHelp shows the selected model's description. It is called with
	// an empty description when the model has none.
	ModelHelp(description string)
	// Alert shows a blocking message.
	Alert(message string)
	// Saved reports a file written to disk.
	Saved(path string)
}

// StatisticsView is the part of View the statistics refresher needs.
type StatisticsView interface {
	Statistics(stats api.Statistics)
}
