package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ziadkadry99/testgen/internal/api"
	"github.com/ziadkadry99/testgen/internal/logging"
	"github.com/ziadkadry99/testgen/internal/models"
	"github.com/ziadkadry99/testgen/internal/session"
	"github.com/ziadkadry99/testgen/internal/upload"
)

// Backend is the slice of the API client the controller drives.
type Backend interface {
	upload.Sender
	models.Source
	StatisticsSource
	Generate(ctx context.Context, req *api.GenerateRequest) (*api.GenerateResult, error)
	ListTestCases(ctx context.Context) (json.RawMessage, error)
	ExportSpreadsheet(ctx context.Context) (*api.Spreadsheet, error)
}

// ErrUnknownModel is returned when selecting an id missing from the catalog.
var ErrUnknownModel = errors.New("unknown model")

// Options configures a Controller.
type Options struct {
	// OutputDir receives exported files.
	OutputDir string
	// CatalogTTL bounds how long a fetched model catalog is reused.
	CatalogTTL time.Duration
	Logger     logging.Logger
	// Now is the clock used for export names.
	Now func() time.Time
}

// Controller runs the generation workflow over a State.
type Controller struct {
	backend  Backend
	session  *session.Session
	state    *State
	view     View
	bus      *Bus
	uploader *upload.Uploader
	loader   *models.Loader
	stats    *StatisticsRefresher
	logger   logging.Logger
	outDir   string
	now      func() time.Time
}

// NewController wires a controller. Statistics are refreshed on every
// results update.
func NewController(backend Backend, sess *session.Session, state *State, view View, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ttl := opts.CatalogTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	c := &Controller{
		backend:  backend,
		session:  sess,
		state:    state,
		view:     view,
		bus:      NewBus(),
		uploader: upload.NewUploader(backend, sess, logger),
		loader:   models.NewLoader(backend, ttl, logger),
		stats:    NewStatisticsRefresher(backend, view, logger),
		logger:   logger,
		outDir:   opts.OutputDir,
		now:      now,
	}
	c.bus.Subscribe(EventResultsUpdated, c.stats.Handle)
	return c
}

// State exposes the workflow state for event handlers to mutate.
func (c *Controller) State() *State { return c.state }

// SetSource switches the active requirements input.
func (c *Controller) SetSource(src Source) {
	c.state.Form.Source = src
}

// LoadModels fetches the model catalog, falling back to the static list.
func (c *Controller) LoadModels(ctx context.Context) api.Catalog {
	catalog, live := c.loader.Load(ctx)
	c.state.Catalog = catalog
	c.view.Models(catalog, live)
	return catalog
}

// SelectModel captures the model with the given id. An empty id leaves the
// current selection untouched.
func (c *Controller) SelectModel(id string) error {
	if id == "" {
		return nil
	}
	sel, ok := models.Find(c.state.Catalog, id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownModel, id)
	}
	c.state.Model = &sel
	c.state.ModelHelp = sel.Description
	c.view.ModelHelp(sel.Description)
	return nil
}

// SelectFile validates path and, if valid, uploads it.
func (c *Controller) SelectFile(ctx context.Context, paths ...string) error {
	f, err := upload.Select(paths...)
	if err != nil {
		c.view.UploadStatus(StatusError, err.Error())
		return err
	}
	c.state.Form.SelectedFile = f
	return c.upload(ctx, f)
}

func (c *Controller) upload(ctx context.Context, f *upload.File) error {
	c.view.Busy(session.OpUpload, true)
	defer c.view.Busy(session.OpUpload, false)

	c.view.UploadStatus(StatusLoading, "Uploading file...")
	res, err := c.uploader.Upload(ctx, f)
	if err != nil {
		if errors.Is(err, session.ErrInFlight) {
			return err
		}
		c.view.UploadStatus(StatusError, "Upload failed: "+api.Message(err))
		return fmt.Errorf("upload failed: %w", err)
	}

	c.state.LastDocID = res.DocID
	c.state.FileChip = res.FileName
	c.view.FileChip(res.FileName)
	c.view.UploadStatus(StatusSuccess, "File uploaded successfully!")
	return nil
}

// Submit validates the form and generates test cases. It returns
// session.ErrInFlight without side effects while a generation is running.
func (c *Controller) Submit(ctx context.Context) error {
	if c.session.Busy(session.OpGenerate) {
		return fmt.Errorf("%s: %w", session.OpGenerate, session.ErrInFlight)
	}

	if err := Validate(c.state); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			c.view.Status(StatusError, verr.Message)
			c.view.Focus(verr.Field)
		}
		return err
	}

	release, err := c.session.Begin(session.OpGenerate)
	if err != nil {
		return err
	}
	c.view.Busy(session.OpGenerate, true)
	defer func() {
		release()
		c.view.Busy(session.OpGenerate, false)
	}()

	// A picked file that never made it to the backend is uploaded first.
	if c.state.Form.Source == SourceFile && c.state.docID() == "" && c.state.Form.SelectedFile != nil {
		if err := c.upload(ctx, c.state.Form.SelectedFile); err != nil {
			c.view.Status(StatusError, "Generation failed: "+api.Message(err))
			return err
		}
	}

	req, err := BuildRequest(c.state)
	if err != nil {
		c.view.Status(StatusError, "Generation failed: "+err.Error())
		return err
	}

	c.view.Status(StatusLoading, "Generating test cases... This may take a moment.")
	c.logger.Info("workflow", "generation started", map[string]interface{}{
		"project":     req.ProjectName,
		"model":       req.LLMModel,
		"provider":    req.LLMProvider,
		"test_levels": req.TestLevels,
		"source":      c.state.Form.Source.String(),
	})

	result, err := c.backend.Generate(ctx, req)
	if err != nil {
		c.view.Status(StatusError, "Generation failed: "+api.Message(err))
		return fmt.Errorf("generation failed: %w", err)
	}

	formatted, err := FormatResults(result.Raw)
	if err != nil {
		c.view.Status(StatusError, "Generation failed: "+err.Error())
		return err
	}
	c.view.Status(StatusSuccess, fmt.Sprintf("Successfully generated %d test cases!", result.Count))
	c.showLatest(ctx, formatted)
	return nil
}

// RefreshLatest replaces the latest results with the stored test cases.
func (c *Controller) RefreshLatest(ctx context.Context) error {
	raw, err := c.backend.ListTestCases(ctx)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			c.view.Alert("Failed to fetch latest results: " + apiErr.Error())
		} else {
			c.view.Alert("Error fetching results: " + err.Error())
		}
		return err
	}
	return c.setLatest(ctx, raw)
}

func (c *Controller) setLatest(ctx context.Context, raw []byte) error {
	formatted, err := FormatResults(raw)
	if err != nil {
		return err
	}
	c.showLatest(ctx, formatted)
	return nil
}

// showLatest stores formatted as the latest results, renders it and
// notifies subscribers.
func (c *Controller) showLatest(ctx context.Context, formatted []byte) {
	c.state.Latest = formatted
	c.view.Results(formatted)
	c.bus.Publish(ctx, Event{Type: EventResultsUpdated, Results: formatted})
}

// RefreshStatistics fetches and renders usage statistics.
func (c *Controller) RefreshStatistics(ctx context.Context) (*api.Statistics, error) {
	return c.stats.Refresh(ctx)
}

// ExportJSON writes the latest results to OutputDir.
func (c *Controller) ExportJSON() (string, error) {
	release, err := c.session.Begin(session.OpExport)
	if err != nil {
		return "", err
	}
	defer release()

	path, err := WriteJSONExport(c.outDir, c.state.Latest, c.now())
	if err != nil {
		if errors.Is(err, ErrNoResults) {
			c.view.Alert(ErrNoResults.Error())
		} else {
			c.view.Alert("Error exporting results: " + err.Error())
		}
		return "", err
	}
	c.view.Saved(path)
	return path, nil
}

// ExportSpreadsheet downloads the server-rendered spreadsheet into
// OutputDir.
func (c *Controller) ExportSpreadsheet(ctx context.Context) (string, error) {
	release, err := c.session.Begin(session.OpExport)
	if err != nil {
		return "", err
	}
	c.view.Busy(session.OpExport, true)
	defer func() {
		release()
		c.view.Busy(session.OpExport, false)
	}()

	c.view.Status(StatusLoading, "Generating Excel file...")
	sheet, err := c.backend.ExportSpreadsheet(ctx)
	if err != nil {
		c.view.Status(StatusError, "Export failed: "+api.Message(err))
		return "", fmt.Errorf("export failed: %w", err)
	}

	path, err := writeFile(c.outDir, baseName(sheet.Filename, api.DefaultSpreadsheetName), sheet.Data)
	if err != nil {
		c.view.Status(StatusError, "Export failed: "+err.Error())
		return "", err
	}
	c.view.Saved(path)
	c.view.Status(StatusSuccess, "Excel file downloaded successfully!")
	return path, nil
}
