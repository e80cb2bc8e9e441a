package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/testgen/internal/api"
	"github.com/ziadkadry99/testgen/internal/logging"
	"github.com/ziadkadry99/testgen/internal/models"
)

// RecentLimit is how many test cases the recent list shows.
const RecentLimit = 5

// Backend is the data the dashboard reads from the generation service.
type Backend interface {
	models.Source
	Statistics(ctx context.Context) (*api.Statistics, error)
	ListTestCases(ctx context.Context) (json.RawMessage, error)
}

// Options configures a Dashboard.
type Options struct {
	// Title is shown in the page header.
	Title  string
	Logger logging.Logger
	// Interval is how often live clients receive fresh statistics.
	Interval time.Duration
	// AllowAll accepts live connections from pages on any origin.
	AllowAll bool
}

// Dashboard serves a read-only overview of generated test cases.
type Dashboard struct {
	backend  Backend
	models   *models.Loader
	logger   logging.Logger
	interval time.Duration
	allowAll bool
	index    []byte
}

// New creates a new Dashboard.
func New(backend Backend, opts Options) *Dashboard {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	title := opts.Title
	if title == "" {
		title = "TestGen"
	}
	return &Dashboard{
		backend:  backend,
		models:   models.NewLoader(backend, 5*time.Minute, logger),
		logger:   logger,
		interval: interval,
		allowAll: opts.AllowAll,
		index:    renderIndex(title),
	}
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.ServeIndex)
	r.Get("/api/stats", d.handleStats)
	r.Get("/api/recent", d.handleRecent)
	r.Get("/api/models", d.handleModels)
	r.Get("/ws/live", d.handleWebSocket)
}
