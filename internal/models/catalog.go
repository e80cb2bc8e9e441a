package models

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ziadkadry99/testgen/internal/api"
	"github.com/ziadkadry99/testgen/internal/logging"
)

// Selection is the model chosen for generation.
type Selection struct {
	ID          string
	Provider    string
	Description string
}

// Fallback is the static catalog offered when the backend list cannot be
// fetched, so the form stays usable offline.
func Fallback() api.Catalog {
	return api.Catalog{
		{
			Key:  "openai",
			Name: "OpenAI",
			Models: []api.Model{
				{ID: "gpt-4o", Name: "GPT-4o (Latest)"},
				{ID: "gpt-4", Name: "GPT-4"},
				{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo"},
			},
		},
		{
			Key:  "llama3",
			Name: "LLAMA3",
			Models: []api.Model{
				{ID: "llama3", Name: "LLAMA3 8B"},
			},
		},
	}
}

// Find looks a model up by id and returns it as a Selection.
func Find(c api.Catalog, id string) (Selection, bool) {
	for _, g := range c {
		for _, m := range g.Models {
			if m.ID == id {
				return Selection{ID: m.ID, Provider: g.Key, Description: m.Description}, true
			}
		}
	}
	return Selection{}, false
}

// Source fetches the catalog from the backend.
type Source interface {
	ListModels(ctx context.Context) (api.Catalog, error)
}

const catalogKey = "catalog"

// Loader fetches the catalog, caching successful responses.
type Loader struct {
	source Source
	cache  *cache.Cache
	logger logging.Logger
}

// NewLoader creates a Loader whose cached catalog expires after ttl.
func NewLoader(source Source, ttl time.Duration, logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Loader{
		source: source,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger,
	}
}

// Load returns the backend catalog, or the static fallback if it cannot be
// fetched. live reports whether the result came from the backend.
func (l *Loader) Load(ctx context.Context) (catalog api.Catalog, live bool) {
	if x, found := l.cache.Get(catalogKey); found {
		return x.(api.Catalog), true
	}

	catalog, err := l.source.ListModels(ctx)
	if err != nil || len(catalog) == 0 {
		details := map[string]interface{}{}
		if err != nil {
			details["error"] = err.Error()
		}
		l.logger.Warn("models", "falling back to static model list", details)
		return Fallback(), false
	}

	l.cache.Set(catalogKey, catalog, cache.DefaultExpiration)
	return catalog, true
}
