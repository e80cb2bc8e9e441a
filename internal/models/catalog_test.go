package models

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ziadkadry99/testgen/internal/api"
)

type fakeSource struct {
	calls   int
	catalog api.Catalog
	err     error
}

func (f *fakeSource) ListModels(ctx context.Context) (api.Catalog, error) {
	f.calls++
	return f.catalog, f.err
}

func TestFallbackShape(t *testing.T) {
	fb := Fallback()
	if len(fb) != 2 {
		t.Fatalf("expected two providers, got %d", len(fb))
	}
	total := 0
	for _, g := range fb {
		total += len(g.Models)
	}
	if total != 4 {
		t.Errorf("expected four models, got %d", total)
	}
	sel, ok := Find(fb, "llama3")
	if !ok || sel.Provider != "llama3" {
		t.Errorf("Find(llama3) = %+v, %v", sel, ok)
	}
}

func TestFind(t *testing.T) {
	c := api.Catalog{
		{Key: "anthropic", Name: "Anthropic", Models: []api.Model{
			{ID: "claude-sonnet", Name: "Claude Sonnet", Description: "Balanced"},
		}},
	}
	sel, ok := Find(c, "claude-sonnet")
	if !ok {
		t.Fatal("model not found")
	}
	want := Selection{ID: "claude-sonnet", Provider: "anthropic", Description: "Balanced"}
	if sel != want {
		t.Errorf("got %+v, want %+v", sel, want)
	}
	if _, ok := Find(c, "missing"); ok {
		t.Error("unexpected match for missing id")
	}
}

func TestLoaderCachesLiveCatalog(t *testing.T) {
	src := &fakeSource{catalog: api.Catalog{{Key: "openai", Name: "OpenAI", Models: []api.Model{{ID: "gpt-4o"}}}}}
	l := NewLoader(src, time.Minute, nil)

	for i := 0; i < 3; i++ {
		c, live := l.Load(context.Background())
		if !live || len(c) != 1 {
			t.Fatalf("Load #%d = %v, live=%v", i, c, live)
		}
	}
	if src.calls != 1 {
		t.Errorf("expected one backend call, got %d", src.calls)
	}
}

func TestLoaderFallsBackOnError(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	l := NewLoader(src, time.Minute, nil)

	c, live := l.Load(context.Background())
	if live {
		t.Error("fallback must not be reported as live")
	}
	if len(c) != len(Fallback()) {
		t.Errorf("expected fallback catalog, got %v", c)
	}

	// Failures are not cached.
	l.Load(context.Background())
	if src.calls != 2 {
		t.Errorf("expected retry on next Load, got %d calls", src.calls)
	}
}
