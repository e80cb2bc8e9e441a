package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.API.Host != "http://localhost:8000" {
		t.Errorf("expected default host %q, got %q", "http://localhost:8000", cfg.API.Host)
	}
	if cfg.API.Timeout != 30000 {
		t.Errorf("expected default timeout 30000, got %d", cfg.API.Timeout)
	}
	if cfg.App.Name != "TestGen" {
		t.Errorf("expected default app name %q, got %q", "TestGen", cfg.App.Name)
	}
	if cfg.App.Version != "0.2.0" {
		t.Errorf("expected default version %q, got %q", "0.2.0", cfg.App.Version)
	}
	if cfg.Defaults.Count != 40 || cfg.Defaults.TopK != 12 {
		t.Errorf("expected count 40 and top_k 12, got %d and %d", cfg.Defaults.Count, cfg.Defaults.TopK)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.testgen.yml")

	original := DefaultConfig()
	original.API.Host = "https://testgen.example.com"
	original.API.Timeout = 5000
	original.Defaults.FormFactor = FormFactorMobile
	original.Defaults.TestLevels = []string{LevelUnit, LevelSystem}
	original.Defaults.ProjectName = "checkout"

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.API.Host != original.API.Host {
		t.Errorf("host: got %q, want %q", loaded.API.Host, original.API.Host)
	}
	if loaded.API.Timeout != original.API.Timeout {
		t.Errorf("timeout: got %d, want %d", loaded.API.Timeout, original.API.Timeout)
	}
	if loaded.Defaults.FormFactor != original.Defaults.FormFactor {
		t.Errorf("form_factor: got %q, want %q", loaded.Defaults.FormFactor, original.Defaults.FormFactor)
	}
	if loaded.Defaults.ProjectName != "checkout" {
		t.Errorf("project_name: got %q", loaded.Defaults.ProjectName)
	}
	if len(loaded.Defaults.TestLevels) != 2 {
		t.Fatalf("test_levels length: got %d, want 2", len(loaded.Defaults.TestLevels))
	}
	for i, v := range loaded.Defaults.TestLevels {
		if v != original.Defaults.TestLevels[i] {
			t.Errorf("test_levels[%d]: got %q, want %q", i, v, original.Defaults.TestLevels[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.API.Host != DefaultHost {
		t.Errorf("expected default host, got %q", cfg.API.Host)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	t.Setenv("TESTGEN_API_HOST", "http://backend:9000")
	t.Setenv("TESTGEN_API_TIMEOUT", "1500")
	t.Setenv("TESTGEN_DEFAULTS_TOP_K", "20")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.API.Host != "http://backend:9000" {
		t.Errorf("env override failed: got %q", loaded.API.Host)
	}
	if loaded.API.Timeout != 1500 {
		t.Errorf("timeout override failed: got %d", loaded.API.Timeout)
	}
	if loaded.Defaults.TopK != 20 {
		t.Errorf("top_k override failed: got %d", loaded.Defaults.TopK)
	}
}

func TestLoadLegacyViteEnv(t *testing.T) {
	t.Setenv("VITE_API_HOST", "http://vite-host:8000")
	t.Setenv("VITE_APP_NAME", "Legacy")

	loaded, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.API.Host != "http://vite-host:8000" {
		t.Errorf("VITE_API_HOST not applied: got %q", loaded.API.Host)
	}
	if loaded.App.Name != "Legacy" {
		t.Errorf("VITE_APP_NAME not applied: got %q", loaded.App.Name)
	}
}

func TestLoadEmptyEnvTimeoutKeepsDefault(t *testing.T) {
	t.Setenv("VITE_API_TIMEOUT", "")
	t.Setenv("TESTGEN_API_TIMEOUT", "  ")

	loaded, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.API.Timeout != DefaultTimeoutMS {
		t.Errorf("empty env timeout gave %d, want %d", loaded.API.Timeout, DefaultTimeoutMS)
	}
	if len(loaded.Warnings()) != 0 {
		t.Errorf("empty values should be ignored silently, got %v", loaded.Warnings())
	}
}

func TestLoadNonNumericEnvFallsBack(t *testing.T) {
	t.Setenv("TESTGEN_API_TIMEOUT", "abc")
	t.Setenv("VITE_DEFAULTS_TOP_K", "lots")

	loaded, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.API.Timeout != DefaultTimeoutMS {
		t.Errorf("timeout = %d, want %d", loaded.API.Timeout, DefaultTimeoutMS)
	}
	if loaded.Defaults.TopK != DefaultTopK {
		t.Errorf("top_k = %d, want %d", loaded.Defaults.TopK, DefaultTopK)
	}

	warnings := loaded.Warnings()
	if len(warnings) != 2 {
		t.Fatalf("expected two warnings, got %v", warnings)
	}
	joined := strings.Join(warnings, "\n")
	for _, name := range []string{"TESTGEN_API_TIMEOUT", "VITE_DEFAULTS_TOP_K"} {
		if !strings.Contains(joined, name) {
			t.Errorf("warnings %v do not mention %s", warnings, name)
		}
	}
}

func TestTestgenEnvWinsOverVite(t *testing.T) {
	t.Setenv("VITE_API_HOST", "http://vite-host:8000")
	t.Setenv("TESTGEN_API_HOST", "http://testgen-host:8000")

	loaded, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.API.Host != "http://testgen-host:8000" {
		t.Errorf("got %q, want TESTGEN_ value", loaded.API.Host)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("TESTGEN_APP_VERSION=9.9.9\n"), 0644); err != nil {
		t.Fatal(err)
	}

	old := DotEnvFile
	DotEnvFile = envPath
	t.Cleanup(func() {
		DotEnvFile = old
		os.Unsetenv("TESTGEN_APP_VERSION")
	})

	loaded, err := Load(filepath.Join(dir, "missing.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.App.Version != "9.9.9" {
		t.Errorf("dotenv value not applied: got %q", loaded.App.Version)
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"TESTGEN_API_HOST", "api.host"},
		{"TESTGEN_API_TIMEOUT", "api.timeout"},
		{"TESTGEN_APP_NAME", "app.name"},
		{"TESTGEN_DEFAULTS_TOP_K", "defaults.top_k"},
		{"TESTGEN_DEFAULTS_PROJECT_NAME", "defaults.project_name"},
		{"TESTGEN_LOG_FILE", "log_file"},
	}
	fn := envKey("TESTGEN_")
	for _, tt := range tests {
		if got := fn(tt.in); got != tt.want {
			t.Errorf("envKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEndpoints(t *testing.T) {
	e := NewEndpoints("http://localhost:8000/")
	want := map[Endpoint]string{
		EndpointHealth:     "http://localhost:8000/healthz",
		EndpointModels:     "http://localhost:8000/llm-models",
		EndpointUpload:     "http://localhost:8000/upload",
		EndpointGenerate:   "http://localhost:8000/generate",
		EndpointTestCases:  "http://localhost:8000/testcases",
		EndpointStatistics: "http://localhost:8000/statistics",
		EndpointExport:     "http://localhost:8000/export/excel",
	}
	for name, url := range want {
		if got := e.URL(name); got != url {
			t.Errorf("URL(%s) = %q, want %q", name, got, url)
		}
	}
}

func TestEmptyHostWarns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Host = ""
	if len(cfg.Warnings()) != 1 {
		t.Fatalf("expected one warning for empty host, got %v", cfg.Warnings())
	}
	if got := cfg.Endpoints().URL(EndpointGenerate); got != "/generate" {
		t.Errorf("empty host should yield bare path, got %q", got)
	}

	if len(DefaultConfig().Warnings()) != 0 {
		t.Error("default config should not warn")
	}
}

func TestRequestTimeout(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.RequestTimeout() != 30*time.Second {
		t.Errorf("expected 30s, got %s", cfg.RequestTimeout())
	}
	cfg.API.Timeout = 0
	if cfg.RequestTimeout() != 0 {
		t.Errorf("expected zero timeout, got %s", cfg.RequestTimeout())
	}
}

func TestInitialLevels(t *testing.T) {
	cfg := DefaultConfig()
	if len(cfg.InitialLevels()) != len(KnownTestLevels) {
		t.Errorf("empty defaults should select every level, got %v", cfg.InitialLevels())
	}
	cfg.Defaults.TestLevels = []string{LevelUnit}
	if got := cfg.InitialLevels(); len(got) != 1 || got[0] != LevelUnit {
		t.Errorf("got %v, want [unit]", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"negative timeout", func(c *Config) { c.API.Timeout = -1 }, true},
		{"zero count", func(c *Config) { c.Defaults.Count = 0 }, true},
		{"zero top_k", func(c *Config) { c.Defaults.TopK = 0 }, true},
		{"unknown form factor", func(c *Config) { c.Defaults.FormFactor = "fridge" }, true},
		{"unknown level", func(c *Config) { c.Defaults.TestLevels = []string{"unit", "chaos"} }, true},
		{"empty host is only a warning", func(c *Config) { c.API.Host = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}

func TestValidateHost(t *testing.T) {
	if err := validateHost("http://localhost:8000"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := validateHost("localhost"); err == nil {
		t.Error("expected error for host without scheme")
	}
}
