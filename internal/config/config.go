package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DotEnvFile is loaded into the process environment before env overrides
// are read. Variables already set in the environment win.
var DotEnvFile = ".env"

// envSections are the nested config sections addressable from env vars.
var envSections = []string{"api_", "app_", "defaults_"}

// envIntKeys are the numeric settings; env values that do not parse are
// treated as unset.
var envIntKeys = map[string]bool{
	"api.timeout":    true,
	"defaults.count": true,
	"defaults.top_k": true,
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (VITE_* for compatibility with the web
// build, then TESTGEN_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}

	var warnings []string
	for _, prefix := range []string{"VITE_", "TESTGEN_"} {
		if err := k.Load(env.ProviderWithValue(prefix, ".", envValue(prefix, &warnings)), nil); err != nil {
			return nil, fmt.Errorf("loading %s env overrides: %w", prefix, err)
		}
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.loadWarnings = warnings

	return cfg, nil
}

// envValue maps an environment variable to its config key. Empty values
// are skipped, as are numeric settings that do not parse; the latter are
// recorded in warnings.
func envValue(prefix string, warnings *[]string) func(string, string) (string, interface{}) {
	keyFn := envKey(prefix)
	return func(name, value string) (string, interface{}) {
		value = strings.TrimSpace(value)
		if value == "" {
			return "", nil
		}
		key := keyFn(name)
		if envIntKeys[key] {
			n, err := strconv.Atoi(value)
			if err != nil {
				*warnings = append(*warnings, fmt.Sprintf("%s=%q is not a number; ignoring it", name, value))
				return "", nil
			}
			return key, n
		}
		return key, value
	}
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("accessing %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// envKey maps TESTGEN_API_HOST -> api.host, TESTGEN_DEFAULTS_TOP_K ->
// defaults.top_k and TESTGEN_LOG_FILE -> log_file.
func envKey(prefix string) func(string) string {
	return func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, prefix))
		for _, section := range envSections {
			if strings.HasPrefix(key, section) {
				return strings.TrimSuffix(section, "_") + "." + strings.TrimPrefix(key, section)
			}
		}
		return key
	}
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must be non-negative")
	}

	if c.Defaults.Count <= 0 {
		return fmt.Errorf("defaults.count must be positive")
	}

	if c.Defaults.TopK <= 0 {
		return fmt.Errorf("defaults.top_k must be positive")
	}

	if c.Defaults.FormFactor != "" && !IsKnownFormFactor(c.Defaults.FormFactor) {
		return fmt.Errorf("invalid defaults.form_factor %q: must be one of web, mobile, desktop, api", c.Defaults.FormFactor)
	}

	for _, level := range c.Defaults.TestLevels {
		if !IsKnownTestLevel(level) {
			return fmt.Errorf("invalid test level %q in defaults.test_levels", level)
		}
	}

	return nil
}

// Warnings reports non-fatal configuration problems.
func (c *Config) Warnings() []string {
	warnings := append([]string(nil), c.loadWarnings...)
	if c.API.Host == "" {
		warnings = append(warnings, "API host is not set; set TESTGEN_API_HOST or api.host in the config file")
	}
	return warnings
}

// IsKnownTestLevel reports whether level is one of KnownTestLevels.
func IsKnownTestLevel(level string) bool {
	for _, l := range KnownTestLevels {
		if l == level {
			return true
		}
	}
	return false
}

// IsKnownFormFactor reports whether f is one of KnownFormFactors.
func IsKnownFormFactor(f FormFactor) bool {
	for _, known := range KnownFormFactors {
		if known == f {
			return true
		}
	}
	return false
}
