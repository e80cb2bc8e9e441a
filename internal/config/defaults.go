package config

import (
	"strings"
	"time"
)

const (
	DefaultHost      = "http://localhost:8000"
	DefaultTimeoutMS = 30000
	DefaultAppName   = "TestGen"
	DefaultVersion   = "0.2.0"
	DefaultCount     = 40
	DefaultTopK      = 12
)

// KnownTestLevels lists every test level in display order.
var KnownTestLevels = []string{
	LevelUnit,
	LevelIntegration,
	LevelSystem,
	LevelAcceptance,
	LevelRegression,
	LevelPerformance,
	LevelSecurity,
	LevelUsability,
}

// KnownFormFactors lists the accepted form factors in display order.
var KnownFormFactors = []FormFactor{
	FormFactorWeb,
	FormFactorMobile,
	FormFactorDesktop,
	FormFactorAPI,
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Host:    DefaultHost,
			Timeout: DefaultTimeoutMS,
		},
		App: AppConfig{
			Name:    DefaultAppName,
			Version: DefaultVersion,
		},
		Defaults: FormDefaults{
			FormFactor: FormFactorWeb,
			Count:      DefaultCount,
			TopK:       DefaultTopK,
		},
	}
}

// Endpoint names a backend operation.
type Endpoint string

const (
	EndpointHealth     Endpoint = "health"
	EndpointModels     Endpoint = "models"
	EndpointUpload     Endpoint = "upload"
	EndpointGenerate   Endpoint = "generate"
	EndpointTestCases  Endpoint = "testcases"
	EndpointStatistics Endpoint = "statistics"
	EndpointExport     Endpoint = "export"
)

var endpointPaths = map[Endpoint]string{
	EndpointHealth:     "/healthz",
	EndpointModels:     "/llm-models",
	EndpointUpload:     "/upload",
	EndpointGenerate:   "/generate",
	EndpointTestCases:  "/testcases",
	EndpointStatistics: "/statistics",
	EndpointExport:     "/export/excel",
}

// Endpoints maps each backend operation to its full URL. The zero value
// resolves every endpoint to its bare path.
type Endpoints struct {
	host string
	urls map[Endpoint]string
}

// NewEndpoints derives the endpoint table for host.
func NewEndpoints(host string) Endpoints {
	host = strings.TrimRight(host, "/")
	urls := make(map[Endpoint]string, len(endpointPaths))
	for name, path := range endpointPaths {
		urls[name] = host + path
	}
	return Endpoints{host: host, urls: urls}
}

// Host returns the base address the table was built from.
func (e Endpoints) Host() string { return e.host }

// URL returns the full URL for name.
func (e Endpoints) URL(name Endpoint) string {
	if u, ok := e.urls[name]; ok {
		return u
	}
	return e.host + endpointPaths[name]
}

// Endpoints returns the endpoint table derived from the configured host.
func (c *Config) Endpoints() Endpoints {
	return NewEndpoints(c.API.Host)
}

// RequestTimeout converts the configured timeout to a duration.
func (c *Config) RequestTimeout() time.Duration {
	if c.API.Timeout <= 0 {
		return 0
	}
	return time.Duration(c.API.Timeout) * time.Millisecond
}

// InitialLevels returns the test levels the form starts with.
func (c *Config) InitialLevels() []string {
	if len(c.Defaults.TestLevels) == 0 {
		return append([]string(nil), KnownTestLevels...)
	}
	return append([]string(nil), c.Defaults.TestLevels...)
}
