package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"regexp"
	"time"

	"github.com/ziadkadry99/testgen/internal/config"
	"github.com/ziadkadry99/testgen/internal/logging"
	"github.com/ziadkadry99/testgen/internal/session"
)

// DefaultSpreadsheetName is used when the export response names no file.
const DefaultSpreadsheetName = "test-cases.xlsx"

// Client talks to the test-case generation service.
type Client struct {
	endpoints  config.Endpoints
	httpClient *http.Client
	sessionID  string
	logger     logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithSessionID attaches id as X-Session-ID on statistics and test-case
// requests.
func WithSessionID(id string) Option {
	return func(c *Client) { c.sessionID = id }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the given endpoints. timeout bounds every
// request; zero means no timeout.
func NewClient(endpoints config.Endpoints, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		endpoints:  endpoints,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoints returns the endpoint table the client was built with.
func (c *Client) Endpoints() config.Endpoints { return c.endpoints }

// Health checks that the backend is reachable.
func (c *Client) Health(ctx context.Context) error {
	_, _, err := c.do(ctx, http.MethodGet, config.EndpointHealth, nil, "", false)
	return err
}

// ListModels fetches the grouped model catalog.
func (c *Client) ListModels(ctx context.Context) (Catalog, error) {
	_, body, err := c.do(ctx, http.MethodGet, config.EndpointModels, nil, "", false)
	if err != nil {
		return nil, err
	}
	var catalog Catalog
	if err := json.Unmarshal(body, &catalog); err != nil {
		return nil, fmt.Errorf("decode model catalog: %w", err)
	}
	return catalog, nil
}

// Upload sends a requirements document as multipart form data.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*UploadResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finish multipart body: %w", err)
	}

	_, body, err := c.do(ctx, http.MethodPost, config.EndpointUpload, &buf, w.FormDataContentType(), false)
	if err != nil {
		return nil, err
	}

	var result UploadResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if result.DocID == "" {
		return nil, fmt.Errorf("upload response has no doc_id")
	}
	return &result, nil
}

// Generate submits a generation request and returns the raw result.
func (c *Client) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	_, body, err := c.do(ctx, http.MethodPost, config.EndpointGenerate, bytes.NewReader(payload), "application/json", false)
	if err != nil {
		return nil, err
	}

	var summary struct {
		Count     *int              `json:"count"`
		TestCases []json.RawMessage `json:"test_cases"`
	}
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("decode generate response: %w", err)
	}

	result := &GenerateResult{Raw: json.RawMessage(body), Count: len(summary.TestCases)}
	if summary.Count != nil {
		result.Count = *summary.Count
	}
	return result, nil
}

// ListTestCases fetches the stored test cases as raw JSON.
func (c *Client) ListTestCases(ctx context.Context) (json.RawMessage, error) {
	_, body, err := c.do(ctx, http.MethodGet, config.EndpointTestCases, nil, "", true)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("decode test cases: response is not JSON")
	}
	return json.RawMessage(body), nil
}

// Statistics fetches the usage summary.
func (c *Client) Statistics(ctx context.Context) (*Statistics, error) {
	_, body, err := c.do(ctx, http.MethodGet, config.EndpointStatistics, nil, "", true)
	if err != nil {
		return nil, err
	}
	var stats Statistics
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("decode statistics: %w", err)
	}
	return &stats, nil
}

// ExportSpreadsheet downloads the server-rendered spreadsheet.
func (c *Client) ExportSpreadsheet(ctx context.Context) (*Spreadsheet, error) {
	resp, body, err := c.do(ctx, http.MethodGet, config.EndpointExport, nil, "", false)
	if err != nil {
		return nil, err
	}
	return &Spreadsheet{
		Filename: FilenameFromDisposition(resp.Header.Get("Content-Disposition"), DefaultSpreadsheetName),
		Data:     body,
	}, nil
}

// do issues a request and reads the whole body. Non-2xx responses are
// returned as *Error.
func (c *Client) do(ctx context.Context, method string, endpoint config.Endpoint, body io.Reader, contentType string, withSession bool) (*http.Response, []byte, error) {
	url := c.endpoints.URL(endpoint)

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s request: %w", endpoint, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if withSession && c.sessionID != "" {
		req.Header.Set(session.HeaderName, c.sessionID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api", "request failed", map[string]interface{}{
			"method": method,
			"url":    url,
			"error":  err.Error(),
		})
		return nil, nil, fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}

	c.logger.Debug("api", "request finished", map[string]interface{}{
		"method":   method,
		"url":      url,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, respBody, newError(resp.StatusCode, respBody)
	}
	return resp, respBody, nil
}

var dispositionFilename = regexp.MustCompile(`filename="?([^";]+)"?`)

// FilenameFromDisposition extracts the suggested filename from a
// Content-Disposition header, or returns fallback.
func FilenameFromDisposition(header, fallback string) string {
	if header == "" {
		return fallback
	}
	if _, params, err := mime.ParseMediaType(header); err == nil {
		if name := params["filename"]; name != "" {
			return name
		}
	}
	if m := dispositionFilename.FindStringSubmatch(header); m != nil {
		return m[1]
	}
	return fallback
}
