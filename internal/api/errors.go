package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Error is a non-2xx response from the backend.
type Error struct {
	StatusCode int
	// StatusText is the reason phrase, e.g. "Not Found".
	StatusText string
	// Detail is the server-supplied "detail" field, if any.
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.StatusText != "" {
		return e.StatusText
	}
	return http.StatusText(e.StatusCode)
}

func newError(status int, body []byte) *Error {
	return &Error{
		StatusCode: status,
		StatusText: http.StatusText(status),
		Detail:     detailFrom(body),
	}
}

// detailFrom reads a FastAPI-style {"detail": ...} body. String details are
// returned as is; structured ones are returned as compact JSON.
func detailFrom(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}
	if string(envelope.Detail) == "null" {
		return ""
	}
	return strings.TrimSpace(string(envelope.Detail))
}

// Message returns the user-facing text for err: the server detail or status
// text for backend errors, the error string otherwise.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}
