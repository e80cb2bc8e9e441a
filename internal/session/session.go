package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// HeaderName carries the session identifier on correlated requests.
const HeaderName = "X-Session-ID"

// Operation names an asynchronous action that may be in flight.
type Operation string

const (
	OpGenerate Operation = "generate"
	OpUpload   Operation = "upload"
	OpExport   Operation = "export"
)

// ErrInFlight is returned when an operation is already running.
var ErrInFlight = errors.New("operation already in progress")

// Session is the per-process identity plus the set of operations currently
// running.
type Session struct {
	id string

	mu       sync.Mutex
	inFlight map[Operation]struct{}
}

// New creates a session with a fresh random identifier.
func New() *Session {
	return &Session{
		id:       uuid.NewString(),
		inFlight: make(map[Operation]struct{}),
	}
}

// Resume restores a session from an identifier printed by an earlier run.
func Resume(id string) (*Session, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", id, err)
	}
	return &Session{
		id:       u.String(),
		inFlight: make(map[Operation]struct{}),
	}, nil
}

// ID returns the immutable session identifier.
func (s *Session) ID() string { return s.id }

// Begin marks op as running. The returned release func must be called
// exactly once when the operation finishes; extra calls are ignored.
func (s *Session) Begin(op Operation) (release func(), err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[op]; busy {
		return nil, fmt.Errorf("%s: %w", op, ErrInFlight)
	}
	s.inFlight[op] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.inFlight, op)
			s.mu.Unlock()
		})
	}, nil
}

// Busy reports whether op is running.
func (s *Session) Busy(op Operation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inFlight[op]
	return busy
}
