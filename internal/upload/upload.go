package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ziadkadry99/testgen/internal/api"
	"github.com/ziadkadry99/testgen/internal/logging"
	"github.com/ziadkadry99/testgen/internal/session"
)

// MaxSize is the largest document accepted for upload (10 MiB).
const MaxSize = 10 * 1024 * 1024

// AllowedExtensions lists accepted document types, without the dot.
var AllowedExtensions = []string{"txt", "md", "doc", "docx", "pdf"}

// Validation failures. Their messages are shown to the user verbatim.
var (
	ErrNoFile      = errors.New("Please select a file.")
	ErrInvalidType = errors.New("Please upload a valid file type (.txt, .md, .doc, .docx, .pdf)")
	ErrTooLarge    = errors.New("File size must be less than 10MB")
)

// Validate checks a candidate file by name and size without reading it.
func Validate(name string, size int64) error {
	if name == "" {
		return ErrNoFile
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	allowed := false
	for _, a := range AllowedExtensions {
		if ext == a {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrInvalidType
	}
	if size > MaxSize {
		return ErrTooLarge
	}
	return nil
}

// File is a validated document selected for upload.
type File struct {
	Path string
	Name string
	Size int64
}

// Select stats the file at path and validates it. Exactly one path is
// accepted.
func Select(paths ...string) (*File, error) {
	if len(paths) == 0 || paths[0] == "" {
		return nil, ErrNoFile
	}
	if len(paths) > 1 {
		return nil, fmt.Errorf("select a single file, got %d", len(paths))
	}
	path := paths[0]

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("accessing %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	f := &File{Path: path, Name: filepath.Base(path), Size: info.Size()}
	if err := Validate(f.Name, f.Size); err != nil {
		return nil, err
	}
	return f, nil
}

// Sender is the part of the API client used for uploads.
type Sender interface {
	Upload(ctx context.Context, filename string, r io.Reader) (*api.UploadResponse, error)
}

// Result describes a successful upload.
type Result struct {
	DocID    string
	FileName string
}

// Uploader sends documents one at a time per session.
type Uploader struct {
	sender  Sender
	session *session.Session
	logger  logging.Logger
}

// NewUploader creates an Uploader.
func NewUploader(sender Sender, sess *session.Session, logger logging.Logger) *Uploader {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Uploader{sender: sender, session: sess, logger: logger}
}

// Upload sends f. A second call while one is in flight fails with
// session.ErrInFlight. Nothing is retried.
func (u *Uploader) Upload(ctx context.Context, f *File) (*Result, error) {
	release, err := u.session.Begin(session.OpUpload)
	if err != nil {
		return nil, err
	}
	defer release()

	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Path, err)
	}
	defer fh.Close()

	resp, err := u.sender.Upload(ctx, f.Name, fh)
	if err != nil {
		u.logger.Warn("upload", "upload failed", map[string]interface{}{
			"file":  f.Name,
			"error": err.Error(),
		})
		return nil, err
	}

	u.logger.Info("upload", "document uploaded", map[string]interface{}{
		"file":   f.Name,
		"doc_id": resp.DocID,
	})
	return &Result{DocID: resp.DocID, FileName: f.Name}, nil
}
