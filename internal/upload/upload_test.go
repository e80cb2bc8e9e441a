package upload

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ziadkadry99/testgen/internal/api"
	"github.com/ziadkadry99/testgen/internal/session"
)

type fakeSender struct {
	calls   int
	gotName string
	gotBody string
	resp    *api.UploadResponse
	err     error
	// block, when set, is waited on inside Upload.
	block chan struct{}
	began chan struct{}
}

func (f *fakeSender) Upload(ctx context.Context, filename string, r io.Reader) (*api.UploadResponse, error) {
	f.calls++
	f.gotName = filename
	data, _ := io.ReadAll(r)
	f.gotBody = string(data)
	if f.began != nil {
		close(f.began)
	}
	if f.block != nil {
		<-f.block
	}
	return f.resp, f.err
}

func writeFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want error
	}{
		{"spec.pdf", 1024, nil},
		{"SPEC.PDF", 1024, nil},
		{"notes.md", 0, nil},
		{"req.docx", MaxSize, nil},
		{"req.doc", 10, nil},
		{"req.txt", 10, nil},
		{"spec.exe", 1, ErrInvalidType},
		{"spec.exe", MaxSize * 2, ErrInvalidType},
		{"pdf", 1, ErrInvalidType},
		{"spec.pdf", 11 * 1024 * 1024, ErrTooLarge},
		{"spec.pdf", MaxSize + 1, ErrTooLarge},
		{"", 1, ErrNoFile},
	}
	for _, tt := range tests {
		if got := Validate(tt.name, tt.size); !errors.Is(got, tt.want) {
			t.Errorf("Validate(%q, %d) = %v, want %v", tt.name, tt.size, got, tt.want)
		}
	}
}

func TestSelect(t *testing.T) {
	path := writeFile(t, "requirements.md", 64)
	f, err := Select(path)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if f.Name != "requirements.md" || f.Size != 64 {
		t.Errorf("unexpected file %+v", f)
	}

	if _, err := Select(); !errors.Is(err, ErrNoFile) {
		t.Errorf("Select() = %v, want ErrNoFile", err)
	}
	if _, err := Select(path, path); err == nil {
		t.Error("expected error for two files")
	}
	if _, err := Select(writeFile(t, "tool.exe", 1)); !errors.Is(err, ErrInvalidType) {
		t.Errorf("expected ErrInvalidType, got %v", err)
	}
	if _, err := Select(t.TempDir()); err == nil {
		t.Error("expected error for directory")
	}
}

func TestUploadSuccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "login.txt")
	os.WriteFile(path, []byte("As a user I can log in."), 0644)
	f, err := Select(path)
	if err != nil {
		t.Fatal(err)
	}

	sender := &fakeSender{resp: &api.UploadResponse{DocID: "doc-42"}}
	u := NewUploader(sender, session.New(), nil)

	res, err := u.Upload(context.Background(), f)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.DocID != "doc-42" || res.FileName != "login.txt" {
		t.Errorf("unexpected result %+v", res)
	}
	if sender.gotBody != "As a user I can log in." {
		t.Errorf("body = %q", sender.gotBody)
	}
}

func TestUploadFailureIsNotRetried(t *testing.T) {
	f, _ := Select(writeFile(t, "a.md", 3))
	sender := &fakeSender{err: &api.Error{StatusCode: 500, StatusText: "Internal Server Error", Detail: "disk full"}}
	u := NewUploader(sender, session.New(), nil)

	_, err := u.Upload(context.Background(), f)
	if api.Message(err) != "disk full" {
		t.Errorf("message = %q", api.Message(err))
	}
	if sender.calls != 1 {
		t.Errorf("expected one attempt, got %d", sender.calls)
	}
}

func TestUploadRejectsConcurrent(t *testing.T) {
	f, _ := Select(writeFile(t, "a.md", 3))
	sender := &fakeSender{
		resp:  &api.UploadResponse{DocID: "doc-1"},
		block: make(chan struct{}),
		began: make(chan struct{}),
	}
	u := NewUploader(sender, session.New(), nil)

	done := make(chan error, 1)
	go func() {
		_, err := u.Upload(context.Background(), f)
		done <- err
	}()
	<-sender.began

	if _, err := u.Upload(context.Background(), f); !errors.Is(err, session.ErrInFlight) {
		t.Errorf("second upload error = %v, want ErrInFlight", err)
	}

	close(sender.block)
	if err := <-done; err != nil {
		t.Errorf("first upload: %v", err)
	}
}
