package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store ingests uploaded audio and hands it back for transcription.
// Save returns an opaque storage reference (a filesystem path or an object
// key) that Open accepts later. Save never retries: a write failure is fatal
// to the upload.
type Store interface {
	Save(ctx context.Context, r io.Reader, originalFilename, contentType string) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

// generatedName returns a random 128-bit hex name carrying the original
// file's extension. An original name without an extension yields a bare hex
// name.
func generatedName(originalFilename string) string {
	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	if ext := filepath.Ext(originalFilename); ext != "" {
		name += ext
	}
	return name
}

// LocalStore writes uploads to a directory on local (or shared) disk.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the upload directory if needed and returns a store
// rooted there.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(ctx context.Context, r io.Reader, originalFilename, contentType string) (string, error) {
	path := filepath.Join(s.dir, generatedName(originalFilename))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return path, nil
}

func (s *LocalStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	return os.Open(ref)
}
