// Package tempstore stages uploaded files on disk between the multipart
// parser and the image transcoder. Files are uniquely named, capped in size,
// and always removed once the request that created them reaches a terminal
// state.
package tempstore

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/sahanr/community-backend/internal/apperr"
)

// MaxUploadSize is the per-file cap, enforced byte-exactly during the copy.
const MaxUploadSize = 5 << 20 // 5 MiB

// sniffLen matches the number of leading bytes mimetype inspects.
const sniffLen = 3072

type Store struct {
	fs      afero.Fs
	dir     string
	maxSize int64
	logger  *slog.Logger
}

// New creates the upload directory if needed. The directory is injected
// here rather than read from a global so tests and deployments can point it
// anywhere.
func New(fs afero.Fs, dir string, logger *slog.Logger) (*Store, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &Store{fs: fs, dir: dir, maxSize: MaxUploadSize, logger: logger}, nil
}

// Materialize writes one uploaded payload to a unique path under the upload
// directory and returns the path together with the content type sniffed from
// the leading bytes. A payload over MaxUploadSize is rejected with
// ErrFileTooLarge and leaves nothing on disk.
func (s *Store) Materialize(field, filename string, r io.Reader) (string, string, error) {
	name := fmt.Sprintf("%s-%d-%s%s",
		sanitizeField(field),
		time.Now().UnixNano(),
		uuid.NewString()[:8],
		strings.ToLower(filepath.Ext(filename)),
	)
	path := filepath.Join(s.dir, name)

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", "", fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]
	mime := mimetype.Detect(head).String()

	f, err := s.fs.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	written := int64(0)
	if _, err := f.Write(head); err != nil {
		s.discard(f, path)
		return "", "", fmt.Errorf("failed to write temporary file: %w", err)
	}
	written += int64(len(head))

	// Copy at most one byte past the cap so an oversized payload is
	// detectable without buffering it whole.
	m, err := io.Copy(f, io.LimitReader(r, s.maxSize-written+1))
	if err != nil {
		s.discard(f, path)
		return "", "", fmt.Errorf("failed to write temporary file: %w", err)
	}
	written += m

	if written > s.maxSize {
		s.discard(f, path)
		return "", "", apperr.ErrFileTooLarge
	}

	if err := f.Close(); err != nil {
		s.Dispose(path)
		return "", "", fmt.Errorf("failed to close temporary file: %w", err)
	}
	return path, mime, nil
}

// Dispose removes a materialized file. It is idempotent: a path that no
// longer exists is a no-op. Removal failures are logged and never returned,
// so cleanup can never mask the outcome of the request that triggered it.
func (s *Store) Dispose(path string) {
	if path == "" {
		return
	}
	if err := s.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove temporary file", "path", path, "error", err)
	}
}

func (s *Store) discard(f afero.File, path string) {
	if err := f.Close(); err != nil {
		s.logger.Warn("failed to close temporary file", "path", path, "error", err)
	}
	s.Dispose(path)
}

func sanitizeField(field string) string {
	if field == "" {
		return "upload"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, field)
}
