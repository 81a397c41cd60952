// Package blob stages uploaded file bytes for the lifetime of the process.
// Staged files live in a private directory that Close removes; references to
// them are meaningless after a restart.
package blob

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// sniffLen is how many leading bytes content detection looks at.
const sniffLen = 512

var ErrClosed = errors.New("stager closed")

// Handle is a staged upload. It implements models.Upload.
type Handle struct {
	name        string
	size        int64
	path        string
	contentType string
}

func (h *Handle) Name() string        { return h.name }
func (h *Handle) Size() int64         { return h.size }
func (h *Handle) Ref() string         { return h.path }
func (h *Handle) ContentType() string { return h.contentType }

// Stager copies files into a process-private directory.
type Stager struct {
	mu     sync.Mutex
	dir    string
	closed bool
}

// NewStager creates a staging directory under parent, or under the OS temp
// dir when parent is empty.
func NewStager(parent string) (*Stager, error) {
	if parent != "" {
		if err := os.MkdirAll(parent, 0o700); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", parent, err)
		}
	}
	dir, err := os.MkdirTemp(parent, "datashare-blobs-")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging dir: %w", err)
	}
	return &Stager{dir: dir}, nil
}

// Dir returns the staging directory.
func (s *Stager) Dir() string {
	return s.dir
}

// Stage copies the file at path into the staging directory.
func (s *Stager) Stage(path string) (*Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	return s.StageReader(filepath.Base(path), f)
}

// StageReader copies r into the staging directory under a fresh name and
// remembers name as the original file name.
func (s *Stager) StageReader(name string, r io.Reader) (*Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	dst := filepath.Join(s.dir, uuid.NewString()+filepath.Ext(name))
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create staged file: %w", err)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		_ = out.Close()
		_ = os.Remove(dst)
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	written, err := io.Copy(out, io.MultiReader(bytes.NewReader(head), r))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}

	return &Handle{
		name:        name,
		size:        written,
		path:        dst,
		contentType: http.DetectContentType(head),
	}, nil
}

// Discard removes a staged file. Unknown or already removed handles are
// ignored.
func (s *Stager) Discard(h *Handle) error {
	if h == nil {
		return nil
	}
	if err := os.Remove(h.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Close removes the staging directory and everything in it.
func (s *Stager) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return os.RemoveAll(s.dir)
}
