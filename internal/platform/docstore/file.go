package docstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileStore keeps every document in its own file. Relative names resolve
// against dir.
type FileStore struct {
	fs  afero.Fs
	dir string
}

// NewFileStore returns a FileStore rooted at dir on the given filesystem.
func NewFileStore(fsys afero.Fs, dir string) *FileStore {
	if dir == "" {
		dir = "."
	}
	return &FileStore{fs: fsys, dir: dir}
}

// NewOSFileStore returns a FileStore on the host filesystem.
func NewOSFileStore(dir string) *FileStore {
	return NewFileStore(afero.NewOsFs(), dir)
}

func (s *FileStore) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

func (s *FileStore) Read(_ context.Context, name string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return nil, &Error{Op: "read", Name: name, Err: err}
	}
	return data, nil
}

// Write stores data in a temporary file next to the target and renames it
// into place, so readers see either the old or the new document.
func (s *FileStore) Write(_ context.Context, name string, data []byte) error {
	target := s.path(name)
	tmp, err := afero.TempFile(s.fs, filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return &Error{Op: "write", Name: name, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return &Error{Op: "write", Name: name, Err: err}
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return &Error{Op: "write", Name: name, Err: err}
	}
	if err := s.fs.Rename(tmpName, target); err != nil {
		s.fs.Remove(tmpName)
		return &Error{Op: "write", Name: name, Err: err}
	}
	return nil
}

// Ping checks that the store directory is reachable.
func (s *FileStore) Ping(_ context.Context) error {
	info, err := s.fs.Stat(s.dir)
	if err != nil {
		return &Error{Op: "ping", Name: s.dir, Err: err}
	}
	if !info.IsDir() {
		return &Error{Op: "ping", Name: s.dir, Err: errors.New("not a directory")}
	}
	return nil
}
