package adapters

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fundops_backend/internal/feature/reports/usecase"
)

// DiskStore keeps uploaded report files in a directory on local disk. File
// names are server-generated UUIDs, so collisions and path traversal are not
// a concern.
type DiskStore struct {
	dir string
}

// Compile-time check to ensure DiskStore implements FileStore.
var _ usecase.FileStore = (*DiskStore)(nil)

// NewDiskStore creates the directory if needed and returns a store rooted there.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save streams content into the store under name. It fails when name is
// already taken.
func (s *DiskStore) Save(name string, content io.Reader) error {
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	return f.Close()
}

// Open returns the stored file for reading.
func (s *DiskStore) Open(name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.dir, name))
}

// Remove deletes the stored file.
func (s *DiskStore) Remove(name string) error {
	return os.Remove(filepath.Join(s.dir, name))
}
