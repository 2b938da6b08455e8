package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidPath is returned for paths that resolve outside the store.
var ErrInvalidPath = errors.New("path outside document store")

// FileStore keeps documents under a root directory. Paths handed out are
// relative to that root.
type FileStore struct {
	root string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// PrescriptionPath is the stored location of a prescription's PDF.
func PrescriptionPath(prescriptionID string) string {
	return filepath.Join("prescriptions", "Prescription_"+prescriptionID+".pdf")
}

// Save writes data at rel, replacing any previous file.
func (s *FileStore) Save(rel string, data []byte) (string, error) {
	full, err := s.resolve(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create document directory: %w", err)
	}

	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}
	if err := os.Rename(tmp, full); err != nil {
		return "", fmt.Errorf("store document: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

// Open reads a stored document. A missing file reports os.ErrNotExist.
func (s *FileStore) Open(rel string) ([]byte, error) {
	full, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

func (s *FileStore) resolve(rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if rel == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, rel)
	}
	return filepath.Join(s.root, clean), nil
}
