package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Uploads stores completed training documents under a base directory.
type Uploads struct {
	basePath string
}

func NewUploads(basePath string) (*Uploads, error) {
	if basePath == "" {
		basePath = "data/documentoscompletos"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Uploads{basePath: basePath}, nil
}

// Save writes the upload under a uuid-suffixed name derived from the
// original filename and returns the stored name.
func (u *Uploads) Save(originalName string, data io.Reader) (string, error) {
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(filepath.Base(originalName), ext)
	if base == "" {
		base = "archivo"
	}
	stored := fmt.Sprintf("%s-%s%s", base, uuid.NewString(), ext)

	f, err := os.Create(filepath.Join(u.basePath, stored))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return stored, nil
}

// Path resolves a stored name back to its location on disk.
func (u *Uploads) Path(stored string) string {
	return filepath.Join(u.basePath, filepath.Base(stored))
}
