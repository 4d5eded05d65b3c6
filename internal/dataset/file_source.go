package dataset

import (
	"context"
	"fmt"
	"os"

	"churnboard/adapters/excel"
	"churnboard/domain/customer"
	"churnboard/internal/errors"
)

// FileSource reads the dataset from a CSV or XLSX file.
type FileSource struct {
	path string
}

// NewFileSource creates a source for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Location returns the file path.
func (s *FileSource) Location() string {
	return s.path
}

// Fingerprint combines size and modification time.
func (s *FileSource) Fingerprint(ctx context.Context) (string, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return "", errors.FileAccess(s.path, err)
	}
	if info.IsDir() {
		return "", errors.FileAccess(s.path, fmt.Errorf("is a directory"))
	}
	return fmt.Sprintf("%d-%d", info.Size(), info.ModTime().UnixNano()), nil
}

// ReadTable reads and parses the whole file.
func (s *FileSource) ReadTable(ctx context.Context) (*customer.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := excel.NewDataReader(s.path).ReadData()
	if err != nil {
		return nil, err
	}
	return BuildTable(s.path, data)
}
