// Package filex reads local files picked for upload.
package filex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxUploadSize bounds files read by ReadUploadFile.
const MaxUploadSize = 8 << 20

var (
	ErrNoFile   = errors.New("no file selected")
	ErrEmpty    = errors.New("file is empty")
	ErrTooLarge = errors.New("file is too large")
)

// UploadFile is a file picked for upload, named by its base name.
type UploadFile struct {
	Name    string
	Content []byte
}

// ReadUploadFile reads path into memory. Directories, empty files and
// files over MaxUploadSize are rejected.
func ReadUploadFile(path string) (*UploadFile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrNoFile
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if fi.Size() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	if fi.Size() > MaxUploadSize {
		return nil, fmt.Errorf("%s: %w (%d bytes)", path, ErrTooLarge, fi.Size())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &UploadFile{Name: filepath.Base(path), Content: content}, nil
}
