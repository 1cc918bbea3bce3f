package out

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	listmodeout "crawlprep/internal/modules/listmode/port/out"
)

type LocalFileOpener struct{}

func NewLocalFileOpener() listmodeout.FileOpener {
	return LocalFileOpener{}
}

// Open returns the base name used as the upload's file name and the content.
func (LocalFileOpener) Open(_ context.Context, path string) (string, io.ReadCloser, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", nil, fmt.Errorf("stat upload file: %w", err)
	}
	if info.IsDir() {
		return "", nil, fmt.Errorf("upload path %s is a directory", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open upload file: %w", err)
	}
	return filepath.Base(path), f, nil
}
