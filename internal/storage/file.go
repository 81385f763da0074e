package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// FileProvider reads blobs from the local filesystem.
type FileProvider struct{}

var _ Provider = FileProvider{}

// Fetch reads the file at uri, which is a bare path or a file:// URI.
func (FileProvider) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := LocalPath(uri)
	//nolint:gosec // G304: model path is operator supplied
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return readAll(file)
}

// LocalPath returns the filesystem path for a file:// URI or bare path.
func LocalPath(uri string) string {
	return filepath.Clean(strings.TrimPrefix(uri, string(File)))
}

// FileExists reports whether filename names an existing regular file.
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
