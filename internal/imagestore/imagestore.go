// Package imagestore manages the copies of user-supplied images that
// knowledge points reference. The engine never reads image bytes, it
// only shuttles paths in and out of this store.
package imagestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store copies images into one managed directory.
type Store struct {
	dir string
}

// New ensures the managed directory exists.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("imagestore: cannot create directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the managed directory.
func (s *Store) Dir() string {
	return s.dir
}

// CopyToStorage copies the source file into the managed directory under
// a generated collision-resistant name, keeping the extension. An empty
// source returns empty; on any failure the original path is returned so
// the record still points at a usable file.
func (s *Store) CopyToStorage(sourcePath string) string {
	if sourcePath == "" {
		return ""
	}

	info, err := os.Stat(sourcePath)
	if err != nil || info.IsDir() {
		return sourcePath
	}

	ext := filepath.Ext(sourcePath)
	if ext == "" {
		ext = ".png"
	}
	target := filepath.Join(s.dir, uuid.NewString()+ext)

	if err := copyFile(sourcePath, target); err != nil {
		return sourcePath
	}
	return target
}

// Owns reports whether path lives inside the managed directory.
// Only owned files are deleted when a point drops its image.
func (s *Store) Owns(path string) bool {
	if path == "" {
		return false
	}
	rel, err := filepath.Rel(s.dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Remove deletes the file, best effort. Missing files are not an error.
func (s *Store) Remove(path string) {
	if path == "" {
		return
	}
	os.Remove(path)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
