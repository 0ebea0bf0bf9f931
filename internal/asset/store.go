// Package asset stores uploaded binary files (cover images) under a root
// directory with validated extensions and collision-resistant names.
package asset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidFile is the sentinel wrapped by every input-validation failure:
// empty payload, missing extension, disallowed extension, or an unsafe path.
var ErrInvalidFile = errors.New("invalid file")

var labelSanitizer = regexp.MustCompile(`[^A-Za-z0-9]`)

// Store persists files under a single root directory. It holds no mutable
// state; concurrent use is safe because generated names never collide in
// practice (random suffix) and a collision falls back to overwrite.
type Store struct {
	root        string
	allowedExts map[string]bool
}

// NewStore creates the root directory (recursively) if absent and returns a
// store restricted to the given extensions (matched case-insensitively,
// without dots). A root that cannot be created is a configuration error and
// should be fatal at startup.
func NewStore(root string, allowedExts []string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving upload root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload root %s: %w", abs, err)
	}
	exts := make(map[string]bool, len(allowedExts))
	for _, e := range allowedExts {
		exts[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))] = true
	}
	return &Store{root: abs, allowedExts: exts}, nil
}

// Root returns the absolute root directory of the store.
func (s *Store) Root() string {
	return s.root
}

// Save validates and writes the file, returning the generated filename (never
// a path). The name is sanitize(ownerLabel) + "_" + 8 random hex chars + the
// original extension, so it is filesystem- and URL-safe for any owner label.
// A name collision overwrites, which the random suffix makes vanishingly
// unlikely.
func (s *Store) Save(data []byte, originalFilename, ownerLabel string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrInvalidFile)
	}
	ext := strings.TrimPrefix(filepath.Ext(originalFilename), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: filename %q has no extension", ErrInvalidFile, originalFilename)
	}
	if !s.allowedExts[strings.ToLower(ext)] {
		return "", fmt.Errorf("%w: extension %q is not allowed", ErrInvalidFile, ext)
	}

	filename := fmt.Sprintf("%s_%s.%s", sanitizeLabel(ownerLabel), uuid.NewString()[:8], ext)
	if err := os.WriteFile(filepath.Join(s.root, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", filename, err)
	}
	return filename, nil
}

// Load resolves filename against the root and returns the absolute path.
// Names whose normalized path would escape the root (".." segments, absolute
// paths) are rejected. Existence is not checked; callers stat or open the
// returned path themselves.
func (s *Store) Load(filename string) (string, error) {
	return s.resolve(filename)
}

// Delete removes the file if present. A missing file is not an error.
func (s *Store) Delete(filename string) error {
	path, err := s.resolve(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting file %s: %w", filename, err)
	}
	return nil
}

func (s *Store) resolve(filename string) (string, error) {
	path := filepath.Join(s.root, filename)
	// filepath.Join cleans the result, so a ".." in filename can only show up
	// as a path at or outside the root itself.
	if !strings.HasPrefix(path, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: path %q escapes the upload root", ErrInvalidFile, filename)
	}
	return path, nil
}

func sanitizeLabel(label string) string {
	return labelSanitizer.ReplaceAllString(label, "_")
}
