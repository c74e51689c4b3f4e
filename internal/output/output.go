package output

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileName is the name of the Markdown file written into each page directory
const FileName = "index.md"

// Status describes what Write did
type Status int

const (
	// Created means no file existed before
	Created Status = iota
	// Updated means an existing file was replaced with different content
	Updated
	// Unchanged means the file already held the same content
	Unchanged
)

func (s Status) String() string {
	switch s {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Unchanged:
		return "unchanged"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ComputeHash computes the SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// HashContent computes the SHA256 hash of content in the same form as
// ComputeHash
func HashContent(content []byte) string {
	return fmt.Sprintf("sha256:%x", sha256.Sum256(content))
}

// Path returns the Markdown file path for a page directory
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// HasChanged reports whether content differs from the file at path. A
// missing file counts as changed.
func HasChanged(path string, content []byte) (bool, error) {
	existing, err := ComputeHash(path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return existing != HashContent(content), nil
}

// Write stores content as dir/index.md, creating dir as needed. The file is
// left alone when it already holds the same bytes.
func Write(dir string, content []byte) (string, Status, error) {
	path := Path(dir)

	_, statErr := os.Stat(path)
	existed := statErr == nil

	changed, err := HasChanged(path, content)
	if err != nil {
		return path, Unchanged, err
	}
	if !changed {
		return path, Unchanged, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return path, Unchanged, fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return path, Unchanged, fmt.Errorf("failed to write %s: %w", FileName, err)
	}

	if existed {
		return path, Updated, nil
	}
	return path, Created, nil
}
