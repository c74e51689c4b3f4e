package output

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "2024", "01", "hello")

	path, status, err := Write(dir, []byte("# one\n"))
	if err != nil {
		t.Fatalf("first Write() error: %v", err)
	}
	if status != Created {
		t.Errorf("first Write() status = %v, want created", status)
	}
	if path != filepath.Join(dir, "index.md") {
		t.Errorf("path = %q", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	mtime := info.ModTime()

	_, status, err = Write(dir, []byte("# one\n"))
	if err != nil {
		t.Fatalf("second Write() error: %v", err)
	}
	if status != Unchanged {
		t.Errorf("second Write() status = %v, want unchanged", status)
	}
	if info, _ := os.Stat(path); !info.ModTime().Equal(mtime) {
		t.Errorf("unchanged content should not touch the file")
	}

	_, status, err = Write(dir, []byte("# two\n"))
	if err != nil {
		t.Fatalf("third Write() error: %v", err)
	}
	if status != Updated {
		t.Errorf("third Write() status = %v, want updated", status)
	}
	if data, _ := os.ReadFile(path); string(data) != "# two\n" {
		t.Errorf("content = %q", data)
	}
}

func TestHashContentMatchesComputeHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.md")
	content := []byte("hello\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fromFile, err := ComputeHash(path)
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}
	if fromFile != HashContent(content) {
		t.Errorf("ComputeHash = %q, HashContent = %q", fromFile, HashContent(content))
	}
}

func TestHasChangedMissingFile(t *testing.T) {
	changed, err := HasChanged(filepath.Join(t.TempDir(), "nope.md"), []byte("x"))
	if err != nil {
		t.Fatalf("HasChanged() error: %v", err)
	}
	if !changed {
		t.Errorf("missing file should count as changed")
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{Created, "created"},
		{Updated, "updated"},
		{Unchanged, "unchanged"},
		{Status(9), "Status(9)"},
	}
	for _, tt := range tests {
		if actual := tt.status.String(); actual != tt.expected {
			t.Errorf("%d.String() = %q, want %q", int(tt.status), actual, tt.expected)
		}
	}
}
