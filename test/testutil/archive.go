package testutil

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// ZipBytes builds an in-memory zip archive holding files (name -> content).
// Entries are written in name order so the output is stable.
func ZipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to add %s to zip: %v", name, err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatalf("Failed to write %s to zip: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to finish zip: %v", err)
	}
	return buf.Bytes()
}

// WriteZip writes a zip archive holding files to path and returns path.
func WriteZip(t *testing.T, path string, files map[string]string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, ZipBytes(t, files), 0o644); err != nil {
		t.Fatalf("Failed to write zip %s: %v", path, err)
	}
	return path
}
