package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempStateDir is a temporary directory of state files for testing
type TempStateDir struct {
	Path string
	T    *testing.T
}

// NewTempStateDir creates a new empty temporary state directory
func NewTempStateDir(t *testing.T) *TempStateDir {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "capsule-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	return &TempStateDir{
		Path: tmpDir,
		T:    t,
	}
}

// Cleanup removes the temporary state directory
func (d *TempStateDir) Cleanup() {
	d.T.Helper()
	if err := os.RemoveAll(d.Path); err != nil {
		d.T.Errorf("failed to cleanup temp dir: %v", err)
	}
}

// WriteFile creates a file in the state directory
func (d *TempStateDir) WriteFile(name, content string) {
	d.T.Helper()
	path := filepath.Join(d.Path, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		d.T.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		d.T.Fatalf("failed to create file: %v", err)
	}
}

// ReadFile returns the content of a file in the state directory
func (d *TempStateDir) ReadFile(name string) string {
	d.T.Helper()
	data, err := os.ReadFile(filepath.Join(d.Path, name))
	if err != nil {
		d.T.Fatalf("failed to read file: %v", err)
	}
	return string(data)
}

// FileExists checks if a file exists in the state directory
func (d *TempStateDir) FileExists(name string) bool {
	d.T.Helper()
	_, err := os.Stat(filepath.Join(d.Path, name))
	return err == nil
}
