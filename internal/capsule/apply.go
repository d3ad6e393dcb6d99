package capsule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pders01/capsule/internal/registry"
)

// Apply rewrites registry-backed files under targetRoot from the capsule's
// state block and returns the number of files written.
//
// State keys without a registry entry are skipped with a warning (the
// capsule may come from a newer registry). Registry keys absent from the
// state leave their target files untouched: apply overwrites, it never
// deletes. Per-key write failures warn and continue; there is no rollback,
// so a crash mid-apply leaves a partially restored directory.
func Apply(c *Capsule, reg registry.Registry, targetRoot string) (int, []Warning) {
	applied := 0
	var warnings []Warning
	for key, value := range c.State {
		rel, ok := reg[key]
		if !ok {
			warnings = append(warnings, Warning{Key: key, Err: fmt.Errorf("unknown key in capsule, skipping")})
			continue
		}
		path := filepath.Join(targetRoot, rel)
		if err := writeValue(path, value); err != nil {
			warnings = append(warnings, Warning{Key: key, Path: path, Err: err})
			continue
		}
		applied++
	}
	return applied, warnings
}

// writeValue persists a JSON payload, creating parent directories as
// needed and truncating any existing file.
func writeValue(path string, value any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
