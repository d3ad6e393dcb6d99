package capsule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pders01/capsule/internal/registry"
)

// Warning reports a per-key failure during collection or application.
// Warnings are non-fatal: the operation that produced them continued with
// the remaining keys.
type Warning struct {
	Key  string
	Path string
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s (%s): %v", w.Key, w.Path, w.Err)
}

// Collect reads every registry-backed file present under root and returns
// the parsed payloads keyed by logical name. Missing files are silently
// omitted; files that exist but cannot be read or parsed are omitted with
// a warning. Collect never fails as a whole and never touches the
// filesystem beyond reads.
func Collect(reg registry.Registry, root string) (State, []Warning) {
	state := State{}
	var warnings []Warning
	for key, rel := range reg {
		path := filepath.Join(root, rel)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			warnings = append(warnings, Warning{Key: key, Path: path, Err: err})
			continue
		}
		value, err := decodeValue(data)
		if err != nil {
			warnings = append(warnings, Warning{Key: key, Path: path, Err: fmt.Errorf("invalid JSON: %w", err)})
			continue
		}
		state[key] = value
	}
	return state, warnings
}

// decodeValue parses a single JSON document, keeping numbers as
// json.Number and rejecting trailing content after the document.
func decodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON document")
	}
	// Decode stops at the document end; anything but EOF here is junk
	// such as a second document or stray characters.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON document")
	}
	return value, nil
}
