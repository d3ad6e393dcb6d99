package capsule

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Canonical serializes a JSON-compatible value to its canonical byte form:
// compact, map keys sorted at every nesting level, no HTML escaping.
// Identical logical content always yields identical bytes, which is what
// makes the digest deterministic.
func Canonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Encode appends a newline; the canonical form has none.
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Digest computes the hex-encoded SHA-256 checksum of the canonical form
// of a state block. Pure: in-memory key insertion order never affects the
// result, and nil state digests the same as an empty one.
func Digest(state State) (string, error) {
	if state == nil {
		state = State{}
	}
	canonical, err := Canonical(state)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize state: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
