package capsule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const (
	// Magic positively identifies an artifact as a capsule. It rejects
	// arbitrary JSON files early with a clear error; it is not a
	// cryptographic guarantee.
	Magic = "capsule/agent-state/v1"

	// Version is the artifact schema version, stored for inspection only.
	Version = "1.0.0"
)

// State maps logical keys to the JSON payloads of their backing files.
// Values are decoded with json.Number so numeric literals survive the
// collect → digest → apply cycle byte-for-byte.
type State map[string]any

// Capsule is a single state snapshot: the collected state block plus
// metadata and an integrity checksum.
//
// The checksum covers the canonical form of State only. Magic, Version,
// CreatedAt and SourceRoot are not authenticated; an attacker holding the
// file can alter them undetected. Known weak boundary, kept as-is.
type Capsule struct {
	Magic      string  `json:"magic"`
	Version    string  `json:"version"`
	CreatedAt  float64 `json:"created_at"`
	SourceRoot string  `json:"source_root"`
	State      State   `json:"state"`
	Checksum   string  `json:"checksum"`
}

// Produce wraps a state block into a new Capsule stamped with the current
// wall-clock time. The supplied source root is informational only.
func Produce(state State, sourceRoot string) (*Capsule, error) {
	if state == nil {
		state = State{}
	}
	sum, err := Digest(state)
	if err != nil {
		return nil, fmt.Errorf("failed to digest state: %w", err)
	}
	return &Capsule{
		Magic:      Magic,
		Version:    Version,
		CreatedAt:  float64(time.Now().UnixNano()) / 1e9,
		SourceRoot: sourceRoot,
		State:      state,
		Checksum:   sum,
	}, nil
}

// Encode serializes the capsule as indented JSON for persistence.
func (c *Capsule) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode capsule: %w", err)
	}
	return buf.Bytes(), nil
}

// CreatedTime returns the creation timestamp as a time.Time in UTC.
func (c *Capsule) CreatedTime() time.Time {
	sec := int64(c.CreatedAt)
	nsec := int64((c.CreatedAt - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).UTC()
}
