package capsule

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors returned by Decode. All three are fatal: a capsule that
// fails validation must not be applied, even partially.
var (
	// ErrMalformed is returned when the artifact is not a JSON object
	// with the required fields in the required shapes.
	ErrMalformed = errors.New("malformed capsule artifact")

	// ErrIdentityMismatch is returned when the magic marker does not
	// match; the file is well-formed JSON but not a capsule.
	ErrIdentityMismatch = errors.New("not a capsule artifact")

	// ErrChecksumMismatch is returned when the embedded state does not
	// hash to the recorded checksum, signaling corruption or tampering.
	ErrChecksumMismatch = errors.New("capsule checksum mismatch")
)

// Decode parses and fully validates a serialized capsule. Validation is
// all-or-nothing: structure first, then the identity marker, then the
// checksum recomputed over the embedded state. Unknown top-level fields
// are tolerated so capsules from newer versions still open.
func Decode(data []byte) (*Capsule, error) {
	raw, err := decodeValue(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level is not a JSON object", ErrMalformed)
	}

	magic, err := stringField(doc, "magic")
	if err != nil {
		return nil, err
	}
	version, err := stringField(doc, "version")
	if err != nil {
		return nil, err
	}
	sourceRoot, err := stringField(doc, "source_root")
	if err != nil {
		return nil, err
	}
	checksum, err := stringField(doc, "checksum")
	if err != nil {
		return nil, err
	}

	createdRaw, ok := doc["created_at"]
	if !ok {
		return nil, fmt.Errorf("%w: missing field %q", ErrMalformed, "created_at")
	}
	createdNum, ok := createdRaw.(json.Number)
	if !ok {
		return nil, fmt.Errorf("%w: field %q is not a number", ErrMalformed, "created_at")
	}
	createdAt, err := createdNum.Float64()
	if err != nil {
		return nil, fmt.Errorf("%w: field %q: %v", ErrMalformed, "created_at", err)
	}

	stateRaw, ok := doc["state"]
	if !ok {
		return nil, fmt.Errorf("%w: missing field %q", ErrMalformed, "state")
	}
	stateMap, ok := stateRaw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: field %q is not an object", ErrMalformed, "state")
	}
	state := State(stateMap)

	if magic != Magic {
		return nil, fmt.Errorf("%w: magic %q", ErrIdentityMismatch, magic)
	}

	expected, err := Digest(state)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if expected != checksum {
		return nil, fmt.Errorf("%w: expected %s, found %s", ErrChecksumMismatch, expected, checksum)
	}

	return &Capsule{
		Magic:      magic,
		Version:    version,
		CreatedAt:  createdAt,
		SourceRoot: sourceRoot,
		State:      state,
		Checksum:   checksum,
	}, nil
}

func stringField(doc map[string]any, name string) (string, error) {
	raw, ok := doc[name]
	if !ok {
		return "", fmt.Errorf("%w: missing field %q", ErrMalformed, name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q is not a string", ErrMalformed, name)
	}
	return s, nil
}
