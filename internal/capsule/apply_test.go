package capsule

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/pders01/capsule/internal/registry"
	"github.com/pders01/capsule/internal/testutil"
)

func TestApplyWritesRegistryKeys(t *testing.T) {
	dir := testutil.NewTempStateDir(t)
	defer dir.Cleanup()

	reg := registry.Registry{"a": "a.json", "b": "b.json"}
	c := mustProduce(t, State{"a": map[string]any{"x": json.Number("1")}})

	applied, warnings := Apply(c, reg, dir.Path)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if applied != 1 {
		t.Errorf("expected 1 applied, got %d", applied)
	}

	if !dir.FileExists("a.json") {
		t.Error("a.json not written")
	}
	if dir.FileExists("b.json") {
		t.Error("b.json must not be created for a key absent from the capsule")
	}
}

func TestApplyNonDestructive(t *testing.T) {
	dir := testutil.NewTempStateDir(t)
	defer dir.Cleanup()

	reg := registry.Registry{"a": "a.json", "b": "b.json"}
	dir.WriteFile("b.json", `{"keep":"me"}`)

	c := mustProduce(t, State{"a": map[string]any{"x": json.Number("1")}})
	if _, warnings := Apply(c, reg, dir.Path); len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	if dir.ReadFile("b.json") != `{"keep":"me"}` {
		t.Error("apply touched a file its capsule does not mention")
	}
}

func TestApplyWarnsOnUnknownKey(t *testing.T) {
	dir := testutil.NewTempStateDir(t)
	defer dir.Cleanup()

	reg := registry.Registry{"a": "a.json"}
	c := mustProduce(t, State{
		"a":          map[string]any{"x": json.Number("1")},
		"newfangled": "from a newer registry",
	})

	applied, warnings := Apply(c, reg, dir.Path)
	if applied != 1 {
		t.Errorf("expected 1 applied, got %d", applied)
	}
	if len(warnings) != 1 || warnings[0].Key != "newfangled" {
		t.Errorf("expected one unknown-key warning, got %v", warnings)
	}
}

func TestApplyCreatesParentDirectories(t *testing.T) {
	dir := testutil.NewTempStateDir(t)
	defer dir.Cleanup()

	reg := registry.Registry{"a": "nested/deep/a.json"}
	c := mustProduce(t, State{"a": "payload"})

	applied, warnings := Apply(c, reg, dir.Path)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if applied != 1 {
		t.Fatalf("expected 1 applied, got %d", applied)
	}
	if !dir.FileExists("nested/deep/a.json") {
		t.Error("nested file not written")
	}
}

func TestApplyIdempotent(t *testing.T) {
	dir := testutil.NewTempStateDir(t)
	defer dir.Cleanup()

	reg := registry.Registry{"a": "a.json"}
	c := mustProduce(t, State{"a": map[string]any{"x": json.Number("1"), "y": []any{"z"}}})

	Apply(c, reg, dir.Path)
	first := dir.ReadFile("a.json")
	Apply(c, reg, dir.Path)
	second := dir.ReadFile("a.json")

	if first != second {
		t.Errorf("apply is not idempotent:\n  first:  %s\n  second: %s", first, second)
	}
}

func TestCaptureApplyRoundTrip(t *testing.T) {
	source := testutil.NewTempStateDir(t)
	defer source.Cleanup()
	target := testutil.NewTempStateDir(t)
	defer target.Cleanup()

	reg := registry.Registry{"ledger": "ledger.json", "self_model": "self_model.json", "absent": "absent.json"}
	source.WriteFile("ledger.json", `{"entries":[{"id":9007199254740993,"note":"<kept>"}],"rev":2}`)
	source.WriteFile("self_model.json", `{"confidence":0.25}`)

	state, warnings := Collect(reg, source.Path)
	if len(warnings) != 0 {
		t.Fatalf("collect warnings: %v", warnings)
	}

	c := mustProduce(t, state)
	data, err := c.Encode()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	applied, warnings := Apply(decoded, reg, target.Path)
	if len(warnings) != 0 {
		t.Fatalf("apply warnings: %v", warnings)
	}
	if applied != 2 {
		t.Fatalf("expected 2 applied, got %d", applied)
	}

	restored, warnings := Collect(reg, target.Path)
	if len(warnings) != 0 {
		t.Fatalf("re-collect warnings: %v", warnings)
	}
	if !reflect.DeepEqual(restored, state) {
		t.Errorf("round trip lost content:\n  original: %#v\n  restored: %#v", state, restored)
	}

	// Equal content must also mean equal digests
	d1, err := Digest(state)
	if err != nil {
		t.Fatalf("digest failed: %v", err)
	}
	d2, err := Digest(restored)
	if err != nil {
		t.Fatalf("digest failed: %v", err)
	}
	if d1 != d2 {
		t.Errorf("round trip changed digest: %s vs %s", d1, d2)
	}
}
