package capsule

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/pders01/capsule/internal/registry"
	"github.com/pders01/capsule/internal/testutil"
)

func TestCollectSkipsMissingFiles(t *testing.T) {
	dir := testutil.NewTempStateDir(t)
	defer dir.Cleanup()

	reg := registry.Registry{"a": "a.json", "b": "b.json"}
	dir.WriteFile("a.json", `{"x":1}`)
	// b.json intentionally absent

	state, warnings := Collect(reg, dir.Path)
	if len(warnings) != 0 {
		t.Errorf("missing file should not warn, got %v", warnings)
	}

	want := State{"a": map[string]any{"x": json.Number("1")}}
	if !reflect.DeepEqual(state, want) {
		t.Errorf("unexpected state: %#v", state)
	}
}

func TestCollectWarnsOnInvalidJSON(t *testing.T) {
	dir := testutil.NewTempStateDir(t)
	defer dir.Cleanup()

	reg := registry.Registry{"good": "good.json", "bad": "bad.json"}
	dir.WriteFile("good.json", `[1,2,3]`)
	dir.WriteFile("bad.json", `{not json`)

	state, warnings := Collect(reg, dir.Path)

	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	if warnings[0].Key != "bad" {
		t.Errorf("expected warning for key 'bad', got %q", warnings[0].Key)
	}

	if _, ok := state["bad"]; ok {
		t.Error("unparseable key should be omitted")
	}
	if _, ok := state["good"]; !ok {
		t.Error("one bad file must not abort collection of the rest")
	}
}

func TestCollectWarnsOnTrailingData(t *testing.T) {
	dir := testutil.NewTempStateDir(t)
	defer dir.Cleanup()

	reg := registry.Registry{"a": "a.json"}
	dir.WriteFile("a.json", `{"x":1} {"y":2}`)

	state, warnings := Collect(reg, dir.Path)
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if len(state) != 0 {
		t.Errorf("expected empty state, got %#v", state)
	}
}

func TestCollectEmptyRoot(t *testing.T) {
	dir := testutil.NewTempStateDir(t)
	defer dir.Cleanup()

	state, warnings := Collect(registry.Default(), dir.Path)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(state) != 0 {
		t.Errorf("expected empty state, got %d keys", len(state))
	}
}

func TestCollectAllValueShapes(t *testing.T) {
	dir := testutil.NewTempStateDir(t)
	defer dir.Cleanup()

	reg := registry.Registry{
		"obj":    "obj.json",
		"arr":    "arr.json",
		"str":    "str.json",
		"num":    "num.json",
		"null":   "null.json",
		"truthy": "truthy.json",
	}
	dir.WriteFile("obj.json", `{"k":"v"}`)
	dir.WriteFile("arr.json", `["a","b"]`)
	dir.WriteFile("str.json", `"hello"`)
	dir.WriteFile("num.json", `42.5`)
	dir.WriteFile("null.json", `null`)
	dir.WriteFile("truthy.json", `true`)

	state, warnings := Collect(reg, dir.Path)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(state) != 6 {
		t.Fatalf("expected 6 keys, got %d", len(state))
	}
	if state["str"] != "hello" {
		t.Errorf("string payload: got %#v", state["str"])
	}
	if state["num"] != json.Number("42.5") {
		t.Errorf("number payload: got %#v", state["num"])
	}
	if state["null"] != nil {
		t.Errorf("null payload: got %#v", state["null"])
	}
	if state["truthy"] != true {
		t.Errorf("bool payload: got %#v", state["truthy"])
	}
}
