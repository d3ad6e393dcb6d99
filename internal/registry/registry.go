package registry

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Registry maps logical state keys to file paths relative to a root
// directory. It is fixed for the lifetime of a process: commands build it
// once at startup and only read from it afterwards.
type Registry map[string]string

// Default returns the built-in registry of agent runtime state files.
func Default() Registry {
	return Registry{
		"ledger":            "ledger.json",
		"skill_registry":    "skill_registry.json",
		"self_model":        "self_model.json",
		"world_model":       "world_model.json",
		"forecast_model":    "forecast_model.json",
		"alignment_monitor": "alignment_monitor.json",
		"agent_memory":      "agent_memory.json",
		"chat_log":          "chat_log.json",
		"reasoning_log":     "reasoning_log.json",
		"introspection_log": "introspection_log.json",
		"consensus_log":     "consensus_log.json",
		"output_log":        "output_log.json",
	}
}

// WithOverrides returns a copy of base with the given path overrides (or
// extra entries) merged in. Paths must stay relative and inside the root.
func WithOverrides(base Registry, overrides map[string]string) (Registry, error) {
	merged := make(Registry, len(base)+len(overrides))
	for key, path := range base {
		merged[key] = path
	}
	for key, path := range overrides {
		clean := filepath.Clean(path)
		if filepath.IsAbs(clean) {
			return nil, fmt.Errorf("registry override %q: path must be relative, got %q", key, path)
		}
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("registry override %q: path escapes the root directory: %q", key, path)
		}
		merged[key] = clean
	}
	return merged, nil
}

// Keys returns the registry's logical keys in sorted order.
func (r Registry) Keys() []string {
	keys := make([]string, 0, len(r))
	for key := range r {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
