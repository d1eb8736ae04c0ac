package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Supported config file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// formatFor picks a decoder from the file extension. Anything unrecognized is
// treated as JSON.
func formatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// parseDocument decodes data into a generic mapping.
func parseDocument(format string, data []byte) (map[string]any, error) {
	var doc map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, fmt.Errorf("file is empty")
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, fmt.Errorf("top level must be an object")
		}
	}
	if doc == nil {
		doc = map[string]any{}
	}
	normalized, ok := normalize(doc).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top level must be a mapping")
	}
	return normalized, nil
}

// normalize converts YAML's non-string-keyed maps so every mapping is a
// map[string]any.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = normalize(child)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[fmt.Sprint(k)] = normalize(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = normalize(child)
		}
		return out
	default:
		return v
	}
}

// isAnnotation reports whether key is documentation rather than data.
func isAnnotation(key string) bool {
	return strings.HasPrefix(key, "_") || strings.HasPrefix(key, "$")
}

// stripAnnotations removes "_comment"-style and "$schema" keys at every level.
func stripAnnotations(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		if isAnnotation(k) {
			continue
		}
		if child, ok := v.(map[string]any); ok {
			v = stripAnnotations(child)
		}
		out[k] = v
	}
	return out
}

// checkNulls rejects null values. A null would otherwise replace the default
// and decode to the zero value.
func checkNulls(v any, key string) error {
	switch val := v.(type) {
	case nil:
		return &InvalidValueError{Key: key, Reason: "must not be null; remove the key to use the default"}
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(val)) {
			child := k
			if key != "" {
				child = key + "." + k
			}
			if err := checkNulls(val[k], child); err != nil {
				return err
			}
		}
	case []any:
		for i, item := range val {
			if err := checkNulls(item, fmt.Sprintf("%s[%d]", key, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyLegacyEditor rewrites a singular "editor" key into "editors".
func applyLegacyEditor(doc map[string]any) ([]string, error) {
	raw, ok := doc["editor"]
	if !ok {
		return nil, nil
	}
	delete(doc, "editor")

	name, ok := raw.(string)
	if !ok {
		return nil, &InvalidValueError{Key: "editor", Value: raw, Reason: "must be a string"}
	}
	if _, has := doc["editors"]; has {
		return []string{`ignoring legacy "editor" key because "editors" is also set`}, nil
	}
	if strings.TrimSpace(name) == "" {
		doc["editors"] = []any{}
	} else {
		doc["editors"] = []any{name}
	}
	return nil, nil
}

// deepMerge returns base overlaid with override. Mappings present on both
// sides merge recursively; any other value in override replaces the base
// value wholesale. Neither input is modified.
func deepMerge(base, override map[string]any) map[string]any {
	out := copyMap(base)
	for k, v := range override {
		if bm, ok := out[k].(map[string]any); ok {
			if om, ok := v.(map[string]any); ok {
				out[k] = deepMerge(bm, om)
				continue
			}
		}
		out[k] = copyValue(v)
	}
	return out
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = copyValue(child)
		}
		return out
	default:
		return v
	}
}

// toMap converts cfg to the generic form used for merging.
func toMap(cfg *Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return m, nil
}
