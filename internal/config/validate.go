package config

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// decode converts a merged mapping into a Config. Unknown keys and values of
// the wrong type are rejected here.
func decode(merged map[string]any) (*Config, error) {
	if err := checkAppArgs(merged["app_args"]); err != nil {
		return nil, err
	}

	var cfg Config
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Metadata:   &md,
		Result:     &cfg,
		DecodeHook: wholeNumberHook,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create config decoder: %w", err)
	}
	if err := decoder.Decode(merged); err != nil {
		return nil, decodeError(err)
	}
	if len(md.Unused) > 0 {
		slices.Sort(md.Unused)
		return nil, &InvalidValueError{
			Key:    md.Unused[0],
			Reason: "unknown key (keys starting with _ are treated as comments)",
		}
	}
	return &cfg, nil
}

// wholeNumberHook rejects fractional numbers bound for integer fields, which
// mapstructure would otherwise truncate.
func wholeNumberHook(from, to reflect.Kind, data any) (any, error) {
	if from != reflect.Float64 && from != reflect.Float32 {
		return data, nil
	}
	switch to {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	f := reflect.ValueOf(data).Float()
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("must be a whole number, got %v", f)
	}
	return data, nil
}

// checkAppArgs requires every app_args value to be a list of strings. A bare
// string is rejected rather than wrapped.
func checkAppArgs(v any) error {
	if v == nil {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return &InvalidValueError{Key: "app_args", Value: v, Reason: "must be a mapping from app name to a list of arguments"}
	}
	for _, app := range slices.Sorted(maps.Keys(m)) {
		key := "app_args." + app
		list, ok := m[app].([]any)
		if !ok {
			return &InvalidValueError{
				Key:    key,
				Value:  m[app],
				Reason: fmt.Sprintf(`must be a list of strings, e.g. ["--flag", "value"], got %T`, m[app]),
			}
		}
		for i, arg := range list {
			if _, ok := arg.(string); !ok {
				return &InvalidValueError{
					Key:    fmt.Sprintf("%s[%d]", key, i),
					Value:  arg,
					Reason: fmt.Sprintf("must be a string, got %T", arg),
				}
			}
		}
	}
	return nil
}

// decodeError turns a mapstructure failure into an InvalidValueError naming
// the first offending key.
func decodeError(err error) error {
	msg := err.Error()
	var merr *mapstructure.Error
	if errors.As(err, &merr) && len(merr.Errors) > 0 {
		msg = merr.Errors[0]
	}
	key := ""
	if start := strings.Index(msg, "'"); start >= 0 {
		if end := strings.Index(msg[start+1:], "'"); end >= 0 {
			key = msg[start+1 : start+1+end]
		}
	}
	return &InvalidValueError{Key: key, Reason: msg}
}

// validate checks semantic constraints after decoding and normalizes values.
// It returns warnings for problems that were corrected.
func (c *Config) validate() ([]string, error) {
	var warnings []string

	if len(c.Terminals) == 0 {
		c.Terminals = DefaultConfig().Terminals
		warnings = append(warnings, "terminals is empty; using the built-in list")
	}
	if err := checkNames("terminals", c.Terminals); err != nil {
		return nil, err
	}
	if c.Editors == nil {
		c.Editors = []string{}
	}
	if err := checkNames("editors", c.Editors); err != nil {
		return nil, err
	}
	if c.AppArgs == nil {
		c.AppArgs = map[string][]string{}
	}

	level, ok := normalizeLevel(c.Logging.Level)
	if !ok {
		return nil, &InvalidValueError{
			Key:    "logging.level",
			Value:  c.Logging.Level,
			Reason: "must be one of " + strings.Join(Levels, ", "),
		}
	}
	c.Logging.Level = level

	if c.Logging.MaxBytes <= 0 {
		return nil, &InvalidValueError{Key: "logging.max_bytes", Value: c.Logging.MaxBytes, Reason: "must be positive"}
	}
	if c.Logging.BackupCount < 0 {
		return nil, &InvalidValueError{Key: "logging.backup_count", Value: c.Logging.BackupCount, Reason: "must not be negative"}
	}
	if c.Logging.Enabled && strings.TrimSpace(c.Logging.File) == "" {
		return nil, &InvalidValueError{Key: "logging.file", Value: c.Logging.File, Reason: "must be set when logging is enabled"}
	}
	return warnings, nil
}

// Labels used by the launch prompts. App names may not clash with them.
const (
	NoEditorLabel = "No editor"
	PairSeparator = " + "
)

func checkNames(key string, names []string) error {
	for i, name := range names {
		field := fmt.Sprintf("%s[%d]", key, i)
		switch {
		case strings.TrimSpace(name) == "":
			return &InvalidValueError{Key: field, Value: name, Reason: "app name must not be empty"}
		case name == NoEditorLabel:
			return &InvalidValueError{Key: field, Value: name, Reason: fmt.Sprintf("%q is reserved for the editor prompt", NoEditorLabel)}
		case strings.Contains(name, PairSeparator):
			return &InvalidValueError{Key: field, Value: name, Reason: fmt.Sprintf("app name must not contain %q", PairSeparator)}
		}
	}
	return nil
}
