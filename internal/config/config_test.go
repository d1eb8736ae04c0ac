package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// withConfigPath temporarily overrides configPathFunc for a test.
func withConfigPath(t *testing.T, path string) {
	t.Helper()
	original := configPathFunc
	configPathFunc = func() string { return path }
	t.Cleanup(func() { configPathFunc = original })
}

// writeConfig writes content to name inside a temp dir and returns its path.
func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

// exported strips bookkeeping fields so configs can be compared by value.
func exported(c *Config) Config {
	return Config{
		Terminals: c.Terminals,
		Editors:   c.Editors,
		AppArgs:   c.AppArgs,
		Logging:   c.Logging,
		Behavior:  c.Behavior,
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Terminals) == 0 {
		t.Fatal("Terminals is empty, want built-in list")
	}
	if cfg.Terminals[0] != "Ghostty" {
		t.Errorf("Terminals[0] = %q, want Ghostty", cfg.Terminals[0])
	}
	if !reflect.DeepEqual(cfg.Editors, []string{"VSCodium"}) {
		t.Errorf("Editors = %v, want [VSCodium]", cfg.Editors)
	}
	if !cfg.Behavior.AutoOpenEditor {
		t.Error("Behavior.AutoOpenEditor = false, want true")
	}
	if !cfg.Behavior.RememberChoices {
		t.Error("Behavior.RememberChoices = false, want true")
	}
	if cfg.Behavior.CombinedDialog {
		t.Error("Behavior.CombinedDialog = true, want false")
	}
	if cfg.Logging.Level != LevelInfo {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, LevelInfo)
	}
	if cfg.Logging.MaxBytes <= 0 {
		t.Errorf("Logging.MaxBytes = %d, want positive", cfg.Logging.MaxBytes)
	}
	if cfg.AppArgs == nil {
		t.Error("AppArgs = nil, want empty map")
	}
}

func TestResolve_NoConfigFile(t *testing.T) {
	withConfigPath(t, filepath.Join(t.TempDir(), "nonexistent", "config.json"))

	cfg, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got, want := exported(cfg), exported(DefaultConfig()); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %+v, want defaults %+v", got, want)
	}
	if !cfg.Behavior.AutoOpenEditor {
		t.Error("Behavior.AutoOpenEditor = false, want true")
	}
	if cfg.Source() != "" {
		t.Errorf("Source() = %q, want empty", cfg.Source())
	}
	if len(cfg.Warnings()) != 0 {
		t.Errorf("Warnings() = %v, want none", cfg.Warnings())
	}
}

func TestResolve_MissingExplicitFileWarns(t *testing.T) {
	withConfigPath(t, "")
	path := filepath.Join(t.TempDir(), "missing.json")

	cfg, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(cfg.Warnings()) != 1 || !strings.Contains(cfg.Warnings()[0], path) {
		t.Errorf("Warnings() = %v, want one warning naming %s", cfg.Warnings(), path)
	}
}

func TestResolve_ExplicitPathWins(t *testing.T) {
	withConfigPath(t, writeConfig(t, "config.json", `{"terminals": ["Kitty"]}`))
	explicit := writeConfig(t, "other.json", `{"terminals": ["Wave"]}`)

	cfg, err := Resolve(explicit)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !reflect.DeepEqual(cfg.Terminals, []string{"Wave"}) {
		t.Errorf("Terminals = %v, want [Wave]", cfg.Terminals)
	}
	if cfg.Source() != explicit {
		t.Errorf("Source() = %q, want %q", cfg.Source(), explicit)
	}
}

func TestResolve_AppArgs(t *testing.T) {
	path := writeConfig(t, "config.json", `{"terminals": ["Warp"], "app_args": {"Warp": ["--profile", "Work"]}}`)

	cfg, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !reflect.DeepEqual(cfg.Terminals, []string{"Warp"}) {
		t.Errorf("Terminals = %v, want [Warp]", cfg.Terminals)
	}
	if got := cfg.ArgsFor("Warp"); !reflect.DeepEqual(got, []string{"--profile", "Work"}) {
		t.Errorf("ArgsFor(Warp) = %v, want [--profile Work]", got)
	}
	if got := cfg.ArgsFor("Kitty"); len(got) != 0 {
		t.Errorf("ArgsFor(Kitty) = %v, want none", got)
	}
}

func TestResolve_LegacyEditor(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		want        []string
		wantWarning bool
	}{
		{"editor only", `{"editor": "VSCodium"}`, []string{"VSCodium"}, false},
		{"empty editor disables", `{"editor": ""}`, []string{}, false},
		{"editors wins", `{"editor": "Zed", "editors": ["Cursor", "VSCodium"]}`, []string{"Cursor", "VSCodium"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Resolve(writeConfig(t, "config.json", tt.content))
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if !reflect.DeepEqual(cfg.Editors, tt.want) {
				t.Errorf("Editors = %#v, want %#v", cfg.Editors, tt.want)
			}
			if got := len(cfg.Warnings()) > 0; got != tt.wantWarning {
				t.Errorf("Warnings() = %v, want warning %v", cfg.Warnings(), tt.wantWarning)
			}
		})
	}
}

func TestResolve_MalformedJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"terminals": ["Kitty",}`)

	cfg, err := Resolve(path)
	if err == nil {
		t.Fatalf("Resolve() = %+v, want ParseError", cfg)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Resolve() error = %T %v, want *ParseError", err, err)
	}
	if pe.Path != path {
		t.Errorf("ParseError.Path = %q, want %q", pe.Path, path)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("Error() = %q, want it to name %s", err.Error(), path)
	}
}

func TestResolve_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"empty json", "config.json", ""},
		{"json array", "config.json", `["Kitty"]`},
		{"json null", "config.json", `null`},
		{"bad yaml", "config.yaml", "terminals: [Kitty\n"},
		{"bad toml", "config.toml", "terminals = [\"Kitty\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(writeConfig(t, tt.file, tt.content))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Errorf("Resolve() error = %v, want *ParseError", err)
			}
		})
	}
}

func TestResolve_Idempotent(t *testing.T) {
	path := writeConfig(t, "config.json", `{"terminals": ["Kitty", "Warp"], "logging": {"level": "debug"}}`)

	first, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	second, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Resolve() not idempotent:\n first = %+v\nsecond = %+v", first, second)
	}
}

func TestResolve_EmptyObjectYieldsDefaults(t *testing.T) {
	cfg, err := Resolve(writeConfig(t, "config.json", `{}`))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got, want := exported(cfg), exported(DefaultConfig()); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve({}) = %+v, want %+v", got, want)
	}
}

func TestResolve_FullySpecifiedYieldsUserValues(t *testing.T) {
	want := Config{
		Terminals: []string{"Terminal"},
		Editors:   []string{"Zed", "Cursor"},
		AppArgs:   map[string][]string{"Zed": {"--new"}},
		Logging: LoggingConfig{
			Enabled:     false,
			Level:       LevelError,
			File:        "/tmp/devlaunch-test.log",
			MaxBytes:    4096,
			BackupCount: 0,
		},
		Behavior: BehaviorConfig{
			AutoOpenEditor:  false,
			RememberChoices: false,
			CombinedDialog:  true,
		},
	}
	data, err := json.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := Resolve(writeConfig(t, "config.json", string(data)))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := exported(cfg); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestResolve_DeepMergeKeepsSiblings(t *testing.T) {
	cfg, err := Resolve(writeConfig(t, "config.json", `{"logging": {"level": "warning"}, "behavior": {"combined_dialog": true}}`))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	defaults := DefaultConfig()

	if cfg.Logging.Level != LevelWarning {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, LevelWarning)
	}
	if cfg.Logging.MaxBytes != defaults.Logging.MaxBytes {
		t.Errorf("Logging.MaxBytes = %d, want default %d", cfg.Logging.MaxBytes, defaults.Logging.MaxBytes)
	}
	if cfg.Logging.File != defaults.Logging.File {
		t.Errorf("Logging.File = %q, want default %q", cfg.Logging.File, defaults.Logging.File)
	}
	if !cfg.Behavior.AutoOpenEditor || !cfg.Behavior.RememberChoices || !cfg.Behavior.CombinedDialog {
		t.Errorf("Behavior = %+v, want defaults plus combined_dialog", cfg.Behavior)
	}
}

func TestResolve_SequencesReplacedWholesale(t *testing.T) {
	cfg, err := Resolve(writeConfig(t, "config.json", `{"terminals": ["Kitty"]}`))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !reflect.DeepEqual(cfg.Terminals, []string{"Kitty"}) {
		t.Errorf("Terminals = %v, want exactly [Kitty]", cfg.Terminals)
	}
}

func TestResolve_EmptyTerminalsFallsBack(t *testing.T) {
	cfg, err := Resolve(writeConfig(t, "config.json", `{"terminals": []}`))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !reflect.DeepEqual(cfg.Terminals, DefaultConfig().Terminals) {
		t.Errorf("Terminals = %v, want built-in list", cfg.Terminals)
	}
	if len(cfg.Warnings()) == 0 {
		t.Error("Warnings() is empty, want a fallback warning")
	}
}

func TestResolve_StripsAnnotations(t *testing.T) {
	content := `{
  "$schema": "./devlaunch.schema.json",
  "_comment": "top level note",
  "_terminals": "documented",
  "terminals": ["Ghostty"],
  "logging": {"_level": "note", "level": "error"}
}`
	cfg, err := Resolve(writeConfig(t, "config.json", content))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Logging.Level != LevelError {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, LevelError)
	}
}

func TestResolve_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantKey string
	}{
		{"unknown level", `{"logging": {"level": "LOUD"}}`, "logging.level"},
		{"scalar app_args", `{"app_args": {"Warp": "--profile Work"}}`, "app_args.Warp"},
		{"non-string arg", `{"app_args": {"Warp": ["--size", 12]}}`, "app_args.Warp[1]"},
		{"app_args not a mapping", `{"app_args": ["Warp"]}`, "app_args"},
		{"unknown key", `{"colour": "blue"}`, "colour"},
		{"unknown nested key", `{"behavior": {"auto_close": true}}`, "behavior.auto_close"},
		{"zero max_bytes", `{"logging": {"max_bytes": 0}}`, "logging.max_bytes"},
		{"negative backup_count", `{"logging": {"backup_count": -1}}`, "logging.backup_count"},
		{"empty terminal name", `{"terminals": ["Kitty", " "]}`, "terminals[1]"},
		{"legacy editor not a string", `{"editor": ["VSCodium"]}`, "editor"},
		{"wrong type", `{"behavior": {"auto_open_editor": "yes"}}`, "behavior.auto_open_editor"},
		{"null scalar", `{"behavior": {"remember_choices": null}}`, "behavior.remember_choices"},
		{"null section", `{"logging": null}`, "logging"},
		{"null editors", `{"editors": null}`, "editors"},
		{"null list item", `{"terminals": ["Kitty", null]}`, "terminals[1]"},
		{"fractional max_bytes", `{"logging": {"max_bytes": 1.5}}`, "logging.max_bytes"},
		{"fractional backup_count", `{"logging": {"backup_count": 2.9}}`, "logging.backup_count"},
		{"reserved editor label", `{"editors": ["No editor"]}`, "editors[0]"},
		{"name with pair separator", `{"terminals": ["Kitty + Tmux"]}`, "terminals[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "config.json", tt.content)
			_, err := Resolve(path)
			var ive *InvalidValueError
			if !errors.As(err, &ive) {
				t.Fatalf("Resolve() error = %v, want *InvalidValueError", err)
			}
			if tt.wantKey != "" && ive.Key != tt.wantKey {
				t.Errorf("InvalidValueError.Key = %q, want %q", ive.Key, tt.wantKey)
			}
			if ive.Path != path {
				t.Errorf("InvalidValueError.Path = %q, want %q", ive.Path, path)
			}
		})
	}
}

func TestResolve_YAMLNullRejected(t *testing.T) {
	path := writeConfig(t, "config.yaml", "behavior:\n  auto_open_editor:\n")
	_, err := Resolve(path)
	var ive *InvalidValueError
	if !errors.As(err, &ive) || ive.Key != "behavior.auto_open_editor" {
		t.Fatalf("Resolve() error = %v, want InvalidValueError for behavior.auto_open_editor", err)
	}
	if !strings.Contains(ive.Error(), "null") {
		t.Errorf("error %q does not mention null", ive.Error())
	}
}

func TestResolve_WholeFloatIsAccepted(t *testing.T) {
	cfg, err := Resolve(writeConfig(t, "config.json", `{"logging": {"max_bytes": 2048.0, "backup_count": 5}}`))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Logging.MaxBytes != 2048 || cfg.Logging.BackupCount != 5 {
		t.Errorf("Logging = %+v, want max_bytes 2048, backup_count 5", cfg.Logging)
	}
}

func TestResolve_LevelIsNormalized(t *testing.T) {
	for _, level := range []string{"debug", "Info", "WARNING", " critical "} {
		t.Run(level, func(t *testing.T) {
			data, _ := json.Marshal(map[string]any{"logging": map[string]any{"level": level}})
			cfg, err := Resolve(writeConfig(t, "config.json", string(data)))
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if want := strings.ToUpper(strings.TrimSpace(level)); cfg.Logging.Level != want {
				t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, want)
			}
		})
	}
}

func TestResolve_YAML(t *testing.T) {
	content := `
# comments are fine here
terminals: [Ghostty, Kitty]
editors: []
app_args:
  Kitty: ["--single-instance"]
behavior:
  combined_dialog: true
`
	cfg, err := Resolve(writeConfig(t, "config.yaml", content))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !reflect.DeepEqual(cfg.Terminals, []string{"Ghostty", "Kitty"}) {
		t.Errorf("Terminals = %v, want [Ghostty Kitty]", cfg.Terminals)
	}
	if len(cfg.Editors) != 0 {
		t.Errorf("Editors = %v, want empty", cfg.Editors)
	}
	if cfg.EditorStepEnabled() {
		t.Error("EditorStepEnabled() = true, want false with no editors")
	}
	if got := cfg.ArgsFor("Kitty"); !reflect.DeepEqual(got, []string{"--single-instance"}) {
		t.Errorf("ArgsFor(Kitty) = %v", got)
	}
	if !cfg.Behavior.CombinedDialog || !cfg.Behavior.AutoOpenEditor {
		t.Errorf("Behavior = %+v", cfg.Behavior)
	}
}

func TestResolve_TOML(t *testing.T) {
	content := `
terminals = ["Warp"]

[app_args]
Warp = ["--profile", "Work"]

[logging]
level = "error"
backup_count = 5
`
	cfg, err := Resolve(writeConfig(t, "config.toml", content))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := cfg.ArgsFor("Warp"); !reflect.DeepEqual(got, []string{"--profile", "Work"}) {
		t.Errorf("ArgsFor(Warp) = %v", got)
	}
	if cfg.Logging.Level != LevelError {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, LevelError)
	}
	if cfg.Logging.BackupCount != 5 {
		t.Errorf("Logging.BackupCount = %d, want 5", cfg.Logging.BackupCount)
	}
	if !cfg.Logging.Enabled {
		t.Error("Logging.Enabled = false, want default true")
	}
}

func TestDeepMerge(t *testing.T) {
	base := map[string]any{
		"a": map[string]any{"x": 1, "y": 2},
		"b": []any{"one", "two"},
		"c": "keep",
	}
	override := map[string]any{
		"a": map[string]any{"y": 3},
		"b": []any{"three"},
		"d": true,
	}
	got := deepMerge(base, override)
	want := map[string]any{
		"a": map[string]any{"x": 1, "y": 3},
		"b": []any{"three"},
		"c": "keep",
		"d": true,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("deepMerge() = %v, want %v", got, want)
	}
	if base["a"].(map[string]any)["y"] != 2 {
		t.Error("deepMerge() modified its base argument")
	}
}

func TestDeepMerge_MappingReplacedByScalar(t *testing.T) {
	got := deepMerge(map[string]any{"a": map[string]any{"x": 1}}, map[string]any{"a": "flat"})
	if got["a"] != "flat" {
		t.Errorf("deepMerge()[a] = %v, want flat", got["a"])
	}
}
