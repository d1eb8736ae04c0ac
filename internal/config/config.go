// Package config provides configuration management for devlaunch.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Level names accepted for logging.level.
const (
	LevelDebug    = "DEBUG"
	LevelInfo     = "INFO"
	LevelWarning  = "WARNING"
	LevelError    = "ERROR"
	LevelCritical = "CRITICAL"
)

// Levels lists the recognized logging levels, most verbose first.
var Levels = []string{LevelDebug, LevelInfo, LevelWarning, LevelError, LevelCritical}

// LoggingConfig contains log file settings.
type LoggingConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled" toml:"enabled" comment:"Write a log file."`
	Level       string `json:"level" yaml:"level" toml:"level" comment:"One of DEBUG, INFO, WARNING, ERROR, CRITICAL." jsonschema:"enum=DEBUG,enum=INFO,enum=WARNING,enum=ERROR,enum=CRITICAL"`
	File        string `json:"file" yaml:"file" toml:"file" comment:"Log file path. A leading ~ is expanded."`
	MaxBytes    int64  `json:"max_bytes" yaml:"max_bytes" toml:"max_bytes" comment:"Rotate the log file once it reaches this size." jsonschema:"minimum=1"`
	BackupCount int    `json:"backup_count" yaml:"backup_count" toml:"backup_count" comment:"Number of rotated log files to keep." jsonschema:"minimum=0"`
}

// BehaviorConfig contains workflow switches.
type BehaviorConfig struct {
	AutoOpenEditor  bool `json:"auto_open_editor" yaml:"auto_open_editor" toml:"auto_open_editor" comment:"Offer to open an editor after the terminal."`
	RememberChoices bool `json:"remember_choices" yaml:"remember_choices" toml:"remember_choices" comment:"Remember the last terminal and editor per project and preselect them."`
	CombinedDialog  bool `json:"combined_dialog" yaml:"combined_dialog" toml:"combined_dialog" comment:"Pick terminal and editor together in a single dialog."`
}

// Config represents the application configuration.
type Config struct {
	Terminals []string            `json:"terminals" yaml:"terminals" toml:"terminals" comment:"Terminal apps to offer, in preference order. Names must match the .app bundle name exactly (case-sensitive)."`
	Editors   []string            `json:"editors" yaml:"editors" toml:"editors" comment:"Editor apps to offer after the terminal. An empty list disables the editor step."`
	AppArgs   map[string][]string `json:"app_args" yaml:"app_args" toml:"app_args" comment:"Extra launch arguments per app name, e.g. \"Warp\": [\"--profile\", \"Work\"]."`
	Logging   LoggingConfig       `json:"logging" yaml:"logging" toml:"logging" comment:"Log file settings."`
	Behavior  BehaviorConfig      `json:"behavior" yaml:"behavior" toml:"behavior" comment:"Workflow switches."`

	source   string
	warnings []string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Terminals: []string{"Ghostty", "Kitty", "Warp", "Wave", "iTerm", "Terminal"},
		Editors:   []string{"VSCodium"},
		AppArgs:   map[string][]string{},
		Logging: LoggingConfig{
			Enabled:     true,
			Level:       LevelInfo,
			File:        "~/Library/Logs/devlaunch/devlaunch.log",
			MaxBytes:    1 << 20,
			BackupCount: 3,
		},
		Behavior: BehaviorConfig{
			AutoOpenEditor:  true,
			RememberChoices: true,
			CombinedDialog:  false,
		},
	}
}

// Source returns the config file the values were read from, or "" when only
// built-in defaults apply.
func (c *Config) Source() string {
	return c.source
}

// Warnings returns non-fatal notes produced while resolving, for the caller
// to log once a logger exists.
func (c *Config) Warnings() []string {
	return c.warnings
}

// ArgsFor returns the configured launch arguments for app.
func (c *Config) ArgsFor(app string) []string {
	return c.AppArgs[app]
}

// EditorStepEnabled reports whether the editor step can run at all.
func (c *Config) EditorStepEnabled() bool {
	return c.Behavior.AutoOpenEditor && len(c.Editors) > 0
}

// configPathFunc is the function used to determine the config file path.
// It can be overridden in tests to control the config location.
var configPathFunc = defaultConfigPath

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	return configPathFunc()
}

// Dir returns the per-user devlaunch directory holding config and history.
func Dir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "devlaunch")
}

// HistoryPath returns the standard history file location.
func HistoryPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "history.json")
}

// defaultConfigPath returns the standard config file path for the current platform.
func defaultConfigPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.json")
}

// Resolve loads the configuration. explicitPath, when non-empty, takes
// precedence over the default location. A missing file yields the built-in
// defaults; a file that cannot be parsed is an error, never a silent fallback.
func Resolve(explicitPath string) (*Config, error) {
	path := explicitPath
	if path == "" {
		path = configPathFunc()
	}
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			if explicitPath != "" {
				cfg.warnings = append(cfg.warnings, "config file "+path+" does not exist; using defaults")
			}
			return cfg, nil
		}
		return nil, &ParseError{Path: path, Format: formatFor(path), Err: err}
	}

	cfg, err := resolveBytes(path, data)
	if err != nil {
		return nil, err
	}
	cfg.source = path
	return cfg, nil
}

// resolveBytes parses, merges and validates one config document.
func resolveBytes(path string, data []byte) (*Config, error) {
	format := formatFor(path)
	user, err := parseDocument(format, data)
	if err != nil {
		return nil, &ParseError{Path: path, Format: format, Err: err}
	}
	return build(path, user)
}

// build turns a parsed user document into a validated Config.
func build(path string, user map[string]any) (*Config, error) {
	user = stripAnnotations(user)
	if err := checkNulls(user, ""); err != nil {
		return nil, withPath(err, path)
	}

	warnings, err := applyLegacyEditor(user)
	if err != nil {
		return nil, withPath(err, path)
	}

	defaults, err := toMap(DefaultConfig())
	if err != nil {
		return nil, err
	}
	merged := deepMerge(defaults, user)

	cfg, err := decode(merged)
	if err != nil {
		return nil, withPath(err, path)
	}
	more, err := cfg.validate()
	if err != nil {
		return nil, withPath(err, path)
	}
	cfg.warnings = append(warnings, more...)
	return cfg, nil
}

// normalizeLevel upper-cases a level name and reports whether it is recognized.
func normalizeLevel(level string) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(level))
	for _, l := range Levels {
		if upper == l {
			return upper, true
		}
	}
	return upper, false
}
