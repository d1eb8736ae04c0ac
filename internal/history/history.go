// Package history remembers the last terminal and editor chosen per project.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/osteele/devlaunch/internal/project"
)

// Entry is the remembered choice for one project.
type Entry struct {
	Terminal string
	Editor   string // empty when no editor was opened
	LastUsed time.Time
}

// HasEditor reports whether an editor was opened alongside the terminal.
func (e Entry) HasEditor() bool {
	return e.Editor != ""
}

// entryJSON is the on-disk form; a missing editor is stored as null.
type entryJSON struct {
	Terminal string    `json:"terminal"`
	Editor   *string   `json:"editor"`
	LastUsed time.Time `json:"last_used"`
}

// MarshalJSON implements json.Marshaler.
func (e Entry) MarshalJSON() ([]byte, error) {
	out := entryJSON{Terminal: e.Terminal, LastUsed: e.LastUsed}
	if e.Editor != "" {
		editor := e.Editor
		out.Editor = &editor
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var in entryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	e.Terminal = in.Terminal
	e.Editor = ""
	if in.Editor != nil {
		e.Editor = *in.Editor
	}
	e.LastUsed = in.LastUsed
	return nil
}

// Store reads and writes the history file. A disabled Store never writes and
// reports no remembered choices.
type Store struct {
	path    string
	enabled bool
	logger  logrus.FieldLogger
	now     func() time.Time
}

// New creates a Store backed by path.
func New(path string, enabled bool, logger logrus.FieldLogger) *Store {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Store{
		path:    path,
		enabled: enabled && path != "",
		logger:  logger.WithField("history", path),
		now:     time.Now,
	}
}

// Path returns the history file location.
func (s *Store) Path() string {
	return s.path
}

// Enabled reports whether choices are remembered.
func (s *Store) Enabled() bool {
	return s.enabled
}

// Load reads every entry. A missing or unreadable file yields an empty map;
// corruption is logged, never returned.
func (s *Store) Load() map[string]Entry {
	entries := map[string]Entry{}
	if s.path == "" {
		return entries
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("No history file yet")
		} else {
			s.logger.WithError(err).Warn("Cannot read history; starting empty")
		}
		return entries
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.WithError(err).Warn("History file is corrupt; starting empty")
		return map[string]Entry{}
	}
	for key, entry := range entries {
		if entry.Terminal == "" {
			s.logger.WithField("path", key).Warn("Dropping history entry without a terminal")
			delete(entries, key)
		}
	}
	return entries
}

// LastChoice returns the remembered choice for path, if any.
func (s *Store) LastChoice(path string) (Entry, bool) {
	if !s.enabled {
		return Entry{}, false
	}
	entry, ok := s.Load()[project.Canonical(path)]
	return entry, ok
}

// Record stores terminal and editor as the latest choice for path,
// replacing any previous entry. editor is empty when none was opened.
// The file is re-read first so entries written by other runs survive.
func (s *Store) Record(path, terminal, editor string) error {
	if !s.enabled {
		return nil
	}
	if terminal == "" {
		return fmt.Errorf("cannot record history for %s: no terminal", path)
	}

	entries := s.Load()
	entries[project.Canonical(path)] = Entry{
		Terminal: terminal,
		Editor:   editor,
		LastUsed: s.now().UTC().Truncate(time.Second),
	}
	return s.save(entries)
}

// Forget removes the entry for path. It reports whether an entry existed.
// Forgetting works even when remembering is disabled.
func (s *Store) Forget(path string) (bool, error) {
	if s.path == "" {
		return false, nil
	}
	entries := s.Load()
	key := project.Canonical(path)
	if _, ok := entries[key]; !ok {
		return false, nil
	}
	delete(entries, key)
	if err := s.save(entries); err != nil {
		return true, err
	}
	return true, nil
}

// save writes entries atomically: a temp file in the same directory is
// synced and renamed over the target.
func (s *Store) save(entries map[string]Entry) (err error) {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp history file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync history: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close history: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace history: %w", err)
	}
	return nil
}
