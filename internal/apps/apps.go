// Package apps checks which configured applications are installed.
package apps

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

const bundleSuffix = ".app"

// maxSuggestions bounds the "did you mean" list.
const maxSuggestions = 3

// Finder locates installed applications.
type Finder struct {
	// Dirs are searched for <Name>.app bundles. When empty, LookPath is used
	// instead.
	Dirs []string
	// LookPath resolves a bare executable name. Used only when Dirs is empty.
	LookPath func(file string) (string, error)

	bundles []string
	loaded  bool
}

// NewFinder returns a Finder for the current platform: application bundle
// directories on macOS, the executable search path elsewhere.
func NewFinder() *Finder {
	if runtime.GOOS == "darwin" {
		home, _ := os.UserHomeDir()
		return &Finder{Dirs: DefaultDirs(home)}
	}
	return &Finder{LookPath: exec.LookPath}
}

// DefaultDirs returns the standard macOS application install locations.
func DefaultDirs(home string) []string {
	dirs := []string{"/Applications"}
	if home != "" {
		dirs = append(dirs, filepath.Join(home, "Applications"))
	}
	return append(dirs, "/System/Applications", "/System/Applications/Utilities")
}

// FilterInstalled returns the installed subset of candidates, in their
// original order. Empty input or no matches yield an empty, non-nil slice.
func (f *Finder) FilterInstalled(candidates []string) []string {
	installed := make([]string, 0, len(candidates))
	for _, name := range candidates {
		if f.IsInstalled(name) {
			installed = append(installed, name)
		}
	}
	return installed
}

// IsInstalled reports whether an application with exactly this name exists.
// Matching is case-sensitive even on case-insensitive filesystems.
func (f *Finder) IsInstalled(name string) bool {
	if name == "" || strings.ContainsRune(name, filepath.Separator) {
		return false
	}
	if len(f.Dirs) == 0 {
		if f.LookPath == nil {
			return false
		}
		_, err := f.LookPath(name)
		return err == nil
	}
	bundles := f.Installed()
	i := sort.SearchStrings(bundles, name)
	return i < len(bundles) && bundles[i] == name
}

// Installed lists every application bundle name found in Dirs, sorted.
// Directory entries are compared by their exact name, so "vscodium" does not
// match VSCodium.app.
func (f *Finder) Installed() []string {
	if f.loaded {
		return f.bundles
	}
	seen := map[string]bool{}
	for _, dir := range f.Dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			name, ok := strings.CutSuffix(e.Name(), bundleSuffix)
			if !ok || name == "" || seen[name] {
				continue
			}
			seen[name] = true
			f.bundles = append(f.bundles, name)
		}
	}
	sort.Strings(f.bundles)
	f.loaded = true
	return f.bundles
}

// Suggest returns installed names that look like a misspelling of name:
// case-insensitive matches first, then fuzzy matches.
func (f *Finder) Suggest(name string) []string {
	if name == "" {
		return nil
	}
	installed := f.Installed()

	var out []string
	seen := map[string]bool{name: true}
	add := func(s string) {
		if !seen[s] && len(out) < maxSuggestions {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, candidate := range installed {
		if strings.EqualFold(candidate, name) {
			add(candidate)
		}
	}
	for _, m := range fuzzy.Find(name, installed) {
		add(m.Str)
	}
	return out
}
