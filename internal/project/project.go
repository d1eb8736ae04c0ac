// Package project validates and normalizes project directory paths.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// ErrorKind identifies why a path was rejected.
type ErrorKind int

const (
	// NotFound means the path does not exist.
	NotFound ErrorKind = iota
	// NotADirectory means the path exists but is not a directory.
	NotADirectory
	// UnsafeCharacters means the raw input contains control characters or NUL.
	UnsafeCharacters
)

func (k ErrorKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case NotADirectory:
		return "not a directory"
	case UnsafeCharacters:
		return "unsafe characters"
	default:
		return "unknown"
	}
}

// Error is returned when a path cannot be used as a project directory.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case NotFound:
		return fmt.Sprintf("project path does not exist: %s", e.Path)
	case NotADirectory:
		return fmt.Sprintf("project path is not a directory: %s", e.Path)
	case UnsafeCharacters:
		return fmt.Sprintf("project path contains control characters: %q", e.Path)
	}
	return fmt.Sprintf("invalid project path %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a project path Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == kind
}

// WarningKind identifies a non-fatal observation about a sanitized path.
type WarningKind int

const (
	// SymlinkResolved means the input pointed at a different real location.
	SymlinkResolved WarningKind = iota
	// OutsideHome means the resolved path is not under the user's home directory.
	OutsideHome
)

// Warning is a non-fatal annotation attached to a sanitized path.
type Warning struct {
	Kind    WarningKind
	Message string
}

// Path is a validated project directory.
type Path struct {
	Raw      string    // Input as given by the caller
	Abs      string    // Absolute path before symlink resolution
	Resolved string    // Absolute, symlink-resolved directory used downstream
	Warnings []Warning // Non-fatal annotations for the caller to log
}

// Name returns the directory's base name, used in prompts.
func (p *Path) Name() string {
	return filepath.Base(p.Resolved)
}

// String returns the resolved path.
func (p *Path) String() string {
	return p.Resolved
}

// HasWarning reports whether a warning of the given kind is attached.
func (p *Path) HasWarning(kind WarningKind) bool {
	for _, w := range p.Warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}

// Sanitizer validates raw path arguments.
type Sanitizer struct {
	// Home is the invoking user's home directory. Empty disables both
	// "~" expansion and the outside-home warning.
	Home string
	// Getwd supplies the directory used for an empty input.
	Getwd func() (string, error)
}

// NewSanitizer returns a Sanitizer rooted at the current user's home directory.
func NewSanitizer() *Sanitizer {
	home, _ := os.UserHomeDir()
	return &Sanitizer{Home: home, Getwd: os.Getwd}
}

// Sanitize validates raw with a default Sanitizer.
func Sanitize(raw string) (*Path, error) {
	return NewSanitizer().Sanitize(raw)
}

// Sanitize turns a user-supplied path into an absolute, symlink-resolved
// directory. An empty input means the current directory.
func (s *Sanitizer) Sanitize(raw string) (*Path, error) {
	if hasUnsafeCharacters(raw) {
		return nil, &Error{Kind: UnsafeCharacters, Path: raw}
	}

	input := raw
	if input == "" {
		getwd := s.Getwd
		if getwd == nil {
			getwd = os.Getwd
		}
		cwd, err := getwd()
		if err != nil {
			return nil, &Error{Kind: NotFound, Path: raw, Err: err}
		}
		input = cwd
	}

	expanded := ExpandHome(input, s.Home)
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return nil, &Error{Kind: NotFound, Path: raw, Err: err}
	}

	if _, err := os.Lstat(abs); err != nil {
		return nil, &Error{Kind: NotFound, Path: abs, Err: err}
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// Dangling symlink: the name exists but the target does not
		return nil, &Error{Kind: NotFound, Path: abs, Err: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, &Error{Kind: NotFound, Path: resolved, Err: err}
	}
	if !info.IsDir() {
		return nil, &Error{Kind: NotADirectory, Path: resolved}
	}

	p := &Path{Raw: raw, Abs: abs, Resolved: resolved}
	if resolved != abs {
		p.Warnings = append(p.Warnings, Warning{
			Kind:    SymlinkResolved,
			Message: fmt.Sprintf("%s resolves to %s", abs, resolved),
		})
	}
	if s.Home != "" && !within(resolved, s.Home) {
		p.Warnings = append(p.Warnings, Warning{
			Kind:    OutsideHome,
			Message: fmt.Sprintf("%s is outside the home directory %s", resolved, s.Home),
		})
	}
	return p, nil
}

// Canonical returns the stable key form of path: absolute, symlink-resolved
// when possible, without a trailing separator.
func Canonical(path string) string {
	abs, err := filepath.Abs(ExpandHome(path, userHome()))
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return filepath.Clean(abs)
}

func hasUnsafeCharacters(s string) bool {
	for _, r := range s {
		if r == 0 || unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// ExpandHome expands a leading ~ in path to home.
func ExpandHome(path, home string) string {
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// within reports whether path lies inside root. Both sides are compared in
// symlink-resolved form so /var vs /private/var style aliases match.
func within(path, root string) bool {
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func userHome() string {
	home, _ := os.UserHomeDir()
	return home
}
