package config

import (
	"errors"
	"fmt"
)

// ErrAlreadyExists is returned by WriteExample when the destination exists
// and overwriting was not requested.
var ErrAlreadyExists = errors.New("config file already exists")

// ParseError reports a config file that exists but could not be read as
// structured data.
type ParseError struct {
	Path   string
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s config %s: %v", e.Format, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidValueError reports a config key whose value is not acceptable.
type InvalidValueError struct {
	Path   string
	Key    string
	Value  any
	Reason string
}

func (e *InvalidValueError) Error() string {
	where := e.Key
	if where == "" {
		where = "config"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: invalid value for %s: %s", e.Path, where, e.Reason)
	}
	return fmt.Sprintf("invalid value for %s: %s", where, e.Reason)
}

// withPath attaches the config file path to validation errors.
func withPath(err error, path string) error {
	var ive *InvalidValueError
	if errors.As(err, &ive) && ive.Path == "" {
		ive.Path = path
	}
	return err
}
