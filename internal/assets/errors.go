package assets

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when a script is built with an empty handle or file name.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPluginRoot is returned when the plugin root directory is not set.
	ErrPluginRoot = errors.New("plugin root directory is not resolved")
)

// MetadataFormatError reports a build manifest that exists but does not have
// the expected dependencies/version shape.
type MetadataFormatError struct {
	Path    string
	Field   string
	Message string
	Err     error
}

func (e *MetadataFormatError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed asset manifest %s: field '%s': %s", e.Path, e.Field, e.Message)
	}
	return fmt.Sprintf("malformed asset manifest %s: %s", e.Path, e.Message)
}

func (e *MetadataFormatError) Unwrap() error {
	return e.Err
}

func invalidArgument(field string) error {
	return fmt.Errorf("%w: %s cannot be empty", ErrInvalidArgument, field)
}
