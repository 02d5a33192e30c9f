// Where: internal/descriptor/errors.go
// What: Configuration and build error types raised during synthesis.
// Why: Let callers distinguish fatal configuration mistakes from image build failures.
package descriptor

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateName       = errors.New("duplicate name")
	ErrMissingKey          = errors.New("missing function key")
	ErrUnknownKey          = errors.New("unknown function key")
	ErrMissingInput        = errors.New("missing required input")
	ErrInvalidValue        = errors.New("invalid value")
	ErrMissingBuildContext = errors.New("build context not found")
)

// ConfigError reports a composition mistake detected at synthesis time.
// Kind is one of the Err* sentinels above and is exposed through Unwrap.
type ConfigError struct {
	Kind   error
	Unit   string
	Detail string
}

func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Unit != "" {
		msg += " in " + e.Unit
	}
	msg += ": " + e.Kind.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Kind
}

// NewConfigError builds a ConfigError with a formatted detail message.
func NewConfigError(kind error, unit, format string, args ...any) *ConfigError {
	return &ConfigError{Kind: kind, Unit: unit, Detail: fmt.Sprintf(format, args...)}
}

// BuildError reports a container build context or image build failure.
type BuildError struct {
	Unit string
	Path string
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build %s (%s): %v", e.Unit, e.Path, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
