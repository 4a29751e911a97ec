package export

import (
	"errors"
	"fmt"

	"github.com/sahilm/fuzzy"
)

var (
	// ErrExportInProgress is returned when Export is called while another
	// export of the same Exporter is running.
	ErrExportInProgress = errors.New("an export is already in progress")

	ErrUnknownTemplate = errors.New("unknown template")
	ErrUnknownFormat   = errors.New("unknown format")
	ErrInvalidSetting  = errors.New("invalid setting")
)

// ConfigError is a fatal configuration problem detected before any data is
// collected.
type ConfigError struct {
	Field      string
	Value      string
	Suggestion string
	Err        error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("%v: %s %q", e.Err, e.Field, e.Value)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// unknown builds a ConfigError with the closest fuzzy match among candidates.
func unknown(sentinel error, field, value string, candidates []string) *ConfigError {
	return &ConfigError{Field: field, Value: value, Suggestion: suggest(value, candidates), Err: sentinel}
}

func suggest(value string, candidates []string) string {
	if value == "" {
		return ""
	}
	matches := fuzzy.Find(value, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
