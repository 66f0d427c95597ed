package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAudioUnavailable  = errors.New("audio unavailable")
	ErrSegmentOutOfRange = errors.New("segment out of range")
	ErrInvalidTimestamp  = errors.New("invalid timestamp")
	ErrPrecondition      = errors.New("precondition violated")
	ErrValidation        = errors.New("validation error")
	ErrConfiguration     = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Degradable reports whether err describes a failure the pipeline absorbs
// locally (skip one segment or pass the whole call through) rather than one
// the caller has to handle.
func Degradable(err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrAudioUnavailable), errors.Is(err, ErrSegmentOutOfRange), errors.Is(err, ErrInvalidTimestamp):
		return true
	default:
		return false
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "correction failure"
	}
	return strings.Join(parts, ": ")
}
