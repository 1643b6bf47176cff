package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Configuration errors (fatal at startup)
	ErrConfigMissing   = errors.New("required configuration keys missing")
	ErrConfigMalformed = errors.New("configuration file is malformed")
	ErrTemplatesEmpty  = errors.New("template catalog has no entries")
	ErrModelInvalid    = errors.New("classifier model is invalid")

	// Request errors (rejected before the engines run)
	ErrValidation = errors.New("invalid request")

	// Popular-tag administration
	ErrTagPersist = errors.New("failed to persist popular tags")

	// Recovered locally, never surfaced to callers
	ErrUnknownTrigger = errors.New("no template for trigger")
)

// ConfigError reports a configuration source that cannot be used.
// All missing keys are collected so an operator fixes them in one pass.
type ConfigError struct {
	Path    string
	Missing []string
	Err     error
}

func (e *ConfigError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("config %s: missing keys: %s", e.Path, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	if len(e.Missing) > 0 {
		return ErrConfigMissing
	}
	return e.Err
}

// ValidationError reports a malformed inbound request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
