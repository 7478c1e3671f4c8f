package api

import (
	"errors"
	"fmt"
)

// ErrInvalidIdentity is returned when a company name normalizes to an
// empty slug, e.g. a name consisting only of punctuation.
var ErrInvalidIdentity = errors.New("company name normalizes to an empty slug")

// DuplicateSiteError reports that the derived address is already
// provisioned. It is the idempotency outcome, not a failure: no state
// was mutated and retried requests return it unchanged.
type DuplicateSiteError struct {
	Address string
}

func (e *DuplicateSiteError) Error() string {
	return fmt.Sprintf("site %s already exists", e.Address)
}

// MissingFieldError reports a required payload field that is absent,
// such as an empty users or plans list. It aborts seeding before any
// write is performed.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field missing: %s", e.Field)
}

// ConfigValidationError reports that synthesized tenant settings failed
// schema validation. The settings artifact is never written when
// validation fails.
type ConfigValidationError struct {
	Err error
}

func (e *ConfigValidationError) Error() string {
	return fmt.Sprintf("tenant settings failed validation: %v", e.Err)
}

func (e *ConfigValidationError) Unwrap() error {
	return e.Err
}
