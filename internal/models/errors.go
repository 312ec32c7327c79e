package models

import "errors"

// Error kinds surfaced by the ledger. Callers match them with errors.Is;
// the wrapped message carries the detail.
var (
	ErrValidation = errors.New("validation failed")
	ErrEmptyGroup = errors.New("group has no members")
	ErrPermission = errors.New("permission denied")
	ErrNotFound   = errors.New("not found")
)
