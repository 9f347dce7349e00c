package domain

import "errors"

// ErrNotFound is returned when a lookup does not resolve to a live
// (non-soft-deleted) record.
var ErrNotFound = errors.New("record not found")
