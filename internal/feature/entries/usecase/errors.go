// Package usecase implements the entries feature: the entry service, tag
// synchronisation and input validation.
package usecase

import "errors"

var (
	// ErrEntryNotFound is returned when an entry is absent or owned by someone else.
	// The two cases are not distinguished.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrConcurrencyConflict is returned when the scoped UPDATE matched no row.
	ErrConcurrencyConflict = errors.New("entry was modified or removed concurrently")
)
