// Package store defines the persistence contracts for users, alfajores and
// reviews, with in-memory and Postgres implementations of each.
package store

import "errors"

var (
	// ErrNotFound signals a missing referenced record.
	ErrNotFound = errors.New("not found")
	// ErrConflict signals a uniqueness violation (duplicate email, second
	// review for the same alfajor by the same user).
	ErrConflict = errors.New("conflict")
	// ErrNotFoundOrForbidden collapses "no such record" and "not the owner"
	// into one indistinguishable condition so callers cannot probe for
	// existence of other users' reviews.
	ErrNotFoundOrForbidden = errors.New("not found or unauthorized")
)
