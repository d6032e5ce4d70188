package clients

import (
	"context"
	"errors"
)

// ErrNotFound indicates no client matched the lookup.
var ErrNotFound = errors.New("not found")

// Directory exposes the two read queries the customer resolver needs.
// Lookups return ErrNotFound when nothing matches; ties break on the
// oldest client so repeated lookups resolve identically.
type Directory interface {
	// FindByEmail matches the email exactly (case-insensitive) against
	// either a client's email or the owning user's email.
	FindByEmail(ctx context.Context, email string) (CustomerMatch, error)
	// FindByName matches the participant name against client names by
	// substring containment in either direction (case-insensitive).
	FindByName(ctx context.Context, name string) (CustomerMatch, error)
}
