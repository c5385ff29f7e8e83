package store

import (
	"context"

	"github.com/drewdunne/samwise/internal/issue"
)

// Person is a digest recipient.
type Person struct {
	Login string `json:"login"`
	Email string `json:"email"`
}

// Store persists issue snapshots keyed by issue number, and the people
// who receive the digest.
type Store interface {
	// FindByNumber returns the stored snapshot, or nil if the issue has never been seen.
	FindByNumber(ctx context.Context, number int) (*issue.Snapshot, error)

	// Upsert replaces the stored snapshot with the same number.
	Upsert(ctx context.Context, s issue.Snapshot) error

	// ListAll returns every stored snapshot ordered by number.
	ListAll(ctx context.Context) ([]issue.Snapshot, error)

	// ListPeople returns every digest recipient ordered by login.
	ListPeople(ctx context.Context) ([]Person, error)

	// AddPerson registers or updates a digest recipient.
	AddPerson(ctx context.Context, p Person) error

	// Ping checks the store is reachable.
	Ping(ctx context.Context) error
}
