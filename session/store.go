// Package session manages the opaque session handles issued on login.
// The scheme is deliberately simple (an unauthenticated bearer token
// checked against a server-side table); the Store interface keeps the
// backing table swappable for an external store without code changes.
package session

import (
	"time"

	"github.com/segmentio/ksuid"

	"github.com/sdg12/foodfacts-api/types"
)

// Store holds active sessions keyed by their opaque handle
type Store interface {
	// Get looks up a session by its handle
	Get(id string) (*types.Session, bool)

	// Put stores a session, replacing any session with the same handle
	Put(session types.Session)

	// Delete removes a session, reporting whether it existed
	Delete(id string) bool

	// DeleteAllForUser removes every session belonging to the user
	// (a new login invalidates older ones)
	DeleteAllForUser(username string)
}

// New creates a session for the user with a fresh opaque handle
func New(username string) types.Session {
	return types.Session{
		ID:        ksuid.New().String(),
		Username:  username,
		Timestamp: time.Now().Unix(),
	}
}

// Issue replaces the user's existing sessions with a new one and
// stores it
func Issue(store Store, username string) types.Session {
	store.DeleteAllForUser(username)
	session := New(username)
	store.Put(session)
	return session
}
