package session

import (
	"sync"
	"time"

	"github.com/hako/durafmt"
	"github.com/rs/zerolog/log"

	"github.com/sdg12/foodfacts-api/types"
)

// MemoryStore is a wrapper around a standard sync.Map that also
// periodically evicts old sessions. This keeps the table from growing
// without bound under abandoned logins.
type MemoryStore struct {
	internal sync.Map
	maxTTL   time.Duration
}

// NewMemoryStore creates a new in-memory store and, when maxTTL is
// positive, starts the goroutine that evicts expired sessions
func NewMemoryStore(interval time.Duration, maxTTL time.Duration) *MemoryStore {
	store := &MemoryStore{maxTTL: maxTTL}

	if maxTTL > 0 {
		humanTTL := durafmt.Parse(maxTTL).LimitFirstN(2).String()
		log.Info().
			Str("session_ttl", humanTTL).
			Msg("evicting idle sessions")
		go store.evict(interval)
	}

	return store
}

// Blocking function that periodically evicts old sessions
func (m *MemoryStore) evict(interval time.Duration) {
	for now := range time.Tick(interval) {
		m.internal.Range(func(key interface{}, value interface{}) bool {
			session := value.(types.Session)
			age := now.Unix() - session.Timestamp
			if age > int64(m.maxTTL.Seconds()) {
				m.internal.Delete(key)
				log.Debug().
					Str("username", session.Username).
					Str("age", durafmt.Parse(time.Duration(age)*time.Second).LimitFirstN(2).String()).
					Msg("evicted idle session")
			}
			return true
		})
	}
}

// Get looks up a session by its handle
func (m *MemoryStore) Get(id string) (*types.Session, bool) {
	value, ok := m.internal.Load(id)
	if !ok {
		return nil, false
	}

	session := value.(types.Session)
	return &session, true
}

// Put stores a session keyed by its handle
func (m *MemoryStore) Put(session types.Session) {
	m.internal.Store(session.ID, session)
}

// Delete removes a session, reporting whether it existed
func (m *MemoryStore) Delete(id string) bool {
	_, existed := m.internal.Load(id)
	m.internal.Delete(id)
	return existed
}

// DeleteAllForUser removes every session belonging to the user
func (m *MemoryStore) DeleteAllForUser(username string) {
	m.internal.Range(func(key interface{}, value interface{}) bool {
		if value.(types.Session).Username == username {
			m.internal.Delete(key)
		}
		return true
	})
}
