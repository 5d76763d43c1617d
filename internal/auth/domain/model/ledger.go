package model

import (
	"sort"
	"time"
)

// DefaultMaxSessions caps the number of embedded sessions per user.
const DefaultMaxSessions = 10

// SessionLedger is the bounded, ordered collection of a user's sessions.
// It is a value type over the embedded slice, decoupled from persistence so
// admit/evict behavior is unit-testable. Mutating methods return the new
// slice; callers persist the whole ledger in one document write.
type SessionLedger struct {
	Sessions []Session
	Capacity int
}

// NewSessionLedger wraps an existing session slice with the given capacity.
// A non-positive capacity falls back to DefaultMaxSessions.
func NewSessionLedger(sessions []Session, capacity int) *SessionLedger {
	if capacity <= 0 {
		capacity = DefaultMaxSessions
	}
	return &SessionLedger{Sessions: sessions, Capacity: capacity}
}

// Admit appends a new session, first evicting the entry with the oldest
// LastActiveAt while the ledger is at or over capacity. Ties resolve to the
// first encountered. The loop repeats until a slot is free; single-insert
// flow frees at most one, but the ledger may already be over capacity.
func (l *SessionLedger) Admit(s Session) {
	for len(l.Sessions) >= l.Capacity {
		idx := l.indexOfOldest()
		if idx < 0 {
			break
		}
		l.Sessions = append(l.Sessions[:idx], l.Sessions[idx+1:]...)
	}
	l.Sessions = append(l.Sessions, s)
}

// indexOfOldest returns the index of the entry with the smallest
// LastActiveAt, or -1 on an empty ledger.
func (l *SessionLedger) indexOfOldest() int {
	if len(l.Sessions) == 0 {
		return -1
	}
	oldest := 0
	for i := 1; i < len(l.Sessions); i++ {
		if l.Sessions[i].LastActiveAt.Before(l.Sessions[oldest].LastActiveAt) {
			oldest = i
		}
	}
	return oldest
}

// Active returns non-expired entries sorted by LastActiveAt descending, each
// flagged as current when its ID matches currentID. Expired entries are
// filtered, not purged.
func (l *SessionLedger) Active(now time.Time, currentID string) []SessionView {
	views := make([]SessionView, 0, len(l.Sessions))
	for _, s := range l.Sessions {
		if s.Expired(now) {
			continue
		}
		views = append(views, SessionView{Session: s, Current: s.ID == currentID})
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].LastActiveAt.After(views[j].LastActiveAt)
	})
	return views
}

// Find returns the non-expired session with the given ID, or nil. This is
// the ledger-liveness half of full token validation.
func (l *SessionLedger) Find(id string, now time.Time) *Session {
	for i := range l.Sessions {
		if l.Sessions[i].ID == id && !l.Sessions[i].Expired(now) {
			return &l.Sessions[i]
		}
	}
	return nil
}

// Revoke removes the session with the given ID. It reports whether an entry
// was removed.
func (l *SessionLedger) Revoke(id string) bool {
	for i := range l.Sessions {
		if l.Sessions[i].ID == id {
			l.Sessions = append(l.Sessions[:i], l.Sessions[i+1:]...)
			return true
		}
	}
	return false
}

// RevokeAllExcept removes every session except the one with the given ID.
func (l *SessionLedger) RevokeAllExcept(id string) {
	kept := l.Sessions[:0]
	for _, s := range l.Sessions {
		if s.ID == id {
			kept = append(kept, s)
		}
	}
	l.Sessions = kept
}

// Touch updates LastActiveAt on the session with the given ID.
func (l *SessionLedger) Touch(id string, now time.Time) {
	for i := range l.Sessions {
		if l.Sessions[i].ID == id {
			l.Sessions[i].LastActiveAt = now
			return
		}
	}
}

// Len returns the number of entries, expired ones included.
func (l *SessionLedger) Len() int {
	return len(l.Sessions)
}
