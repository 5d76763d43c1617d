package model_test

import (
	"fmt"
	"testing"
	"time"

	"xandar-lab/internal/auth/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSession(id string, lastActive time.Time) model.Session {
	return model.Session{
		ID:           id,
		Device:       "test-device",
		CreatedAt:    lastActive,
		LastActiveAt: lastActive,
		ExpiresAt:    lastActive.Add(7 * 24 * time.Hour),
	}
}

func TestSessionLedger_AdmitUnderCapacity(t *testing.T) {
	now := time.Now()
	ledger := model.NewSessionLedger(nil, 10)

	ledger.Admit(makeSession("a", now))
	ledger.Admit(makeSession("b", now.Add(time.Minute)))

	assert.Equal(t, 2, ledger.Len())
	assert.NotNil(t, ledger.Find("a", now))
	assert.NotNil(t, ledger.Find("b", now))
}

func TestSessionLedger_AdmitEvictsOldestAtCapacity(t *testing.T) {
	now := time.Now()
	sessions := make([]model.Session, 0, 10)
	for i := 0; i < 10; i++ {
		sessions = append(sessions, makeSession(fmt.Sprintf("s%d", i), now.Add(time.Duration(i)*time.Minute)))
	}
	ledger := model.NewSessionLedger(sessions, 10)

	ledger.Admit(makeSession("new", now.Add(time.Hour)))

	assert.Equal(t, 10, ledger.Len())
	assert.Nil(t, ledger.Find("s0", now), "least recently active entry should be evicted")
	assert.NotNil(t, ledger.Find("s1", now))
	assert.NotNil(t, ledger.Find("new", now))
}

func TestSessionLedger_EvictionTieBreaksFirstFound(t *testing.T) {
	now := time.Now()
	same := now.Add(-time.Hour)
	sessions := []model.Session{
		makeSession("first", same),
		makeSession("second", same),
		makeSession("third", now),
	}
	ledger := model.NewSessionLedger(sessions, 3)

	ledger.Admit(makeSession("new", now))

	assert.Nil(t, ledger.Find("first", now), "tie on LastActiveAt evicts the first encountered")
	assert.NotNil(t, ledger.Find("second", now))
	assert.NotNil(t, ledger.Find("third", now))
}

func TestSessionLedger_AdmitDrainsOverCapacityLedger(t *testing.T) {
	// A ledger can arrive over capacity (e.g. after the cap was lowered).
	// Admit keeps evicting until the new entry fits the cap.
	now := time.Now()
	sessions := make([]model.Session, 0, 12)
	for i := 0; i < 12; i++ {
		sessions = append(sessions, makeSession(fmt.Sprintf("s%d", i), now.Add(time.Duration(i)*time.Minute)))
	}
	ledger := model.NewSessionLedger(sessions, 10)

	ledger.Admit(makeSession("new", now.Add(time.Hour)))

	assert.Equal(t, 10, ledger.Len())
	assert.NotNil(t, ledger.Find("new", now))
	assert.Nil(t, ledger.Find("s0", now))
	assert.Nil(t, ledger.Find("s1", now))
	assert.Nil(t, ledger.Find("s2", now))
}

func TestSessionLedger_DefaultCapacity(t *testing.T) {
	ledger := model.NewSessionLedger(nil, 0)
	assert.Equal(t, model.DefaultMaxSessions, ledger.Capacity)

	ledger = model.NewSessionLedger(nil, -5)
	assert.Equal(t, model.DefaultMaxSessions, ledger.Capacity)
}

func TestSessionLedger_FindIgnoresExpired(t *testing.T) {
	now := time.Now()
	expired := makeSession("old", now.Add(-30*24*time.Hour))
	expired.ExpiresAt = now.Add(-time.Hour)
	ledger := model.NewSessionLedger([]model.Session{expired}, 10)

	assert.Nil(t, ledger.Find("old", now))
	assert.Equal(t, 1, ledger.Len(), "expired entries are filtered, not purged")
}

func TestSessionLedger_Revoke(t *testing.T) {
	now := time.Now()
	ledger := model.NewSessionLedger([]model.Session{
		makeSession("a", now),
		makeSession("b", now),
	}, 10)

	require.True(t, ledger.Revoke("a"))
	assert.Nil(t, ledger.Find("a", now))
	assert.NotNil(t, ledger.Find("b", now))

	assert.False(t, ledger.Revoke("a"), "revoking twice reports no removal")
	assert.False(t, ledger.Revoke("missing"))
}

func TestSessionLedger_RevokeAllExcept(t *testing.T) {
	now := time.Now()
	ledger := model.NewSessionLedger([]model.Session{
		makeSession("a", now),
		makeSession("keep", now),
		makeSession("c", now),
	}, 10)

	ledger.RevokeAllExcept("keep")

	require.Equal(t, 1, ledger.Len())
	assert.NotNil(t, ledger.Find("keep", now))
}

func TestSessionLedger_RevokeAllExceptMissingIDEmptiesLedger(t *testing.T) {
	now := time.Now()
	ledger := model.NewSessionLedger([]model.Session{
		makeSession("a", now),
		makeSession("b", now),
	}, 10)

	ledger.RevokeAllExcept("not-present")

	assert.Equal(t, 0, ledger.Len())
}

func TestSessionLedger_ActiveSortsAndFlagsCurrent(t *testing.T) {
	now := time.Now()
	expired := makeSession("expired", now.Add(-time.Hour))
	expired.ExpiresAt = now.Add(-time.Minute)

	ledger := model.NewSessionLedger([]model.Session{
		makeSession("oldest", now.Add(-2*time.Hour)),
		expired,
		makeSession("newest", now),
		makeSession("middle", now.Add(-time.Hour)),
	}, 10)

	views := ledger.Active(now, "middle")

	require.Len(t, views, 3)
	assert.Equal(t, "newest", views[0].ID)
	assert.Equal(t, "middle", views[1].ID)
	assert.Equal(t, "oldest", views[2].ID)
	assert.False(t, views[0].Current)
	assert.True(t, views[1].Current)
	assert.False(t, views[2].Current)
}

func TestSessionLedger_TouchUpdatesLastActive(t *testing.T) {
	now := time.Now()
	ledger := model.NewSessionLedger([]model.Session{
		makeSession("a", now.Add(-time.Hour)),
		makeSession("b", now),
	}, 10)

	later := now.Add(time.Minute)
	ledger.Touch("a", later)

	views := ledger.Active(later, "a")
	require.Len(t, views, 2)
	assert.Equal(t, "a", views[0].ID, "touched session becomes most recently active")
	assert.Equal(t, later, views[0].LastActiveAt)
}
