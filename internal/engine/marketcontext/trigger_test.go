package marketcontext

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestTriggerStore(cfg TriggerConfig) (*TriggerStore, *time.Time) {
	store := NewTriggerStore(cfg)
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	return store, &now
}

func TestTriggerStore_CooldownAndFingerprintChange(t *testing.T) {
	store, now := newTestTriggerStore(TriggerConfig{
		Cooldown: 5 * time.Minute,
		DailyCap: 10,
	})

	// t=0: first request for F1 fires (no prior fingerprint).
	d := store.Evaluate("X", "F1", "user-1", false)
	assert.True(t, d.Run)
	assert.Equal(t, TriggerFingerprintChanged, d.Reason)

	// t=120s: same fingerprint inside the cooldown window is skipped.
	*now = now.Add(120 * time.Second)
	d = store.Evaluate("X", "F1", "user-1", false)
	assert.False(t, d.Run)
	assert.Equal(t, SkipCooldownActive, d.Reason)

	// t=121s: fingerprint change overrides the cooldown.
	*now = now.Add(1 * time.Second)
	d = store.Evaluate("X", "F2", "user-1", false)
	assert.True(t, d.Run)
	assert.Equal(t, TriggerFingerprintChanged, d.Reason)

	// Cooldown elapsed for the same fingerprint fires again.
	*now = now.Add(5 * time.Minute)
	d = store.Evaluate("X", "F2", "user-1", false)
	assert.True(t, d.Run)
	assert.Equal(t, TriggerCooldownElapsed, d.Reason)
}

func TestTriggerStore_DailyCap(t *testing.T) {
	store, now := newTestTriggerStore(TriggerConfig{
		Cooldown: 5 * time.Minute,
		DailyCap: 10,
	})

	for i := 0; i < 10; i++ {
		d := store.Evaluate("X", "F1", "user-1", false)
		assert.True(t, d.Run, "attempt %d should run", i+1)
		*now = now.Add(6 * time.Minute)
	}

	// The 11th automatic attempt degrades to skip, not an error.
	d := store.Evaluate("X", "F1", "user-1", false)
	assert.False(t, d.Run)
	assert.Equal(t, SkipDailyCapReached, d.Reason)

	// The cap is per calling identity.
	d = store.Evaluate("X", "F1", "user-2", false)
	assert.True(t, d.Run)
}

func TestTriggerStore_ExplicitOverride(t *testing.T) {
	store, now := newTestTriggerStore(TriggerConfig{
		Cooldown: 5 * time.Minute,
		DailyCap: 2,
	})

	// Exhaust the cap with automatic triggers.
	for i := 0; i < 2; i++ {
		assert.True(t, store.Evaluate("X", "F1", "user-1", false).Run)
		*now = now.Add(6 * time.Minute)
	}
	assert.False(t, store.Evaluate("X", "F1", "user-1", false).Run)

	// Explicit user action fires regardless of cooldown and cap.
	d := store.Evaluate("X", "F1", "user-1", true)
	assert.True(t, d.Run)
	assert.Equal(t, TriggerExplicit, d.Reason)

	// It resets the cooldown clock for subsequent automatic requests.
	*now = now.Add(1 * time.Minute)
	d = store.Evaluate("X", "F1", "user-1", false)
	assert.False(t, d.Run)
}

func TestTriggerStore_ExplicitCounted(t *testing.T) {
	store, _ := newTestTriggerStore(TriggerConfig{
		Cooldown:          5 * time.Minute,
		DailyCap:          1,
		CapCountsExplicit: true,
	})

	assert.True(t, store.Evaluate("X", "F1", "user-1", true).Run)

	d := store.Evaluate("X", "F1", "user-1", true)
	assert.False(t, d.Run)
	assert.Equal(t, SkipDailyCapReached, d.Reason)
}

func TestTriggerStore_DayRolloverResetsCount(t *testing.T) {
	store, now := newTestTriggerStore(TriggerConfig{
		Cooldown: time.Minute,
		DailyCap: 1,
	})

	assert.True(t, store.Evaluate("X", "F1", "user-1", false).Run)
	*now = now.Add(2 * time.Minute)
	assert.False(t, store.Evaluate("X", "F1", "user-1", false).Run)

	// New calendar day resets the counter.
	*now = now.Add(24 * time.Hour)
	d := store.Evaluate("X", "F1", "user-1", false)
	assert.True(t, d.Run)
}

func TestTriggerStore_TickersAreIndependent(t *testing.T) {
	store, _ := newTestTriggerStore(TriggerConfig{
		Cooldown: 5 * time.Minute,
		DailyCap: 10,
	})

	assert.True(t, store.Evaluate("X", "F1", "user-1", false).Run)
	assert.True(t, store.Evaluate("Y", "F1", "user-1", false).Run)
	assert.False(t, store.Evaluate("X", "F1", "user-1", false).Run)
}
