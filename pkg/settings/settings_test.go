package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	t.Run("should enable stream and eager exclusively", func(t *testing.T) {
		store := NewStore(Snapshot{})

		store.SetStreamResults(true)
		snap := store.Get()
		assert.True(t, snap.StreamResults)
		assert.False(t, snap.EagerMode)

		store.SetEagerMode(true)
		snap = store.Get()
		assert.False(t, snap.StreamResults)
		assert.True(t, snap.EagerMode)

		store.SetStreamResults(true)
		snap = store.Get()
		assert.True(t, snap.StreamResults)
		assert.False(t, snap.EagerMode)
	})

	t.Run("should allow both off", func(t *testing.T) {
		store := NewStore(Snapshot{StreamResults: true})

		store.SetStreamResults(false)
		snap := store.Get()
		assert.False(t, snap.StreamResults)
		assert.False(t, snap.EagerMode)

		// Turning one off never turns the other on
		store.SetEagerMode(false)
		assert.False(t, store.Get().StreamResults)
	})

	t.Run("should resolve a conflicting initial snapshot toward streaming", func(t *testing.T) {
		store := NewStore(Snapshot{StreamResults: true, EagerMode: true})
		snap := store.Get()
		assert.True(t, snap.StreamResults)
		assert.False(t, snap.EagerMode)
	})

	t.Run("should notify subscribers with the new snapshot", func(t *testing.T) {
		store := NewStore(Snapshot{})

		var seen []Snapshot
		unsubscribe := store.Subscribe(func(s Snapshot) {
			seen = append(seen, s)
		})

		store.SetEagerMode(true)
		store.SetVoice("aura-2-thalia-en")

		require.Len(t, seen, 2)
		assert.True(t, seen[0].EagerMode)
		assert.Equal(t, "aura-2-thalia-en", seen[1].Voice)

		unsubscribe()
		store.SetUserID("other")
		assert.Len(t, seen, 2)
	})

	t.Run("should carry voice and user id", func(t *testing.T) {
		store := NewStore(Snapshot{Voice: "aura-2-thalia-en", UserID: "dev_user"})
		store.SetVoice("aura-2-luna-en")
		store.SetUserID("alice")

		snap := store.Get()
		assert.Equal(t, "aura-2-luna-en", snap.Voice)
		assert.Equal(t, "alice", snap.UserID)
	})
}
