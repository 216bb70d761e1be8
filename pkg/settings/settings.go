// Package settings holds the user preferences the chat pipeline consults at
// runtime. The store is an explicit object handed to the components that need
// it, with change notification for anything rendering its state.
package settings

import "sync"

// Snapshot is an immutable copy of the settings at one point in time.
type Snapshot struct {
	// StreamResults renders assistant output delta by delta as it arrives.
	StreamResults bool
	// EagerMode auto-plays finalized assistant messages through TTS.
	// Mutually exclusive with StreamResults.
	EagerMode bool
	// Voice is the TTS voice identifier.
	Voice string
	// UserID identifies the local user to the backend.
	UserID string
}

// Store guards settings behind a mutex and notifies subscribers on change.
// Enabling StreamResults disables EagerMode and vice versa; the exclusion
// lives in the setters so callers cannot depend on update ordering.
type Store struct {
	mu   sync.Mutex
	snap Snapshot
	subs map[int]func(Snapshot)
	next int
}

// NewStore creates a store from an initial snapshot. If both exclusive modes
// are set, streaming wins and eager mode is dropped.
func NewStore(initial Snapshot) *Store {
	if initial.StreamResults && initial.EagerMode {
		initial.EagerMode = false
	}
	return &Store{
		snap: initial,
		subs: make(map[int]func(Snapshot)),
	}
}

// Get returns the current snapshot.
func (s *Store) Get() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe registers a change listener and returns its unsubscribe func.
// Listeners run synchronously on the mutating goroutine, after the lock is
// released.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// SetStreamResults toggles streaming display. Turning it on turns eager mode
// off.
func (s *Store) SetStreamResults(on bool) {
	s.update(func(snap *Snapshot) {
		snap.StreamResults = on
		if on {
			snap.EagerMode = false
		}
	})
}

// SetEagerMode toggles auto-playback of finalized messages. Turning it on
// turns streaming display off.
func (s *Store) SetEagerMode(on bool) {
	s.update(func(snap *Snapshot) {
		snap.EagerMode = on
		if on {
			snap.StreamResults = false
		}
	})
}

// SetVoice changes the TTS voice.
func (s *Store) SetVoice(voice string) {
	s.update(func(snap *Snapshot) {
		snap.Voice = voice
	})
}

// SetUserID changes the user identifier sent with requests.
func (s *Store) SetUserID(id string) {
	s.update(func(snap *Snapshot) {
		snap.UserID = id
	})
}

func (s *Store) update(mutate func(*Snapshot)) {
	s.mu.Lock()
	mutate(&s.snap)
	snap := s.snap
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
