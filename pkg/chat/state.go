package chat

import "sync"

// State is the single shared session state tree. It only changes through the
// Store's named transitions.
type State struct {
	CurrentThreadID  string
	IsStreaming      bool
	SelectedModel    string
	MessagesByThread map[string][]Message
}

func newState() State {
	return State{
		MessagesByThread: make(map[string][]Message),
	}
}

// Store serializes every state transition behind one mutex. Each transition
// applies atomically; readers only ever observe a fully-applied state via
// Snapshot.
type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{state: newState()}
}

// Snapshot returns a deep copy of the current state. Mutating the copy never
// touches the store.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.state
	snap.MessagesByThread = make(map[string][]Message, len(s.state.MessagesByThread))
	for threadID, msgs := range s.state.MessagesByThread {
		bucket := make([]Message, len(msgs))
		copy(bucket, msgs)
		snap.MessagesByThread[threadID] = bucket
	}
	return snap
}

// SetCurrentThread makes threadID the active conversation. Empty means no
// thread (a fresh conversation that the server has not acknowledged yet).
func (s *Store) SetCurrentThread(threadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentThreadID = threadID
}

// SetStreaming flips the streaming-in-progress flag.
func (s *Store) SetStreaming(streaming bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsStreaming = streaming
}

// SetSelectedModel records the model id new sends default to.
func (s *Store) SetSelectedModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedModel = model
}

// ReplaceMessages swaps threadID's bucket for msgs wholesale, preserving the
// given order. The slice is copied in so the caller can keep appending to
// its own.
func (s *Store) ReplaceMessages(threadID string, msgs []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := make([]Message, len(msgs))
	copy(bucket, msgs)
	s.state.MessagesByThread[threadID] = bucket
}

// Messages returns a copy of one thread's bucket.
func (s *Store) Messages(threadID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.state.MessagesByThread[threadID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// CurrentThreadID returns the active thread id, empty when none.
func (s *Store) CurrentThreadID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CurrentThreadID
}

// IsStreaming reports whether a send is mid-stream.
func (s *Store) IsStreaming() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsStreaming
}

// SelectedModel returns the model id new sends default to.
func (s *Store) SelectedModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SelectedModel
}

// Reset restores the all-defaults state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = newState()
}
