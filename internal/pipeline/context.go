package pipeline

import (
	"sync"

	"github.com/tgo/gridsense/internal/weather"
)

// Context is the per-session state bag shared across pipeline steps.
// Each step reads the outputs of prior steps from here and writes its own
// back. Field semantics:
//
//   - Latitude/Longitude: set by ResolveLocation, consumed by LoadDataset.
//   - Dataset: nil until LoadDataset succeeds. FilterDataset replaces it
//     in place and may leave it empty but non-nil (a zero-match filter is
//     success, not an error); nil and empty are therefore distinct states.
//   - ChartRefs: set by RenderCharts to the artifact names it persisted.
type Context struct {
	Latitude  *float64
	Longitude *float64
	Dataset   []weather.Record
	ChartRefs []string
}

type sessionState struct {
	mu  sync.Mutex
	ctx *Context
}

// ContextStore keys pipeline contexts by session ID. Acquire hands out
// the context with its per-session lock held, so steps for one session
// are serialized while different sessions proceed independently.
type ContextStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionState
}

func NewContextStore() *ContextStore {
	return &ContextStore{
		sessions: make(map[string]*sessionState),
	}
}

// Acquire returns the session's context, creating it empty on first use.
// The per-session lock is held until the returned release func is called;
// callers must release on every exit path.
func (s *ContextStore) Acquire(sessionID string) (*Context, func()) {
	s.mu.Lock()
	state, ok := s.sessions[sessionID]
	if !ok {
		state = &sessionState{ctx: &Context{}}
		s.sessions[sessionID] = state
	}
	s.mu.Unlock()

	state.mu.Lock()
	return state.ctx, state.mu.Unlock
}

// Delete drops a session's context.
func (s *ContextStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
