package game

import "sync"

// Registry holds the active sessions, one per channel. It is the only
// shared mutable structure across commands; everything else is owned by a
// single session.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

func (r *Registry) Get(channelID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[channelID]
	return s, ok
}

// Put registers a session, failing when the channel already has one.
func (r *Registry) Put(s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[s.ChannelID]; exists {
		return false
	}
	r.sessions[s.ChannelID] = s
	return true
}

// Take removes and returns the channel's session in one step. Spin calls
// this at entry so no bet or clear can race settlement.
func (r *Registry) Take(channelID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[channelID]
	if ok {
		delete(r.sessions, channelID)
	}
	return s, ok
}

func (r *Registry) Delete(channelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, channelID)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
