/*
Package chat contains the connection, presence, and broadcast engine.

This file defines the Registry, the single source of truth for which
connections are live, as which account and character, and in which channel.
*/
package chat

import "sync"

// Registry maps live sessions to their current channel, with a secondary index
// by account for moderation lookups. Every mutation is a single map operation
// under the lock; callers never hold the lock across I/O.
type Registry struct {
	mu sync.RWMutex

	// channels maps each bound session to its current channel name.
	// A session is bound if and only if it has a key here.
	channels map[*Session]string

	// byUser indexes bound sessions by account username. A ban must be able to
	// enumerate every binding the target holds, across channels and devices.
	byUser map[string]map[*Session]struct{}
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[*Session]string),
		byUser:   make(map[string]map[*Session]struct{}),
	}
}

// Bind inserts the session with the given starting channel.
// It returns false if the session is already bound; a connection handle holds
// at most one binding.
func (r *Registry) Bind(s *Session, channel string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.channels[s]; ok {
		return false
	}

	r.channels[s] = channel

	set, ok := r.byUser[s.username]
	if !ok {
		set = make(map[*Session]struct{})
		r.byUser[s.username] = set
	}
	set[s] = struct{}{}

	return true
}

// Unbind removes the session. It is idempotent: unbinding a session that is
// not bound returns false and changes nothing.
func (r *Registry) Unbind(s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.channels[s]; !ok {
		return false
	}

	delete(r.channels, s)

	if set, ok := r.byUser[s.username]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(r.byUser, s.username)
		}
	}

	return true
}

// IsBound reports whether the session currently holds a binding.
func (r *Registry) IsBound(s *Session) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.channels[s]
	return ok
}

// SetChannel atomically replaces the session's current channel.
// It is a no-op for an unbound session.
func (r *Registry) SetChannel(s *Session, channel string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.channels[s]; ok {
		r.channels[s] = channel
	}
}

// ChannelOf returns the session's current channel, or "" if unbound.
func (r *Registry) ChannelOf(s *Session) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.channels[s]
}

// SessionsOf returns every live session bound by the given account.
func (r *Registry) SessionsOf(username string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.byUser[username]
	out := make([]*Session, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	return out
}

// InChannel returns a snapshot of the sessions currently in the named channel.
func (r *Registry) InChannel(channel string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Session
	for s, ch := range r.channels {
		if ch == channel {
			out = append(out, s)
		}
	}
	return out
}

// All returns a snapshot of every bound session.
func (r *Registry) All() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Session, 0, len(r.channels))
	for s := range r.channels {
		out = append(out, s)
	}
	return out
}

// Len returns the number of live bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.channels)
}
