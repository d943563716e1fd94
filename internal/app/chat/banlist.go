/*
Package chat contains the connection, presence, and broadcast engine.

This file defines the Banlist, the set of banned account usernames. It is a
plain set on purpose: privilege checks (a moderator cannot be banned) live in
the session layer so ban policy stays in one place.
*/
package chat

import "sync"

// Banlist owns the ban records.
type Banlist struct {
	mu     sync.RWMutex
	banned map[string]struct{}
}

// NewBanlist seeds a Banlist with the given usernames.
func NewBanlist(seed []string) *Banlist {
	b := &Banlist{banned: make(map[string]struct{}, len(seed))}
	for _, username := range seed {
		b.banned[username] = struct{}{}
	}
	return b
}

// Ban records the username as banned.
func (b *Banlist) Ban(username string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.banned[username] = struct{}{}
}

// Unban lifts the ban on the username.
func (b *Banlist) Unban(username string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.banned, username)
}

// IsBanned reports whether the username is banned.
func (b *Banlist) IsBanned(username string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, ok := b.banned[username]
	return ok
}
