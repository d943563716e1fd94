/*
Package chat contains the connection, presence, and broadcast engine.

This file defines the Directory, the set of existing channel names.
*/
package chat

import (
	"sort"
	"strings"
	"sync"
)

// Directory owns the channel name set. Names are case-insensitive and trimmed;
// the home channel is protected and can never be deleted.
type Directory struct {
	mu       sync.RWMutex
	home     string
	channels map[string]struct{}
}

// NormalizeChannel canonicalizes a channel name: trimmed and lower-cased.
func NormalizeChannel(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewDirectory seeds a Directory with the given channels. The home channel is
// always present regardless of the seed list.
func NewDirectory(home string, seed []string) *Directory {
	d := &Directory{
		home:     NormalizeChannel(home),
		channels: make(map[string]struct{}),
	}
	d.channels[d.home] = struct{}{}

	for _, name := range seed {
		if n := NormalizeChannel(name); n != "" {
			d.channels[n] = struct{}{}
		}
	}

	return d
}

// Home returns the protected default channel name.
func (d *Directory) Home() string {
	return d.home
}

// Create adds the named channel. Creating an existing channel is idempotent;
// the return value reports whether the directory actually changed.
func (d *Directory) Create(name string) bool {
	n := NormalizeChannel(name)
	if n == "" {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.channels[n]; ok {
		return false
	}
	d.channels[n] = struct{}{}
	return true
}

// Delete removes the named channel. Deleting the home channel or an unknown
// name is a no-op; the return value reports whether the directory changed.
func (d *Directory) Delete(name string) bool {
	n := NormalizeChannel(name)

	d.mu.Lock()
	defer d.mu.Unlock()

	if n == d.home {
		return false
	}
	if _, ok := d.channels[n]; !ok {
		return false
	}
	delete(d.channels, n)
	return true
}

// Has reports whether the named channel exists.
func (d *Directory) Has(name string) bool {
	n := NormalizeChannel(name)

	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.channels[n]
	return ok
}

// List returns the channel names in sorted order.
func (d *Directory) List() []string {
	d.mu.RLock()
	out := make([]string, 0, len(d.channels))
	for name := range d.channels {
		out = append(out, name)
	}
	d.mu.RUnlock()

	sort.Strings(out)
	return out
}
