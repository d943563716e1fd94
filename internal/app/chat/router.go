/*
Package chat contains the connection, presence, and broadcast engine.

This file defines the Router, the fan-out engine that delivers an event to
exactly the sessions bound to a target channel, or to all sessions for global
events.
*/
package chat

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"hvchat/internal/pkg/logx"
)

// Router fans outbound events out to recipient sessions.
//
// Delivery is best-effort: a recipient whose send queue is saturated is
// skipped with a log line and never blocks or fails delivery to the others.
// Delivery to a terminated session is a silent no-op. Events emitted by one
// goroutine reach each recipient in emit order, because each emit finishes
// queueing to every recipient before returning.
type Router struct {
	registry *Registry
	logger   zerolog.Logger
}

// NewRouter builds a Router over the given registry.
func NewRouter(registry *Registry) *Router {
	return &Router{
		registry: registry,
		logger:   logx.Logger().With().Str("component", "Router").Logger(),
	}
}

// Global delivers the event to every bound session.
func (r *Router) Global(e Event) {
	r.deliver(r.registry.All(), nil, e)
}

// ToChannel delivers the event to every session currently in the named channel.
func (r *Router) ToChannel(channel string, e Event) {
	r.deliver(r.registry.InChannel(channel), nil, e)
}

// ToChannelExcept delivers the event to every session in the named channel
// other than except.
func (r *Router) ToChannelExcept(channel string, except *Session, e Event) {
	r.deliver(r.registry.InChannel(channel), except, e)
}

// ToSession delivers the event to a single session.
func (r *Router) ToSession(s *Session, e Event) {
	r.deliver([]*Session{s}, nil, e)
}

// deliver marshals the event once and enqueues it on each recipient.
func (r *Router) deliver(recipients []*Session, except *Session, e Event) {
	if len(recipients) == 0 {
		return
	}

	messageBytes, err := json.Marshal(e)
	if err != nil {
		r.logger.Error().Err(err).Str("event_type", string(e.Type)).Msg("Error marshaling event for delivery.")
		return
	}

	for _, s := range recipients {
		if s == except {
			continue
		}
		if !s.enqueue(messageBytes) {
			r.logger.Warn().
				Str("username", s.username).
				Str("character_id", s.characterID).
				Str("event_type", string(e.Type)).
				Msg("Recipient send queue full or session closed, skipping.")
		}
	}
}
