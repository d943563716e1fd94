/*
Package chat contains the connection, presence, and broadcast engine.

This file defines the Hub, which wires the Registry, Directory, Banlist, and
Router together and implements the operations shared by WebSocket sessions and
the moderation HTTP handlers. The hub holds no ambient state: every session
receives an explicit reference.
*/
package chat

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"hvchat/internal/pkg/errs"
	"hvchat/internal/pkg/logx"
)

const persistTimeout = 5 * time.Second

// AdminLookup resolves whether an account holds moderator privilege.
// Implemented by the database store.
type AdminLookup interface {
	IsAdminAccount(ctx context.Context, username string) (bool, error)
}

// Persister receives ban and channel changes for durability. Writes are
// fire-and-forget: the in-memory state transition never waits on them.
// Implemented by the database store.
type Persister interface {
	InsertBan(ctx context.Context, username, bannedBy string) error
	DeleteBan(ctx context.Context, username string) error
	UpsertChannel(ctx context.Context, name string, protected bool, createdBy string) error
	DeleteChannel(ctx context.Context, name string) error
}

// Hub coordinates the live connection state of the whole server.
type Hub struct {
	registry  *Registry
	directory *Directory
	banlist   *Banlist
	router    *Router

	admins  AdminLookup
	persist Persister

	// msgID issues monotonic chat message ids.
	msgID atomic.Int64

	logger zerolog.Logger
}

// NewHub constructs a Hub. home is the protected default channel; seedChannels
// and seedBans restore directory and moderation state persisted by an earlier
// run. persist may be nil, in which case changes are held in memory only.
func NewHub(home string, seedChannels []string, seedBans []string, admins AdminLookup, persist Persister) *Hub {
	registry := NewRegistry()

	return &Hub{
		registry:  registry,
		directory: NewDirectory(home, seedChannels),
		banlist:   NewBanlist(seedBans),
		router:    NewRouter(registry),
		admins:    admins,
		persist:   persist,
		logger:    logx.Logger().With().Str("component", "Hub").Logger(),
	}
}

// NextMessageID returns the next monotonic chat message id.
func (h *Hub) NextMessageID() int64 {
	return h.msgID.Add(1)
}

// IsBanned reports whether the account is currently banned.
func (h *Hub) IsBanned(username string) bool {
	return h.banlist.IsBanned(username)
}

// Channels returns the current channel directory in sorted order.
func (h *Hub) Channels() []string {
	return h.directory.List()
}

// HomeChannel returns the protected default channel.
func (h *Hub) HomeChannel() string {
	return h.directory.Home()
}

// SessionCount returns the number of live bindings.
func (h *Hub) SessionCount() int {
	return h.registry.Len()
}

// Register binds a freshly handshaken session: it joins the home channel, an
// online presence event goes out globally, and the session alone receives the
// current channel directory so its view is deterministic at join time.
//
// A ban recorded between the handshake check and this call is still caught
// here; no binding is ever created for a banned account.
func (h *Hub) Register(s *Session) *errs.CustomError {
	if h.banlist.IsBanned(s.username) {
		return errs.NewError(errs.ErrBanned)
	}

	if !h.registry.Bind(s, h.directory.Home()) {
		h.logger.Warn().Str("username", s.username).Msg("Session already bound; register ignored.")
		return nil
	}

	h.logger.Info().
		Str("username", s.username).
		Str("character_id", s.characterID).
		Int("total_sessions", h.registry.Len()).
		Msg("Session joined.")

	h.router.Global(NewEvent(EventPresence, PresencePayload{
		CharacterID: s.characterID,
		Character:   s.char,
		Username:    s.username,
		Status:      "online",
		Admin:       s.admin,
	}))

	h.router.ToSession(s, NewEvent(EventChannelsList, ChannelsListPayload{
		Channels: h.directory.List(),
	}))

	return nil
}

// Unregister removes the session's binding and announces the offline presence.
// It is idempotent; unregistering an unbound session changes nothing.
func (h *Hub) Unregister(s *Session) {
	if !h.registry.Unbind(s) {
		return
	}

	h.logger.Info().
		Str("username", s.username).
		Str("character_id", s.characterID).
		Int("total_sessions", h.registry.Len()).
		Msg("Session left.")

	h.router.Global(NewEvent(EventPresence, PresencePayload{
		CharacterID: s.characterID,
		Character:   s.char,
		Username:    s.username,
		Status:      "offline",
		Admin:       s.admin,
	}))
}

// BanUser records a ban and enforces it immediately: every live session the
// target holds, across all channels and devices, receives a banned notice and
// is forcibly terminated, then the ban is announced globally naming the actor.
//
// Moderators cannot be banned. Privilege of the ACTOR is the caller's
// responsibility; the session layer and the admin HTTP handlers both check it
// before calling here.
func (h *Hub) BanUser(ctx context.Context, target, actorName string) *errs.CustomError {
	targetIsAdmin, err := h.admins.IsAdminAccount(ctx, target)
	if err != nil {
		h.logger.Error().Err(err).Str("target", target).Msg("Privilege lookup failed; refusing ban.")
		return errs.NewError(errs.ErrUnknown)
	}
	if targetIsAdmin {
		return errs.NewError(errs.ErrCannotBanAdmin)
	}

	h.banlist.Ban(target)

	sessions := h.registry.SessionsOf(target)
	for _, s := range sessions {
		s.Terminate(BanReasonKick)
	}

	h.logger.Info().
		Str("target", target).
		Str("actor", actorName).
		Int("terminated_sessions", len(sessions)).
		Msg("Account banned.")

	h.router.Global(NewEvent(EventUserBanned, UserBannedPayload{
		Username: target,
		BannedBy: actorName,
	}))

	h.persistAsync("ban", func(ctx context.Context) error {
		return h.persist.InsertBan(ctx, target, actorName)
	})

	return nil
}

// UnbanUser lifts a ban. Existing state is untouched; the account may simply
// connect again.
func (h *Hub) UnbanUser(target string) {
	h.banlist.Unban(target)

	h.logger.Info().Str("target", target).Msg("Account unbanned.")

	h.persistAsync("unban", func(ctx context.Context) error {
		return h.persist.DeleteBan(ctx, target)
	})
}

// CreateChannel adds a channel to the directory and announces it globally.
// Creating an existing channel is idempotent and emits nothing.
func (h *Hub) CreateChannel(name, actorName string) *errs.CustomError {
	normalized := NormalizeChannel(name)
	if normalized == "" {
		return errs.NewError(errs.ErrChannelNameInvalid)
	}

	if !h.directory.Create(normalized) {
		return nil
	}

	h.logger.Info().Str("channel", normalized).Str("actor", actorName).Msg("Channel created.")

	h.router.Global(NewEvent(EventChannelCreated, ChannelLifecyclePayload{
		Name:  normalized,
		Actor: actorName,
	}))

	h.persistAsync("create channel", func(ctx context.Context) error {
		return h.persist.UpsertChannel(ctx, normalized, false, actorName)
	})

	return nil
}

// DeleteChannel removes a channel from the directory and announces it
// globally. Deleting the protected home channel or an unknown name changes
// nothing and emits nothing. Sessions bound to the deleted channel are not
// evicted; they keep their channel name and stop receiving known-channel
// traffic until they switch.
func (h *Hub) DeleteChannel(name, actorName string) *errs.CustomError {
	normalized := NormalizeChannel(name)

	if normalized == h.directory.Home() {
		return errs.NewError(errs.ErrChannelProtected)
	}

	if !h.directory.Delete(normalized) {
		return errs.NewError(errs.ErrChannelNotFound)
	}

	h.logger.Info().Str("channel", normalized).Str("actor", actorName).Msg("Channel deleted.")

	h.router.Global(NewEvent(EventChannelDeleted, ChannelLifecyclePayload{
		Name:  normalized,
		Actor: actorName,
	}))

	h.persistAsync("delete channel", func(ctx context.Context) error {
		return h.persist.DeleteChannel(ctx, normalized)
	})

	return nil
}

// persistAsync hands a durability write to the persistence collaborator
// without blocking the in-memory state transition.
func (h *Hub) persistAsync(what string, fn func(ctx context.Context) error) {
	if h.persist == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			h.logger.Error().Err(err).Str("operation", what).Msg("Persistence write failed.")
		}
	}()
}
