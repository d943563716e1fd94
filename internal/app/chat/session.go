/*
Package chat contains the connection, presence, and broadcast engine.

This file defines the Session struct, representing one live WebSocket
connection bound to an account and character. It owns the per-connection
lifecycle: inbound event dispatch (ReadPump), outbound delivery (WritePump),
and forced termination.
*/
package chat

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"hvchat/internal/app/character"
	"hvchat/internal/pkg/errs"
	"hvchat/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192

	// MaxContentBytes is the maximum allowed size (in bytes) for message text.
	MaxContentBytes = 2000

	// sendQueueSize is the outbound buffer per connection.
	sendQueueSize = 256

	// WsCloseCodeTerminated is a custom WebSocket Close Code (4000-4999 range)
	// used to signal the client that the server forcibly ended the session.
	WsCloseCodeTerminated = 4001
)

// Forced-termination reasons shown to the affected client.
const (
	BanReasonConnect = "You are banned from this server"
	BanReasonKick    = "You have been banned by an administrator"
)

// Session represents an active WebSocket connection bound to one account and
// one character. Inbound events are processed strictly in arrival order by the
// single ReadPump goroutine; all outbound traffic flows through the buffered
// send queue drained by WritePump.
type Session struct {
	// hub wires the session to the registry, directory, banlist, and router.
	hub *Hub

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// account identity resolved during the handshake.
	username string

	// admin reports moderator privilege, snapshotted at handshake.
	admin bool

	// characterID and char are the persona snapshot presented in chat.
	// The engine only reads them for broadcast payloads.
	characterID string
	char        character.Character

	// send is the buffered outbound queue drained by WritePump.
	send chan []byte

	// quit is closed exactly once to force WritePump to flush and close.
	quit chan struct{}

	// closed flips when the session is terminated; enqueue drops afterwards.
	closed atomic.Bool

	// structured logger with session context.
	logger zerolog.Logger
}

// NewSession constructs a Session for an authenticated, character-bound connection.
func NewSession(hub *Hub, conn *websocket.Conn, username string, admin bool, char character.Character) *Session {
	sessionLogger := logx.Logger().With().
		Str("component", "Session").
		Str("username", username).
		Str("character_id", char.ID).
		Logger()

	return &Session{
		hub:         hub,
		conn:        conn,
		username:    username,
		admin:       admin,
		characterID: char.ID,
		char:        char,
		send:        make(chan []byte, sendQueueSize),
		quit:        make(chan struct{}),
		logger:      sessionLogger,
	}
}

// enqueue queues raw bytes for delivery to this session. It never blocks:
// a full queue or a terminated session drops the event and returns false.
func (s *Session) enqueue(messageBytes []byte) bool {
	if s.closed.Load() {
		return false
	}

	select {
	case s.send <- messageBytes:
		return true
	default:
		return false
	}
}

// Terminate forcibly ends the session: a banned notice is queued for the
// client, then WritePump is told to flush and send a close frame. It is safe
// to call from any goroutine, concurrently with the session's own event
// processing, and is idempotent. The binding is removed when ReadPump observes
// the closed connection and unregisters.
func (s *Session) Terminate(reason string) {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}

	s.logger.Warn().Str("reason", reason).Msg("Session forcibly terminated.")

	notice, err := json.Marshal(NewEvent(EventBanned, BannedPayload{Reason: reason}))
	if err == nil {
		select {
		case s.send <- notice:
		default:
			s.logger.Warn().Msg("Send queue full, dropping termination notice.")
		}
	}

	close(s.quit)
}

// ReadPump reads frames from the WebSocket connection and dispatches them.
// It handles heartbeats (Pong) and performs cleanup on connection closure.
func (s *Session) ReadPump() {
	defer func() {
		s.hub.Unregister(s)

		if err := s.conn.Close(); err != nil {
			s.logger.Debug().Err(err).Msg("Connection close error in ReadPump")
		}
	}()

	s.conn.SetReadLimit(maxMessageSize)

	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Info().Err(err).Msg("Error reading message (client close/going away)")
			}
			break
		}

		s.processInboundEvent(messageBytes)
	}
}

// WritePump writes queued events to the WebSocket connection and sends
// periodic pings. On quit it drains the remaining queue so a banned notice
// reaches the client before the close frame.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := s.conn.Close(); err != nil {
			s.logger.Debug().Err(err).Msg("Connection close error in WritePump")
		}
	}()

	for {
		select {
		case messageBytes := <-s.send:
			if !s.writeQueuedMessage(messageBytes) {
				return
			}

		case <-ticker.C:
			if !s.writePingMessage() {
				return
			}

		case <-s.quit:
			s.flushAndClose()
			return
		}
	}
}

// writeQueuedMessage writes one queued frame.
// Returns false if the WritePump loop should terminate.
func (s *Session) writeQueuedMessage(messageBytes []byte) bool {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if err := s.conn.WriteMessage(websocket.TextMessage, messageBytes); err != nil {
		s.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping to maintain the heartbeat.
// Returns false if the WritePump loop should terminate.
func (s *Session) writePingMessage() bool {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		s.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// flushAndClose drains whatever is left in the send queue and writes the
// close frame for a forced termination.
func (s *Session) flushAndClose() {
	for {
		select {
		case messageBytes := <-s.send:
			if !s.writeQueuedMessage(messageBytes) {
				return
			}
		default:
			closeMessage := websocket.FormatCloseMessage(WsCloseCodeTerminated, "session terminated")

			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.CloseMessage, closeMessage); err != nil {
				s.logger.Debug().Err(err).Msg("Failed to write close frame")
			}
			return
		}
	}
}

// processInboundEvent parses one raw frame and dispatches it by event type.
func (s *Session) processInboundEvent(messageBytes []byte) {
	var envelope Envelope
	if err := json.Unmarshal(messageBytes, &envelope); err != nil {
		s.logger.Warn().Err(err).
			Bytes("message_bytes", messageBytes).
			Msg("Client sent invalid JSON")
		return
	}

	switch envelope.Type {
	case EventMessage:
		s.handleMessage(envelope.Payload)

	case EventTyping:
		s.handleTyping(envelope.Payload)

	case EventJoinChannel:
		s.handleJoinChannel(envelope.Payload)

	case EventAdminBan:
		s.handleAdminBan(envelope.Payload)

	case EventAdminCreateChannel:
		s.handleAdminCreateChannel(envelope.Payload)

	case EventAdminDeleteChannel:
		s.handleAdminDeleteChannel(envelope.Payload)

	default:
		s.logger.Warn().Str("event_type", string(envelope.Type)).Msg("Client sent unsupported event type")
	}
}

// handleMessage validates and broadcasts a chat message.
// The ban flag is re-checked on every send: a ban recorded after the handshake
// takes effect here, terminating the session.
func (s *Session) handleMessage(payloadBytes json.RawMessage) {
	if s.hub.banlist.IsBanned(s.username) {
		s.Terminate(BanReasonConnect)
		return
	}

	if !s.hub.registry.IsBound(s) {
		// Send discovered from an already-unbound handle; drop it.
		s.logger.Debug().Msg("Dropping message from unbound session.")
		return
	}

	var payload MessagePayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		s.logger.Warn().Err(err).Msg("Client sent invalid message payload")
		return
	}

	if payload.Text == "" {
		return
	}

	if len(payload.Text) > MaxContentBytes {
		s.SendError(errs.NewError(errs.ErrMessageContentTooLong))
		return
	}

	kind := payload.Kind
	if !kind.Valid() {
		kind = KindNormal
	}

	// Explicit target channel does not change the binding's channel.
	target := NormalizeChannel(payload.Channel)
	if target == "" {
		target = s.hub.registry.ChannelOf(s)
	}

	record := MessageRecord{
		ID:          s.hub.NextMessageID(),
		CharacterID: s.characterID,
		Character:   s.char,
		Username:    s.username,
		Admin:       s.admin,
		Text:        payload.Text,
		Kind:        kind,
		Timestamp:   time.Now().UTC(),
	}

	s.hub.router.ToChannel(target, NewEvent(EventMessage, record))
}

// handleTyping relays the typing state to the other sessions in the channel.
// No persistence, no dedup; last write wins.
func (s *Session) handleTyping(payloadBytes json.RawMessage) {
	var payload TypingPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		s.logger.Warn().Err(err).Msg("Client sent invalid typing payload")
		return
	}

	channel := NormalizeChannel(payload.Channel)
	if channel == "" {
		channel = s.hub.registry.ChannelOf(s)
	}

	broadcast := TypingBroadcast{
		CharacterID: s.characterID,
		Character:   s.char,
		Typing:      payload.Typing,
	}

	s.hub.router.ToChannelExcept(channel, s, NewEvent(EventTyping, broadcast))
}

// handleJoinChannel atomically replaces the session's current channel.
//
// The requested name is deliberately not validated against the directory: a
// session switched to an unknown channel simply receives no channel-scoped
// broadcasts until it switches again. Candidate correctness fix, kept as-is
// for client compatibility.
func (s *Session) handleJoinChannel(payloadBytes json.RawMessage) {
	var payload JoinChannelPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		s.logger.Warn().Err(err).Msg("Client sent invalid join_channel payload")
		return
	}

	channel := NormalizeChannel(payload.Channel)
	if channel == "" {
		return
	}

	s.hub.registry.SetChannel(s, channel)
	s.logger.Info().Str("channel", channel).Msg("Session switched channel.")
}

// handleAdminBan processes a moderator ban request. Requests from
// non-moderators are ignored without error, as are bans targeting moderators.
func (s *Session) handleAdminBan(payloadBytes json.RawMessage) {
	if !s.admin {
		s.logger.Debug().Msg("Ignoring admin_ban from non-moderator.")
		return
	}

	var payload AdminBanPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		s.logger.Warn().Err(err).Msg("Client sent invalid admin_ban payload")
		return
	}

	if payload.TargetUser == "" {
		return
	}

	if customErr := s.hub.BanUser(context.Background(), payload.TargetUser, s.char.Name); customErr != nil {
		s.logger.Info().
			Str("target", payload.TargetUser).
			Int("code", customErr.Code).
			Msg("Ban request rejected.")
	}
}

// handleAdminCreateChannel processes a moderator channel-create request.
func (s *Session) handleAdminCreateChannel(payloadBytes json.RawMessage) {
	if !s.admin {
		s.logger.Debug().Msg("Ignoring admin_create_channel from non-moderator.")
		return
	}

	var payload AdminChannelPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		s.logger.Warn().Err(err).Msg("Client sent invalid admin_create_channel payload")
		return
	}

	if customErr := s.hub.CreateChannel(payload.Name, s.char.Name); customErr != nil {
		s.logger.Info().
			Str("channel", payload.Name).
			Int("code", customErr.Code).
			Msg("Channel create rejected.")
	}
}

// handleAdminDeleteChannel processes a moderator channel-delete request.
func (s *Session) handleAdminDeleteChannel(payloadBytes json.RawMessage) {
	if !s.admin {
		s.logger.Debug().Msg("Ignoring admin_delete_channel from non-moderator.")
		return
	}

	var payload AdminChannelPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		s.logger.Warn().Err(err).Msg("Client sent invalid admin_delete_channel payload")
		return
	}

	if customErr := s.hub.DeleteChannel(payload.Name, s.char.Name); customErr != nil {
		s.logger.Debug().
			Str("channel", payload.Name).
			Int("code", customErr.Code).
			Msg("Channel delete ignored.")
	}
}

// SendError reports a rejected inbound event back to this session only.
func (s *Session) SendError(customErr *errs.CustomError) {
	event := NewEvent(EventError, ErrorPayload{
		Code:    customErr.Code,
		Message: customErr.Message,
	})

	messageBytes, err := json.Marshal(event)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error marshaling error event")
		return
	}

	if !s.enqueue(messageBytes) {
		s.logger.Warn().Msg("Failed to queue error event.")
	}
}
