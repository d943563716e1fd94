/*
Package handler provides the HTTP handlers and routing setup for the Hellverse chat server.

This file contains the HandleWebSocket function: the connection handshake. It
validates the bearer credential and the selected character, checks the ban
list, upgrades the HTTP connection to WebSocket, and starts the session
lifecycle. Every rejection happens before any shared state is created.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"hvchat/internal/app/chat"
	"hvchat/internal/app/db"
	"hvchat/internal/pkg/auth/jwt"
	"hvchat/internal/pkg/errs"
	"hvchat/internal/pkg/limiter"
	"hvchat/internal/pkg/logx"
	"hvchat/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
//
// The handshake carries the credential and character id as query parameters
// ("token" and "character"). Failures are distinct and terminal: auth required,
// character selection required, invalid token, invalid character, banned.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rateLimiter.AllowRequest(r) {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "remote_addr", r.RemoteAddr)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		query := r.URL.Query()
		tokenString := query.Get("token")
		characterID := query.Get("character")

		if tokenString == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrAuthRequired))
			return
		}
		if characterID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrCharacterRequired))
			return
		}

		payload, err := jwt.ParseToken(tokenString, deps.Config.JWTSecret)
		if err != nil {
			logx.Warn("WebSocket connection rejected: Invalid token.", "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidToken))
			return
		}

		char, err := deps.Store.GetCharacter(r.Context(), characterID)
		if err != nil {
			if !db.IsNotFound(err) {
				logx.Error(err, "Character lookup failed during handshake", "character_id", characterID)
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCharacter))
			return
		}
		if char.Owner != payload.Username {
			logx.Warn("WebSocket connection rejected: Character not owned by account.",
				"username", payload.Username, "character_id", characterID)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCharacter))
			return
		}

		if deps.Hub.IsBanned(payload.Username) {
			logx.Info("WebSocket connection rejected: Account banned.", "username", payload.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrBanned))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		session := chat.NewSession(deps.Hub, conn, payload.Username, payload.Admin, char)

		go session.WritePump()

		// A ban recorded between the check above and now is caught by Register.
		if customErr := deps.Hub.Register(session); customErr != nil {
			session.Terminate(chat.BanReasonConnect)
		}

		logx.Info("WebSocket connection established",
			"username", payload.Username, "character_id", characterID)

		session.ReadPump()
	}
}
