/*
Package handler provides HTTP handler functions for moderator actions.

These mirror the moderator WebSocket events: bans and channel lifecycle go
through the same Hub operations, so an HTTP ban terminates live connections
and broadcasts exactly like a socket-initiated one. Unlike the socket path,
privilege failures here answer with an explicit error.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hvchat/internal/pkg/auth/jwt"
	"hvchat/internal/pkg/errs"
	"hvchat/internal/pkg/req"
	"hvchat/internal/pkg/resp"
)

// requireAdmin extracts the caller's identity and checks moderator privilege.
func requireAdmin(w http.ResponseWriter, r *http.Request) *jwt.Payload {
	identity := jwt.GetPayloadFromContext(r)
	if identity == nil {
		resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
		return nil
	}
	if !identity.Admin {
		resp.RespondError(w, r, errs.NewError(errs.ErrAdminRequired))
		return nil
	}
	return identity
}

type AdminBanInput struct {
	Username string `json:"username"`
}

// HandleAdminBan bans an account and forcibly terminates all of its live sessions.
func HandleAdminBan(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := requireAdmin(w, r)
		if identity == nil {
			return
		}

		var input AdminBanInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if input.Username == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if customErr := deps.Hub.BanUser(r.Context(), input.Username, identity.Username); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"banned": input.Username})
	}
}

// HandleAdminUnban lifts a ban; the account may then connect again.
func HandleAdminUnban(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := requireAdmin(w, r)
		if identity == nil {
			return
		}

		var input AdminBanInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if input.Username == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		deps.Hub.UnbanUser(input.Username)

		resp.RespondSuccess(w, r, map[string]any{"unbanned": input.Username})
	}
}

type AdminChannelInput struct {
	Name string `json:"name"`
}

// HandleAdminCreateChannel adds a channel to the directory.
func HandleAdminCreateChannel(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := requireAdmin(w, r)
		if identity == nil {
			return
		}

		var input AdminChannelInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := deps.Hub.CreateChannel(input.Name, identity.Username); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"channels": deps.Hub.Channels()})
	}
}

// HandleAdminDeleteChannel removes a channel from the directory.
// The protected home channel cannot be deleted.
func HandleAdminDeleteChannel(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := requireAdmin(w, r)
		if identity == nil {
			return
		}

		name := chi.URLParam(r, "name")

		if customErr := deps.Hub.DeleteChannel(name, identity.Username); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"channels": deps.Hub.Channels()})
	}
}

// HandleListChannels returns the current channel directory.
func HandleListChannels(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{"channels": deps.Hub.Channels()})
	}
}
