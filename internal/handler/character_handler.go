/*
Package handler provides HTTP handler functions for character management.

Characters are the personas accounts present inside chat; the connection
handshake binds a WebSocket session to exactly one of the caller's characters.
The engine treats their presentation fields (color, species, status) as opaque.
*/
package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"hvchat/internal/app/character"
	"hvchat/internal/app/db"
	"hvchat/internal/pkg/auth/jwt"
	"hvchat/internal/pkg/errs"
	"hvchat/internal/pkg/logx"
	"hvchat/internal/pkg/randx"
	"hvchat/internal/pkg/req"
	"hvchat/internal/pkg/resp"
)

const maxCharacterNameRunes = 40

type CharacterInput struct {
	Name    string `json:"name"`
	Color   string `json:"color"`
	Species string `json:"species"`
	Status  string `json:"status"`
}

func validCharacterName(name string) bool {
	trimmed := strings.TrimSpace(name)
	return trimmed != "" && utf8.RuneCountInString(trimmed) <= maxCharacterNameRunes
}

// HandleListCharacters returns every character owned by the caller.
func HandleListCharacters(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		characters, err := deps.Store.ListCharacters(r.Context(), identity.Username)
		if err != nil {
			logx.Error(err, "failed to list characters", "username", identity.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"characters": characters})
	}
}

// HandleCreateCharacter creates a new character owned by the caller.
func HandleCreateCharacter(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input CharacterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !validCharacterName(input.Name) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		char := character.Character{
			ID:      randx.CharacterID(),
			Owner:   identity.Username,
			Name:    strings.TrimSpace(input.Name),
			Color:   input.Color,
			Species: input.Species,
			Status:  input.Status,
		}

		if err := deps.Store.CreateCharacter(r.Context(), char); err != nil {
			logx.Error(err, "failed to create character", "username", identity.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"character": char})
	}
}

// HandleUpdateCharacter updates the presentation fields of a character owned by the caller.
func HandleUpdateCharacter(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		characterID := chi.URLParam(r, "id")

		existing, err := deps.Store.GetCharacter(r.Context(), characterID)
		if err != nil || existing.Owner != identity.Username {
			resp.RespondError(w, r, errs.NewError(errs.ErrCharacterNotFound))
			return
		}

		var input CharacterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !validCharacterName(input.Name) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		existing.Name = strings.TrimSpace(input.Name)
		existing.Color = input.Color
		existing.Species = input.Species
		existing.Status = input.Status

		if err := deps.Store.UpdateCharacter(r.Context(), existing); err != nil {
			logx.Error(err, "failed to update character", "character_id", characterID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"character": existing})
	}
}

// HandleDeleteCharacter removes a character owned by the caller.
// Live sessions bound to the character are unaffected until they disconnect.
func HandleDeleteCharacter(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		characterID := chi.URLParam(r, "id")

		existing, err := deps.Store.GetCharacter(r.Context(), characterID)
		if err != nil || existing.Owner != identity.Username {
			resp.RespondError(w, r, errs.NewError(errs.ErrCharacterNotFound))
			return
		}

		if err := deps.Store.DeleteCharacter(r.Context(), characterID, identity.Username); err != nil {
			logx.Error(err, "failed to delete character", "character_id", characterID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if existing.PortraitKey != "" {
			if err := deps.Storage.Delete(r.Context(), existing.PortraitKey); err != nil {
				logx.Error(err, "failed to delete portrait object", "key", existing.PortraitKey)
			}
		}

		resp.RespondSuccess(w, r, nil)
	}
}

type PortraitPresignInput struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	FileSize int64  `json:"fileSize"`
}

// HandlePresignPortraitUpload validates the requested portrait file and returns
// a short-lived presigned upload URL. The object key is recorded on the
// character; the client uploads directly to the bucket.
func HandlePresignPortraitUpload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		characterID := chi.URLParam(r, "id")

		existing, err := deps.Store.GetCharacter(r.Context(), characterID)
		if err != nil || existing.Owner != identity.Username {
			resp.RespondError(w, r, errs.NewError(errs.ErrCharacterNotFound))
			return
		}

		var input PortraitPresignInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := character.ValidatePortraitSize(input.FileSize); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if customErr := character.ValidatePortraitType(input.FileName, input.MimeType); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		suffix, err := randx.KeySuffix()
		if err != nil {
			logx.Error(err, "failed to generate portrait key suffix")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		ext := strings.ToLower(filepath.Ext(input.FileName))
		key := fmt.Sprintf("portraits/%s/%s%s", characterID, suffix, ext)

		uploadURL, err := deps.Storage.PresignUpload(
			r.Context(), key, strings.ToLower(input.MimeType), input.FileSize,
			character.PresignedURLDuration,
		)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		if err := deps.Store.SetPortraitKey(r.Context(), characterID, identity.Username, key); err != nil {
			logx.Error(err, "failed to record portrait key", "character_id", characterID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"uploadUrl": uploadURL,
			"key":       key,
		})
	}
}

// HandlePresignPortraitDownload returns a short-lived download URL for a
// character's portrait. Any signed-in account may view any portrait.
func HandlePresignPortraitDownload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		characterID := chi.URLParam(r, "id")

		char, err := deps.Store.GetCharacter(r.Context(), characterID)
		if err != nil {
			if !db.IsNotFound(err) {
				logx.Error(err, "character lookup failed", "character_id", characterID)
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrCharacterNotFound))
			return
		}

		if char.PortraitKey == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrCharacterNotFound))
			return
		}

		downloadURL, err := deps.Storage.PresignDownload(r.Context(), char.PortraitKey, character.PresignedURLDuration)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"downloadUrl": downloadURL})
	}
}
