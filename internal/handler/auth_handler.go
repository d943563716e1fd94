/*
Package handler provides HTTP handler functions for account signup and login.
*/
package handler

import (
	"context"
	"net/http"
	"regexp"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"hvchat/internal/app/db"
	"hvchat/internal/pkg/auth/jwt"
	"hvchat/internal/pkg/errs"
	"hvchat/internal/pkg/logx"
	"hvchat/internal/pkg/req"
	"hvchat/internal/pkg/resp"
)

var usernameRegex = regexp.MustCompile(`^[a-z0-9_]{4,20}$`)

type SignupInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleSignup processes the request to create a new account with username and password.
func HandleSignup(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if identity := jwt.GetPayloadFromContext(r); identity != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input SignupInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !usernameRegex.MatchString(input.Username) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidUsername))
			return
		}

		passwordLen := utf8.RuneCountInString(input.Password)
		if passwordLen < 6 || passwordLen > 50 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		// A banned username stays banned; it cannot be re-registered around.
		if deps.Hub.IsBanned(input.Username) {
			resp.RespondError(w, r, errs.NewError(errs.ErrBanned))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		account, err := deps.Store.CreateAccount(r.Context(), input.Username, string(hashedPassword))
		if err != nil {
			if db.IsUniqueViolation(err) {
				logx.Warn("signup conflict: username already exists", "username", input.Username)
				resp.RespondError(w, r, errs.NewError(errs.ErrUserAlreadyExists))
				return
			}

			logx.Error(err, "failed to create account in database")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := deps.Store.UpdateLastLogin(r.Context(), account.Username); err != nil {
			logx.Error(err, "signup: failed to update last_login_at", "username", account.Username)
		}

		payload := &jwt.Payload{
			Username: account.Username,
			Admin:    account.IsAdmin,
		}

		tokenString, err := jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.IdentityExpiration)
		if err != nil {
			logx.Error(err, "failed to generate token after signup")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": tokenString,
			"user": map[string]any{
				"username":    account.Username,
				"admin":       account.IsAdmin,
				"lastLoginAt": time.Now().Format(time.RFC3339),
			},
		})
	}
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin verifies account credentials and issues a JWT token.
// A banned account cannot log in.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if identity := jwt.GetPayloadFromContext(r); identity != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		account, err := deps.Store.GetAccount(r.Context(), input.Username)
		if err != nil {
			logx.Warn("login: account fetch failed", "username", input.Username, "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
			logx.Warn("login: password mismatch", "username", input.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if deps.Hub.IsBanned(account.Username) {
			logx.Info("login rejected: account banned", "username", account.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrBanned))
			return
		}

		go func(username string) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := deps.Store.UpdateLastLogin(ctx, username); err != nil {
				logx.Error(err, "login: failed to update last_login_at", "username", username)
			}
		}(account.Username)

		payload := &jwt.Payload{
			Username: account.Username,
			Admin:    account.IsAdmin,
		}

		token, err := jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.IdentityExpiration)
		if err != nil {
			logx.Error(err, "login: jwt generation failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": token,
			"user": map[string]any{
				"username":    account.Username,
				"admin":       account.IsAdmin,
				"lastLoginAt": time.Now().Format(time.RFC3339),
			},
		})
	}
}
