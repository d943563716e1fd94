/*
Package handler provides the HTTP handlers and routing setup for the Hellverse chat server.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers (API and WebSocket).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"hvchat/internal/pkg/auth/jwt"
	"hvchat/internal/pkg/limiter"
	"hvchat/internal/pkg/logx"
	"hvchat/internal/pkg/resp"
)

const (
	AuthRate     = 0.1
	AuthBurst    = 3
	ConnectRate  = 0.5
	ConnectBurst = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global and per-route middleware.
func Router(deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)
	connectLimiter := limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]any{
			"status":   "ok",
			"service":  "Hellverse Chat Server",
			"sessions": deps.Hub.SessionCount(),
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		api.Route("/auth", func(auth chi.Router) {
			auth.Use(authLimiter.Middleware)
			auth.Post("/signup", HandleSignup(deps))
			auth.Post("/login", HandleLogin(deps))
		})

		api.Route("/characters", func(chars chi.Router) {
			chars.Get("/", HandleListCharacters(deps))
			chars.Post("/", HandleCreateCharacter(deps))
			chars.Put("/{id}", HandleUpdateCharacter(deps))
			chars.Delete("/{id}", HandleDeleteCharacter(deps))
			chars.Post("/{id}/portrait/presign", HandlePresignPortraitUpload(deps))
			chars.Get("/{id}/portrait", HandlePresignPortraitDownload(deps))
		})

		api.Get("/channels", HandleListChannels(deps))

		api.Route("/admin", func(admin chi.Router) {
			admin.Post("/ban", HandleAdminBan(deps))
			admin.Post("/unban", HandleAdminUnban(deps))
			admin.Post("/channel", HandleAdminCreateChannel(deps))
			admin.Delete("/channel/{name}", HandleAdminDeleteChannel(deps))
		})
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, connectLimiter, deps))

	return r
}
