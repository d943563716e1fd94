package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"hvchat/internal/app/chat"
	"hvchat/internal/configs"
	"hvchat/internal/pkg/auth/jwt"
	"hvchat/internal/pkg/errs"
	"hvchat/internal/pkg/limiter"
	"hvchat/internal/pkg/resp"
)

type stubAdminLookup map[string]bool

func (a stubAdminLookup) IsAdminAccount(_ context.Context, username string) (bool, error) {
	return a[username], nil
}

// newTestDeps builds handler dependencies with no database. Only paths that
// reject before touching the store are exercised here.
func newTestDeps() *AppDeps {
	return &AppDeps{
		Hub: chat.NewHub("main", []string{"main", "general"}, nil, stubAdminLookup{}, nil),
		Config: &configs.AppConfig{
			Environment: "development",
			JWTSecret:   "test-secret",
		},
	}
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) resp.JSONResponse {
	t.Helper()
	var body resp.JSONResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func withIdentity(r *http.Request, payload *jwt.Payload) *http.Request {
	ctx := context.WithValue(r.Context(), jwt.ContextAuthPayloadKey, payload)
	return r.WithContext(ctx)
}

func jsonRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r.RemoteAddr = "192.0.2.10:50000"
	return r
}

func TestHandleWebSocketHandshakeRejections(t *testing.T) {
	deps := newTestDeps()
	upgrader := websocket.Upgrader{}

	tests := []struct {
		name     string
		target   string
		wantCode int
	}{
		{"missing token", "/ws", errs.ErrAuthRequired},
		{"missing character", "/ws?token=abc", errs.ErrCharacterRequired},
		{"invalid token", "/ws?token=abc&character=c1", errs.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := HandleWebSocket(upgrader, limiter.NewIPRateLimiter(rate.Limit(100), 100), deps)

			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			r.RemoteAddr = "192.0.2.10:50000"
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)

			if body := decodeResponse(t, rec); body.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", body.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleWebSocketRateLimited(t *testing.T) {
	deps := newTestDeps()
	h := HandleWebSocket(websocket.Upgrader{}, limiter.NewIPRateLimiter(rate.Limit(0.01), 1), deps)

	for i := 0; i < 2; i++ {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		r.RemoteAddr = "192.0.2.10:50000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)

		body := decodeResponse(t, rec)
		switch i {
		case 0:
			if body.Code != errs.ErrAuthRequired {
				t.Fatalf("first request code = %d, want %d", body.Code, errs.ErrAuthRequired)
			}
		case 1:
			if body.Code != errs.ErrRateLimitExceeded {
				t.Fatalf("second request code = %d, want %d", body.Code, errs.ErrRateLimitExceeded)
			}
		}
	}
}

func TestHandleSignupValidation(t *testing.T) {
	deps := newTestDeps()

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"uppercase username", `{"username":"Alice","password":"secret123"}`, errs.ErrInvalidUsername},
		{"short username", `{"username":"ab","password":"secret123"}`, errs.ErrInvalidUsername},
		{"short password", `{"username":"alice","password":"12345"}`, errs.ErrInvalidPassword},
		{"long password", `{"username":"alice","password":"` + strings.Repeat("x", 51) + `"}`, errs.ErrInvalidPassword},
		{"unknown field", `{"username":"alice","password":"secret123","extra":1}`, errs.ErrInvalidJSONFormat},
		{"broken json", `{"username":`, errs.ErrInvalidJSONFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleSignup(deps).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/auth/signup", tt.body))

			if body := decodeResponse(t, rec); body.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", body.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleSignupBannedUsernameRefused(t *testing.T) {
	deps := newTestDeps()
	if customErr := deps.Hub.BanUser(context.Background(), "troll", "mod"); customErr != nil {
		t.Fatalf("BanUser = %v", customErr)
	}

	rec := httptest.NewRecorder()
	HandleSignup(deps).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/auth/signup", `{"username":"troll","password":"secret123"}`))

	if body := decodeResponse(t, rec); body.Code != errs.ErrBanned {
		t.Fatalf("code = %d, want %d", body.Code, errs.ErrBanned)
	}
}

func TestHandleSignupWhileLoggedIn(t *testing.T) {
	deps := newTestDeps()

	r := withIdentity(jsonRequest(http.MethodPost, "/api/auth/signup", `{"username":"alice","password":"secret123"}`), &jwt.Payload{Username: "alice"})
	rec := httptest.NewRecorder()
	HandleSignup(deps).ServeHTTP(rec, r)

	if body := decodeResponse(t, rec); body.Code != errs.ErrAlreadyLoggedIn {
		t.Fatalf("code = %d, want %d", body.Code, errs.ErrAlreadyLoggedIn)
	}
}

func TestHandleLoginRequiresJSON(t *testing.T) {
	deps := newTestDeps()

	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("username=alice"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	HandleLogin(deps).ServeHTTP(rec, r)

	if body := decodeResponse(t, rec); body.Code != errs.ErrUnsupportedMediaType {
		t.Fatalf("code = %d, want %d", body.Code, errs.ErrUnsupportedMediaType)
	}
}

func TestAdminHandlersRequireModerator(t *testing.T) {
	deps := newTestDeps()

	// Anonymous caller.
	rec := httptest.NewRecorder()
	HandleAdminBan(deps).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/admin/bans", `{"username":"bob"}`))
	if body := decodeResponse(t, rec); body.Code != errs.ErrUnauthorized {
		t.Fatalf("anonymous code = %d, want %d", body.Code, errs.ErrUnauthorized)
	}

	// Authenticated but not a moderator.
	r := withIdentity(jsonRequest(http.MethodPost, "/api/admin/bans", `{"username":"bob"}`), &jwt.Payload{Username: "eve"})
	rec = httptest.NewRecorder()
	HandleAdminBan(deps).ServeHTTP(rec, r)
	if body := decodeResponse(t, rec); body.Code != errs.ErrAdminRequired {
		t.Fatalf("non-moderator code = %d, want %d", body.Code, errs.ErrAdminRequired)
	}

	if deps.Hub.IsBanned("bob") {
		t.Fatal("rejected request still recorded a ban")
	}
}

func TestHandleAdminBanFlow(t *testing.T) {
	deps := newTestDeps()
	mod := &jwt.Payload{Username: "alice", Admin: true}

	// Empty target.
	r := withIdentity(jsonRequest(http.MethodPost, "/api/admin/bans", `{"username":""}`), mod)
	rec := httptest.NewRecorder()
	HandleAdminBan(deps).ServeHTTP(rec, r)
	if body := decodeResponse(t, rec); body.Code != errs.ErrInvalidParams {
		t.Fatalf("empty target code = %d, want %d", body.Code, errs.ErrInvalidParams)
	}

	// Successful ban takes effect in the hub.
	r = withIdentity(jsonRequest(http.MethodPost, "/api/admin/bans", `{"username":"bob"}`), mod)
	rec = httptest.NewRecorder()
	HandleAdminBan(deps).ServeHTTP(rec, r)
	if body := decodeResponse(t, rec); body.Code != 0 {
		t.Fatalf("ban code = %d, want 0", body.Code)
	}
	if !deps.Hub.IsBanned("bob") {
		t.Fatal("ban not recorded in the hub")
	}

	// Unban lifts it.
	r = withIdentity(jsonRequest(http.MethodDelete, "/api/admin/bans", `{"username":"bob"}`), mod)
	rec = httptest.NewRecorder()
	HandleAdminUnban(deps).ServeHTTP(rec, r)
	if body := decodeResponse(t, rec); body.Code != 0 {
		t.Fatalf("unban code = %d, want 0", body.Code)
	}
	if deps.Hub.IsBanned("bob") {
		t.Fatal("ban still recorded after unban")
	}
}

func TestHandleAdminChannelLifecycle(t *testing.T) {
	deps := newTestDeps()
	mod := &jwt.Payload{Username: "alice", Admin: true}

	router := chi.NewRouter()
	router.Post("/api/admin/channels", HandleAdminCreateChannel(deps))
	router.Delete("/api/admin/channels/{name}", HandleAdminDeleteChannel(deps))

	r := withIdentity(jsonRequest(http.MethodPost, "/api/admin/channels", `{"name":"Tavern"}`), mod)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	if body := decodeResponse(t, rec); body.Code != 0 {
		t.Fatalf("create code = %d, want 0", body.Code)
	}
	if !contains(deps.Hub.Channels(), "tavern") {
		t.Fatalf("channel not created, directory: %v", deps.Hub.Channels())
	}

	// The home channel is protected.
	r = withIdentity(jsonRequest(http.MethodDelete, "/api/admin/channels/main", ""), mod)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	if body := decodeResponse(t, rec); body.Code != errs.ErrChannelProtected {
		t.Fatalf("delete home code = %d, want %d", body.Code, errs.ErrChannelProtected)
	}

	r = withIdentity(jsonRequest(http.MethodDelete, "/api/admin/channels/tavern", ""), mod)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	if body := decodeResponse(t, rec); body.Code != 0 {
		t.Fatalf("delete code = %d, want 0", body.Code)
	}
	if contains(deps.Hub.Channels(), "tavern") {
		t.Fatal("channel still present after delete")
	}
}

func TestHandleListChannels(t *testing.T) {
	deps := newTestDeps()

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/channels", nil)
	HandleListChannels(deps).ServeHTTP(rec, r)

	body := decodeResponse(t, rec)
	if body.Code != 0 {
		t.Fatalf("code = %d, want 0", body.Code)
	}

	var data struct {
		Channels []string `json:"channels"`
	}
	raw, err := json.Marshal(body.Data)
	if err != nil {
		t.Fatalf("re-marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	want := []string{"general", "main"}
	if len(data.Channels) != len(want) {
		t.Fatalf("channels = %v, want %v", data.Channels, want)
	}
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
