package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jaekwang-park/todo-bot/internal/chat"
	"github.com/jaekwang-park/todo-bot/internal/cognito"
	todohttp "github.com/jaekwang-park/todo-bot/internal/http"
	"github.com/jaekwang-park/todo-bot/internal/http/handler"
	"github.com/jaekwang-park/todo-bot/internal/middleware"
	"github.com/jaekwang-park/todo-bot/internal/service"
)

// echoBot answers every line with one message in the caller's channel.
type echoBot struct {
	board *chat.Board
}

func (b *echoBot) Handle(ctx context.Context, req service.Request) ([]chat.Message, error) {
	msg, err := b.board.Send(ctx, req.UserID, chat.Content{Title: "echo", Body: req.Content})
	if err != nil {
		return nil, err
	}
	return []chat.Message{msg}, nil
}

// stubCognitoClient for router tests; sign-in is not exercised.
type stubCognitoClient struct{}

func (s *stubCognitoClient) Login(ctx context.Context, input cognito.LoginInput) (cognito.Tokens, error) {
	return cognito.Tokens{}, errors.New("not implemented")
}
func (s *stubCognitoClient) RefreshTokens(ctx context.Context, input cognito.RefreshInput) (cognito.Tokens, error) {
	return cognito.Tokens{}, errors.New("not implemented")
}

func newTestBoard(t *testing.T) *chat.Board {
	t.Helper()
	board := chat.NewBoard(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(board.Close)
	return board
}

func newTestAuthSvc() *service.AuthService {
	return service.NewAuthService(&stubCognitoClient{}, nil)
}

func newTestRouter(t *testing.T, authSvc *service.AuthService) http.Handler {
	t.Helper()
	board := newTestBoard(t)
	return todohttp.NewRouter(&echoBot{board: board}, board, authSvc)
}

func TestRouter_HealthEndpoint(t *testing.T) {
	router := newTestRouter(t, newTestAuthSvc())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", result["status"])
	}
}

func TestRouter_HealthReportsChecks(t *testing.T) {
	board := newTestBoard(t)
	storeDown := handler.Check{Name: "store", Ping: func(ctx context.Context) error {
		return errors.New("connection refused")
	}}
	router := todohttp.NewRouter(&echoBot{board: board}, board, nil, storeDown)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
	var result struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Status != "degraded" || result.Checks["store"] != "unavailable" {
		t.Errorf("unexpected health %+v", result)
	}
}

func TestRouter_MessageEndpointRegistered(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", bytes.NewBufferString(`{"content":"!todo"}`))
	req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// Router itself doesn't enforce auth, only checks a user is present
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d (body: %s)", w.Code, w.Body.String())
	}
}

func TestRouter_AuthEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		authSvc    *service.AuthService
		wantStatus int
	}{
		{"registered", newTestAuthSvc(), http.StatusBadRequest},
		{"not configured", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, tt.authSvc)

			// empty body is rejected by the handler when the route exists
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/unknown", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}
