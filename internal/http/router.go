package http

import (
	"net/http"

	"github.com/jaekwang-park/todo-bot/internal/http/handler"
	"github.com/jaekwang-park/todo-bot/internal/service"
)

// NewRouter registers the chat endpoints. Sign-in routes are only served when
// authSvc is set; checks are reported by /health.
func NewRouter(bot handler.Commander, board handler.MessageBoard, authSvc *service.AuthService, checks ...handler.Check) http.Handler {
	mux := http.NewServeMux()

	// Health check - intentionally outside /api/v1 for ALB health check compatibility
	mux.Handle("/health", handler.NewHealthHandler(checks...))

	messages := handler.NewMessageHandler(bot, board)
	mux.Handle("/api/v1/messages", messages)
	mux.Handle("/api/v1/messages/", messages)

	if authSvc != nil {
		mux.Handle("/api/v1/auth/", handler.NewAuthHandler(authSvc))
	}

	return mux
}
