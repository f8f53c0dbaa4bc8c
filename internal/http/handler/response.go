package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jaekwang-park/todo-bot/internal/chat"
	"github.com/jaekwang-park/todo-bot/internal/repository"
)

// Codes carried in ErrorBody.Code.
const (
	CodeInvalidJSON      = "INVALID_JSON"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeListenerBusy     = "LISTENER_BUSY"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeInternal         = "INTERNAL_ERROR"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// MessageID names the chat message the failure concerns, when there is one.
	MessageID string `json:"message_id,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeErrorBody(w, status, ErrorBody{Code: code, Message: message})
}

func writeErrorBody(w http.ResponseWriter, status int, body ErrorBody) {
	WriteJSON(w, status, ErrorResponse{Error: body})
}

// WriteChatError answers a failure of the bot or the chat board. messageID
// may be empty.
func WriteChatError(w http.ResponseWriter, r *http.Request, messageID string, err error) {
	body := ErrorBody{MessageID: messageID}
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, chat.ErrMessageNotFound):
		status, body.Code, body.Message = http.StatusNotFound, CodeNotFound, "message not found"
	case errors.Is(err, chat.ErrAlreadyListening):
		status, body.Code, body.Message = http.StatusConflict, CodeListenerBusy, "message is already awaiting a response"
	case repository.KindOf(err) == repository.KindConnection:
		slog.ErrorContext(r.Context(), "store unreachable", "path", r.URL.Path, "error", err)
		status, body.Code, body.Message = http.StatusServiceUnavailable, CodeStoreUnavailable, "todo store unavailable"
	default:
		slog.ErrorContext(r.Context(), "chat request failed", "path", r.URL.Path, "message_id", messageID, "error", err)
		body.Code, body.Message = CodeInternal, "internal server error"
	}
	writeErrorBody(w, status, body)
}
