package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jaekwang-park/todo-bot/internal/chat"
	"github.com/jaekwang-park/todo-bot/internal/middleware"
	"github.com/jaekwang-park/todo-bot/internal/service"
)

const maxMessageBodySize = 64 << 10

// Commander runs one chat line as a bot command.
type Commander interface {
	Handle(ctx context.Context, req service.Request) ([]chat.Message, error)
}

// MessageBoard is the read and interaction side of the chat gateway.
type MessageBoard interface {
	History(channelID string) []chat.Message
	Get(messageID string) (chat.Message, error)
	Dispatch(ctx context.Context, ev chat.ActionEvent) (bool, error)
}

// MessageHandler exposes a user's chat channel. The channel of a user is
// named after their user ID.
type MessageHandler struct {
	bot   Commander
	board MessageBoard
}

func NewMessageHandler(bot Commander, board MessageBoard) *MessageHandler {
	return &MessageHandler{bot: bot, board: board}
}

// ServeHTTP routes /api/v1/messages, /api/v1/messages/{id} and
// /api/v1/messages/{id}/actions.
func (h *MessageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "missing user")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1/messages")
	path = strings.Trim(path, "/")

	parts := strings.SplitN(path, "/", 2)
	messageID := parts[0]
	subPath := ""
	if len(parts) > 1 {
		subPath = parts[1]
	}

	switch {
	case messageID == "":
		switch r.Method {
		case http.MethodGet:
			WriteJSON(w, http.StatusOK, messagesResponse{Messages: h.board.History(userID)})
		case http.MethodPost:
			h.handleSend(w, r, userID)
		default:
			WriteError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
		}
	case subPath == "":
		if r.Method != http.MethodGet {
			WriteError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
			return
		}
		h.handleGet(w, r, userID, messageID)
	case subPath == "actions":
		if r.Method != http.MethodPost {
			WriteError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
			return
		}
		h.handleAction(w, r, userID, messageID)
	default:
		WriteError(w, http.StatusNotFound, CodeNotFound, "endpoint not found")
	}
}

type sendRequest struct {
	Content string `json:"content"`
}

type messagesResponse struct {
	Messages []chat.Message `json:"messages"`
}

type actionRequest struct {
	ActionID string `json:"action_id"`
}

type actionResponse struct {
	Handled bool         `json:"handled"`
	Message chat.Message `json:"message"`
}

func (h *MessageHandler) handleSend(w http.ResponseWriter, r *http.Request, userID string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMessageBodySize)

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidJSON, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		WriteError(w, http.StatusBadRequest, CodeInvalidInput, "content is required")
		return
	}

	msgs, err := h.bot.Handle(r.Context(), service.Request{
		UserID:  userID,
		IsAdmin: middleware.IsAdmin(r),
		Content: req.Content,
	})
	if err != nil {
		WriteChatError(w, r, "", err)
		return
	}
	if msgs == nil {
		msgs = []chat.Message{}
	}
	WriteJSON(w, http.StatusOK, messagesResponse{Messages: msgs})
}

// lookup returns a message in the caller's channel. Messages of other
// channels are reported as missing.
func (h *MessageHandler) lookup(w http.ResponseWriter, userID, messageID string) (chat.Message, bool) {
	msg, err := h.board.Get(messageID)
	if err != nil || msg.ChannelID != userID {
		WriteError(w, http.StatusNotFound, CodeNotFound, "message not found")
		return chat.Message{}, false
	}
	return msg, true
}

func (h *MessageHandler) handleGet(w http.ResponseWriter, r *http.Request, userID, messageID string) {
	msg, ok := h.lookup(w, userID, messageID)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, msg)
}

func (h *MessageHandler) handleAction(w http.ResponseWriter, r *http.Request, userID, messageID string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMessageBodySize)

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidJSON, "invalid request body")
		return
	}
	if req.ActionID == "" {
		WriteError(w, http.StatusBadRequest, CodeInvalidInput, "action_id is required")
		return
	}
	if _, ok := h.lookup(w, userID, messageID); !ok {
		return
	}

	handled, err := h.board.Dispatch(r.Context(), chat.ActionEvent{
		MessageID: messageID,
		ActionID:  req.ActionID,
		UserID:    userID,
		Kind:      chat.KindButton,
	})
	if err != nil {
		WriteChatError(w, r, messageID, err)
		return
	}

	msg, ok := h.lookup(w, userID, messageID)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, actionResponse{Handled: handled, Message: msg})
}
