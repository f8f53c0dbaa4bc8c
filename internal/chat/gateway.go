// Package chat defines the messaging gateway the bot talks through and an
// in-memory implementation that the HTTP layer exposes to chat clients.
package chat

import (
	"context"
	"errors"
	"time"
)

var (
	ErrMessageNotFound  = errors.New("message not found")
	ErrAlreadyListening = errors.New("message already has a listener")
)

type Style string

const (
	StylePrimary   Style = "PRIMARY"
	StyleSecondary Style = "SECONDARY"
	StyleSuccess   Style = "SUCCESS"
	StyleDanger    Style = "DANGER"
)

// KindButton is the interaction kind produced by pressing an action.
const KindButton = "button"

type Action struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Style Style  `json:"style"`
}

// Content is what the bot renders into a message.
type Content struct {
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	Colour  string   `json:"colour"`
	Actions []Action `json:"actions,omitempty"`
}

type Message struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channel_id"`
	Content
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActionEvent is one interaction with a message.
type ActionEvent struct {
	MessageID string `json:"message_id"`
	ActionID  string `json:"action_id"`
	UserID    string `json:"user_id"`
	Kind      string `json:"kind"`
}

// Listener receives the interactions of one message. HandleAction reports
// whether the event was consumed.
type Listener interface {
	HandleAction(ctx context.Context, ev ActionEvent) (bool, error)
	Stop()
}

// Gateway is the port the bot uses to talk to users.
type Gateway interface {
	Send(ctx context.Context, channelID string, c Content) (Message, error)
	Edit(ctx context.Context, messageID string, c Content) (Message, error)
	RemoveActions(ctx context.Context, messageID string) error
	Listen(messageID string, l Listener) error
	Unlisten(messageID string)
}
