package chat

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	maxBodyRunes      = 4096
	defaultHistoryCap = 200
	truncatedSuffix   = "\n… (truncated)"
)

// Board keeps every channel's messages in memory and routes interactions to
// the listener registered for the target message.
type Board struct {
	mu         sync.Mutex
	logger     *slog.Logger
	historyCap int
	messages   map[string]*Message
	channels   map[string][]string
	listeners  map[string]Listener
	now        func() time.Time
}

func NewBoard(logger *slog.Logger) *Board {
	return &Board{
		logger:     logger,
		historyCap: defaultHistoryCap,
		messages:   make(map[string]*Message),
		channels:   make(map[string][]string),
		listeners:  make(map[string]Listener),
		now:        time.Now,
	}
}

func (b *Board) Send(ctx context.Context, channelID string, c Content) (Message, error) {
	if channelID == "" {
		return Message{}, fmt.Errorf("chat: channel is required")
	}
	c = normalizeContent(c)

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	msg := &Message{
		ID:        uuid.NewString(),
		ChannelID: channelID,
		Content:   c,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.messages[msg.ID] = msg
	b.channels[channelID] = append(b.channels[channelID], msg.ID)
	b.evictLocked(channelID)

	b.logger.DebugContext(ctx, "message sent", "message_id", msg.ID, "channel_id", channelID, "title", c.Title)
	return *msg, nil
}

func (b *Board) Edit(ctx context.Context, messageID string, c Content) (Message, error) {
	c = normalizeContent(c)

	b.mu.Lock()
	defer b.mu.Unlock()

	msg, ok := b.messages[messageID]
	if !ok {
		return Message{}, fmt.Errorf("edit %s: %w", messageID, ErrMessageNotFound)
	}
	msg.Content = c
	msg.UpdatedAt = b.now()

	b.logger.DebugContext(ctx, "message edited", "message_id", messageID, "title", c.Title)
	return *msg, nil
}

func (b *Board) RemoveActions(ctx context.Context, messageID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	msg, ok := b.messages[messageID]
	if !ok {
		return fmt.Errorf("remove actions %s: %w", messageID, ErrMessageNotFound)
	}
	msg.Actions = nil
	msg.UpdatedAt = b.now()
	return nil
}

func (b *Board) Listen(messageID string, l Listener) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.messages[messageID]; !ok {
		return fmt.Errorf("listen %s: %w", messageID, ErrMessageNotFound)
	}
	if _, ok := b.listeners[messageID]; ok {
		return fmt.Errorf("listen %s: %w", messageID, ErrAlreadyListening)
	}
	b.listeners[messageID] = l
	return nil
}

func (b *Board) Unlisten(messageID string) {
	b.mu.Lock()
	delete(b.listeners, messageID)
	b.mu.Unlock()
}

// Get returns a copy of a stored message.
func (b *Board) Get(messageID string) (Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	msg, ok := b.messages[messageID]
	if !ok {
		return Message{}, ErrMessageNotFound
	}
	return *msg, nil
}

// History returns the messages of a channel, oldest first.
func (b *Board) History(channelID string) []Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := b.channels[channelID]
	out := make([]Message, 0, len(ids))
	for _, id := range ids {
		out = append(out, *b.messages[id])
	}
	return out
}

// Dispatch hands ev to the listener of its message. Events for messages
// without a listener are dropped and reported as not handled.
func (b *Board) Dispatch(ctx context.Context, ev ActionEvent) (bool, error) {
	b.mu.Lock()
	_, exists := b.messages[ev.MessageID]
	l, listening := b.listeners[ev.MessageID]
	b.mu.Unlock()

	if !exists {
		return false, ErrMessageNotFound
	}
	if !listening {
		b.logger.DebugContext(ctx, "action without listener", "message_id", ev.MessageID, "action_id", ev.ActionID)
		return false, nil
	}
	return l.HandleAction(ctx, ev)
}

// Close stops every listener. Pending prompts end without callbacks.
func (b *Board) Close() {
	b.mu.Lock()
	listeners := b.listeners
	b.listeners = make(map[string]Listener)
	b.mu.Unlock()

	for _, l := range listeners {
		l.Stop()
	}
}

func (b *Board) evictLocked(channelID string) {
	ids := b.channels[channelID]
	for len(ids) > b.historyCap {
		oldest := ids[0]
		ids = ids[1:]
		delete(b.messages, oldest)
		if l, ok := b.listeners[oldest]; ok {
			delete(b.listeners, oldest)
			go l.Stop()
		}
	}
	b.channels[channelID] = ids
}

func normalizeContent(c Content) Content {
	c.Body = truncate(c.Body, maxBodyRunes)
	c.Actions = append([]Action(nil), c.Actions...)
	return c
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	suffix := []rune(truncatedSuffix)
	return string(runes[:limit-len(suffix)]) + truncatedSuffix
}

var _ Gateway = (*Board)(nil)
