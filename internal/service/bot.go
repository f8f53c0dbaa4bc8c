package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jaekwang-park/todo-bot/internal/chat"
	"github.com/jaekwang-park/todo-bot/internal/command"
	"github.com/jaekwang-park/todo-bot/internal/model"
	"github.com/jaekwang-park/todo-bot/internal/repository"
	"github.com/jaekwang-park/todo-bot/internal/resolve"
)

// Colours are the message colours per outcome.
type Colours struct {
	Default string
	Error   string
	Warn    string
	Cancel  string
	Success string
}

type Options struct {
	TitleMaxLength        int
	DescriptionMaxLength  int
	AdminUserIDs          []string
	ConfirmTimeout        time.Duration
	ToggleTimeout         time.Duration
	ToggleMaxInteractions int
	Location              *time.Location
	Colours               Colours
}

// Request is one line of text typed by a user.
type Request struct {
	UserID  string
	IsAdmin bool
	Content string
}

type handlerFunc func(ctx context.Context, c *call) error

// Bot interprets commands and answers through the gateway. It keeps no state
// between calls apart from the prompts armed on its messages.
type Bot struct {
	items    repository.ItemRepository
	gateway  chat.Gateway
	table    *command.Table
	opts     Options
	admins   map[string]bool
	handlers map[string]handlerFunc
	logger   *slog.Logger
	now      func() time.Time
}

func NewBot(items repository.ItemRepository, gateway chat.Gateway, table *command.Table, opts Options, logger *slog.Logger) *Bot {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	b := &Bot{
		items:   items,
		gateway: gateway,
		table:   table,
		opts:    opts,
		admins:  make(map[string]bool, len(opts.AdminUserIDs)),
		logger:  logger,
		now:     time.Now,
	}
	for _, id := range opts.AdminUserIDs {
		b.admins[id] = true
	}
	b.handlers = map[string]handlerFunc{
		cmdHelp:       b.help,
		cmdInit:       b.setup,
		cmdTodo:       b.todo,
		cmdAdd:        b.add,
		cmdRemove:     b.remove,
		cmdComplete:   func(ctx context.Context, c *call) error { return b.setCompleted(ctx, c, true) },
		cmdUncomplete: func(ctx context.Context, c *call) error { return b.setCompleted(ctx, c, false) },
	}
	return b
}

// SetClock replaces the time source used for date normalization.
func (b *Bot) SetClock(now func() time.Time) {
	b.now = now
}

// call is the state of one command invocation.
type call struct {
	req    Request
	parsed command.Parsed
	sent   []chat.Message
}

func (c *call) arg() string {
	return c.parsed.Arg(0)
}

// Handle runs the command in req.Content and returns the messages it sent.
// Text that is not a command yields no messages. The returned error reports
// gateway failures only; command failures are answered in the channel.
func (b *Bot) Handle(ctx context.Context, req Request) ([]chat.Message, error) {
	parsed, ok := b.table.Parse(req.Content)
	if !ok {
		return nil, nil
	}
	name := parsed.Spec.Name
	b.logger.InfoContext(ctx, "command received", "command", name, "user_id", req.UserID, "content", req.Content)

	handler, ok := b.handlers[name]
	if !ok {
		return nil, fmt.Errorf("no handler for command %q", name)
	}

	c := &call{req: req, parsed: parsed}
	err := b.ensureSchema(ctx, c)
	if err == nil {
		err = handler(ctx, c)
	}
	if err != nil {
		b.logger.WarnContext(ctx, "command failed", "command", name, "user_id", req.UserID, "error", err)
		if _, sendErr := b.send(ctx, c, b.errorContent(err, parsed.Spec)); sendErr != nil {
			return c.sent, sendErr
		}
	}
	return c.sent, nil
}

// ensureSchema creates the item table when it is missing, with a warning.
// help and init do not touch the table.
func (b *Bot) ensureSchema(ctx context.Context, c *call) error {
	if name := c.parsed.Spec.Name; name == cmdHelp || name == cmdInit {
		return nil
	}
	exists, err := b.items.SchemaExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if _, err := b.send(ctx, c, chat.Content{
		Title:  "Warn - Creating New Table",
		Body:   "The item table does not exist. Creating a new table.",
		Colour: b.opts.Colours.Warn,
	}); err != nil {
		return err
	}
	b.logger.WarnContext(ctx, "item table missing, creating it", "user_id", c.req.UserID)
	return b.items.CreateSchema(ctx)
}

func (b *Bot) send(ctx context.Context, c *call, content chat.Content) (chat.Message, error) {
	msg, err := b.gateway.Send(ctx, c.req.UserID, content)
	if err != nil {
		return chat.Message{}, err
	}
	c.sent = append(c.sent, msg)
	return msg, nil
}

func (b *Bot) edit(ctx context.Context, messageID string, content chat.Content) error {
	_, err := b.gateway.Edit(ctx, messageID, content)
	return err
}

func (b *Bot) isAdmin(req Request) bool {
	return req.IsAdmin || b.admins[req.UserID]
}

// collection loads the caller's items in display order.
func (b *Bot) collection(ctx context.Context, userID string) (model.Collection, error) {
	records, err := b.items.ListByOwner(ctx, userID)
	if err != nil {
		return model.Collection{}, err
	}
	return model.NewCollection(records, userID), nil
}

// find resolves identifier against the caller's items.
func (b *Bot) find(ctx context.Context, userID, identifier string) (model.Item, error) {
	coll, err := b.collection(ctx, userID)
	if err != nil {
		return model.Item{}, err
	}
	item, tier := resolve.Match(coll.Items(), identifier)
	if tier == resolve.TierNone {
		return model.Item{}, fmt.Errorf("%w: no item matches %q", ErrNotFound, identifier)
	}
	b.logger.DebugContext(ctx, "item resolved", "identifier", identifier, "item_id", item.ID, "tier", tier.String())
	return item, nil
}

// reload fetches the current state of an item the caller owns.
func (b *Bot) reload(ctx context.Context, userID string, id int64) (model.Item, error) {
	rec, err := b.items.GetByID(ctx, id)
	if err != nil {
		if repository.KindOf(err) == repository.KindNotFound {
			return model.Item{}, fmt.Errorf("%w: item %d no longer exists", ErrNotFound, id)
		}
		return model.Item{}, err
	}
	item := model.FromRecord(rec)
	if item.UserID != userID {
		return model.Item{}, fmt.Errorf("%w: item %d no longer exists", ErrNotFound, id)
	}
	return item, nil
}
