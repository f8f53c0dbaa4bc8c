package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jaekwang-park/todo-bot/internal/chat"
	"github.com/jaekwang-park/todo-bot/internal/command"
	"github.com/jaekwang-park/todo-bot/internal/confirm"
	"github.com/jaekwang-park/todo-bot/internal/datetime"
	"github.com/jaekwang-park/todo-bot/internal/model"
)

// itemRef identifies the item a prompt acts on. Handlers re-read the item
// through it instead of trusting what was rendered.
type itemRef struct {
	itemID  int64
	ownerID string
	spec    command.Spec
}

func (b *Bot) help(ctx context.Context, c *call) error {
	if c.arg() == "" {
		sections := make([]string, 0, len(b.table.Specs()))
		for _, s := range b.table.Specs() {
			sections = append(sections, b.table.UsageText(s)+"\n"+s.Help)
		}
		_, err := b.send(ctx, c, b.noticeContent("Commands", strings.Join(sections, "\n\n")))
		return err
	}

	word := strings.TrimPrefix(strings.TrimSpace(c.arg()), b.table.Prefix())
	s, ok := b.table.Lookup(word)
	if !ok {
		return fmt.Errorf("%w: there is no command called %q", ErrNotFound, word)
	}

	body := s.Help + "\n\nUsage:\n" + b.table.UsageText(s)
	if len(s.Aliases) > 0 {
		body += "\n\nAliases: " + strings.Join(s.Aliases, ", ")
	}
	if s.AdminOnly {
		body += "\n\nAdministrators only."
	}
	_, err := b.send(ctx, c, b.noticeContent(s.Title, body))
	return err
}

func (b *Bot) setup(ctx context.Context, c *call) error {
	if !b.isAdmin(c.req) {
		return fmt.Errorf("%w: %s is restricted to administrators", ErrForbidden, cmdInit)
	}
	spec := c.parsed.Spec

	exists, err := b.items.SchemaExists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		msg, err := b.send(ctx, c, b.noticeContent("Creating Table", "The item table does not exist so it will now be created."))
		if err != nil {
			return err
		}
		if err := b.items.CreateSchema(ctx); err != nil {
			return b.fail(ctx, msg.ID, err, spec)
		}
		b.logger.InfoContext(ctx, "item table created", "user_id", c.req.UserID)
		return b.edit(ctx, msg.ID, b.successContent("Table Created", "Table initialisation successful."))
	}

	return b.askConfirm(ctx, c,
		b.promptContent("Overwrite Existing Table?", "The item table already exists, are you sure you want to overwrite it? Every item will be lost."),
		"OVERWRITE",
		func(ctx context.Context, messageID string) error {
			if err := b.edit(ctx, messageID, b.promptContent("Initialising Table", "Initialising the item table, please wait...")); err != nil {
				return err
			}
			if err := b.items.ResetSchema(ctx); err != nil {
				return b.fail(ctx, messageID, err, spec)
			}
			b.logger.InfoContext(ctx, "item table overwritten", "user_id", c.req.UserID)
			return b.edit(ctx, messageID, b.successContent("Table Overwritten", "Table initialisation successful."))
		},
		b.cancelContent("Cancelled", "Initialisation of the item table cancelled."),
	)
}

func (b *Bot) todo(ctx context.Context, c *call) error {
	if c.arg() == "" {
		coll, err := b.collection(ctx, c.req.UserID)
		if err != nil {
			return err
		}
		_, err = b.send(ctx, c, b.listContent(coll))
		return err
	}

	item, err := b.find(ctx, c.req.UserID, c.arg())
	if err != nil {
		return err
	}
	ref := itemRef{itemID: item.ID, ownerID: c.req.UserID, spec: c.parsed.Spec}

	content := b.itemContent(item)
	content.Actions = []chat.Action{toggleAction(item.Completed)}
	msg, err := b.send(ctx, c, content)
	if err != nil {
		return err
	}

	_, err = confirm.Arm(b.gateway, msg.ID, confirm.Options{
		RestrictTo: c.req.UserID,
		Max:        b.opts.ToggleMaxInteractions,
		Timeout:    b.opts.ToggleTimeout,
		OnEnd: func(ctx context.Context, _ confirm.End) {
			b.reconcile(ctx, msg.ID, ref)
		},
	}, confirm.Action{
		Action: content.Actions[0],
		Handle: func(ctx context.Context, ev chat.ActionEvent) error {
			return b.flip(ctx, ev.MessageID, ref)
		},
	})
	if err != nil {
		_ = b.gateway.RemoveActions(ctx, msg.ID)
		return err
	}
	return nil
}

// flip inverts the completion of the current item and re-renders it.
func (b *Bot) flip(ctx context.Context, messageID string, ref itemRef) error {
	item, err := b.reload(ctx, ref.ownerID, ref.itemID)
	if err != nil {
		return b.fail(ctx, messageID, err, ref.spec)
	}
	if err := b.items.SetCompleted(ctx, item.ID, !item.Completed); err != nil {
		return b.fail(ctx, messageID, err, ref.spec)
	}
	item.Completed = !item.Completed

	content := b.itemContent(item)
	content.Actions = []chat.Action{toggleAction(item.Completed)}
	return b.edit(ctx, messageID, content)
}

// reconcile strips the toggle and re-renders the item from a fresh read, so
// the message does not go stale after its prompt ends.
func (b *Bot) reconcile(ctx context.Context, messageID string, ref itemRef) {
	if err := b.gateway.RemoveActions(ctx, messageID); err != nil {
		b.logger.ErrorContext(ctx, "remove actions failed", "message_id", messageID, "error", err)
		return
	}

	content := b.cancelContent("Item Removed", "This item no longer exists.")
	item, err := b.reload(ctx, ref.ownerID, ref.itemID)
	switch {
	case err == nil:
		content = b.itemContent(item)
	case !errors.Is(err, ErrNotFound):
		b.logger.ErrorContext(ctx, "reconcile item failed", "message_id", messageID, "item_id", ref.itemID, "error", err)
		return
	}
	if err := b.edit(ctx, messageID, content); err != nil {
		b.logger.ErrorContext(ctx, "reconcile edit failed", "message_id", messageID, "error", err)
	}
}

func (b *Bot) add(ctx context.Context, c *call) error {
	in, err := b.parseAdd(c.arg(), c.req.UserID)
	if err != nil {
		return err
	}

	rec, err := b.items.Create(ctx, in)
	if err != nil {
		return err
	}
	item := model.FromRecord(rec)
	b.logger.InfoContext(ctx, "item added", "user_id", c.req.UserID, "item_id", item.ID)

	body := b.itemLine(item)
	if item.Description != "" {
		body += "\n" + item.Description
	}
	_, err = b.send(ctx, c, b.successContent("Item Added", body))
	return err
}

// parseAdd accepts `<title>`, `"<title>" [<date>]` and
// `"<title>" "<description>" [<date>]`.
func (b *Bot) parseAdd(arg, userID string) (model.NewItem, error) {
	arg = strings.TrimSpace(arg)
	in := model.NewItem{UserID: userID}

	if command.HasQuote(arg) {
		if !strings.HasPrefix(arg, `"`) {
			return model.NewItem{}, fmt.Errorf("%w: text outside quotes must come after the quoted title", ErrInvalidInput)
		}
		q := command.ExtractQuoted(arg)
		if q.Unterminated {
			return model.NewItem{}, fmt.Errorf("%w: a quote is not closed", ErrInvalidInput)
		}
		if len(q.Values) > 2 {
			return model.NewItem{}, fmt.Errorf("%w: only a title and a description can be quoted", ErrInvalidInput)
		}
		if q.Interleaved {
			return model.NewItem{}, fmt.Errorf("%w: text between quoted values is not allowed", ErrInvalidInput)
		}
		in.Title = strings.TrimSpace(q.Values[0])
		if len(q.Values) == 2 {
			in.Description = strings.TrimSpace(q.Values[1])
		}
		if q.Remainder != "" {
			due, err := datetime.Normalize(q.Remainder, b.now().In(b.opts.Location))
			if err != nil {
				return model.NewItem{}, fmt.Errorf("parse date %q: %w", q.Remainder, err)
			}
			in.DueAt = &due
		}
	} else {
		in.Title = arg
	}

	if in.Title == "" {
		return model.NewItem{}, fmt.Errorf("%w: a title is required", ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(in.Title); n > b.opts.TitleMaxLength {
		return model.NewItem{}, fmt.Errorf("%w: the title is %d characters long, the limit is %d", ErrInvalidInput, n, b.opts.TitleMaxLength)
	}
	if n := utf8.RuneCountInString(in.Description); n > b.opts.DescriptionMaxLength {
		return model.NewItem{}, fmt.Errorf("%w: the description is %d characters long, the limit is %d", ErrInvalidInput, n, b.opts.DescriptionMaxLength)
	}
	return in, nil
}

func (b *Bot) remove(ctx context.Context, c *call) error {
	if c.arg() == "" {
		return b.removeAll(ctx, c)
	}

	item, err := b.find(ctx, c.req.UserID, c.arg())
	if err != nil {
		return err
	}
	ref := itemRef{itemID: item.ID, ownerID: c.req.UserID, spec: c.parsed.Spec}

	return b.askConfirm(ctx, c,
		b.promptContent("Remove Item?", "Are you sure you want to remove "+b.itemLine(item)+"?"),
		"REMOVE",
		func(ctx context.Context, messageID string) error {
			current, err := b.reload(ctx, ref.ownerID, ref.itemID)
			if err != nil {
				return b.fail(ctx, messageID, err, ref.spec)
			}
			if err := b.items.Delete(ctx, current.ID); err != nil {
				return b.fail(ctx, messageID, err, ref.spec)
			}
			b.logger.InfoContext(ctx, "item removed", "user_id", ref.ownerID, "item_id", current.ID)
			return b.edit(ctx, messageID, b.successContent("Item Removed", "Removed "+b.itemLine(current)+"."))
		},
		b.cancelContent("Cancelled", "Nothing was removed."),
	)
}

func (b *Bot) removeAll(ctx context.Context, c *call) error {
	coll, err := b.collection(ctx, c.req.UserID)
	if err != nil {
		return err
	}
	if coll.Len() == 0 {
		_, err := b.send(ctx, c, b.noticeContent("Nothing To Remove", "Your todo list is already empty."))
		return err
	}

	owner, spec := c.req.UserID, c.parsed.Spec
	return b.askConfirm(ctx, c,
		b.promptContent("Remove All Items?", fmt.Sprintf("Are you sure you want to remove all %d items?", coll.Len())),
		"REMOVE ALL",
		func(ctx context.Context, messageID string) error {
			n, err := b.items.DeleteByOwner(ctx, owner)
			if err != nil {
				return b.fail(ctx, messageID, err, spec)
			}
			b.logger.InfoContext(ctx, "items removed", "user_id", owner, "count", n)
			return b.edit(ctx, messageID, b.successContent("Items Removed", fmt.Sprintf("Removed %d items.", n)))
		},
		b.cancelContent("Cancelled", "Nothing was removed."),
	)
}

func (b *Bot) setCompleted(ctx context.Context, c *call, completed bool) error {
	verb, state := "Uncomplete", "not completed"
	if completed {
		verb, state = "Complete", "completed"
	}

	if c.arg() != "" {
		item, err := b.find(ctx, c.req.UserID, c.arg())
		if err != nil {
			return err
		}
		if err := b.items.SetCompleted(ctx, item.ID, completed); err != nil {
			return err
		}
		item.Completed = completed
		_, err = b.send(ctx, c, b.successContent("Item "+verb+"d", b.itemLine(item)))
		return err
	}

	coll, err := b.collection(ctx, c.req.UserID)
	if err != nil {
		return err
	}
	if coll.Len() == 0 {
		_, err := b.send(ctx, c, b.noticeContent("Nothing To Update", "Your todo list is empty."))
		return err
	}

	owner, spec := c.req.UserID, c.parsed.Spec
	return b.askConfirm(ctx, c,
		b.promptContent(verb+" All Items?", fmt.Sprintf("Are you sure you want to mark all %d items as %s?", coll.Len(), state)),
		strings.ToUpper(verb)+" ALL",
		func(ctx context.Context, messageID string) error {
			n, err := b.items.SetCompletedByOwner(ctx, owner, completed)
			if err != nil {
				return b.fail(ctx, messageID, err, spec)
			}
			return b.edit(ctx, messageID, b.successContent("Items "+verb+"d", fmt.Sprintf("Marked %d items as %s.", n, state)))
		},
		b.cancelContent("Cancelled", "Nothing was changed."),
	)
}

// askConfirm sends a yes/no prompt that only the caller can answer.
// onConfirm performs the change and renders the outcome; cancelling or
// letting the prompt time out changes nothing.
func (b *Bot) askConfirm(ctx context.Context, c *call, prompt chat.Content, label string, onConfirm func(ctx context.Context, messageID string) error, cancelled chat.Content) error {
	actions := confirm.YesNo(label,
		func(ctx context.Context, ev chat.ActionEvent) error {
			return onConfirm(ctx, ev.MessageID)
		},
		func(ctx context.Context, ev chat.ActionEvent) error {
			return b.edit(ctx, ev.MessageID, cancelled)
		},
	)
	prompt.Actions = confirm.ChatActions(actions...)

	msg, err := b.send(ctx, c, prompt)
	if err != nil {
		return err
	}

	_, err = confirm.Arm(b.gateway, msg.ID, confirm.Options{
		RestrictTo: c.req.UserID,
		Timeout:    b.opts.ConfirmTimeout,
		OnEnd: func(ctx context.Context, end confirm.End) {
			if end.State == confirm.StateExpired {
				b.timeout(ctx, msg.ID)
			}
		},
	}, actions...)
	if err != nil {
		_ = b.gateway.RemoveActions(ctx, msg.ID)
		return err
	}
	return nil
}

func (b *Bot) timeout(ctx context.Context, messageID string) {
	if err := b.gateway.RemoveActions(ctx, messageID); err != nil {
		b.logger.ErrorContext(ctx, "remove actions failed", "message_id", messageID, "error", err)
		return
	}
	if err := b.edit(ctx, messageID, b.cancelContent("Timed Out", "No answer was given in time. Nothing was changed.")); err != nil {
		b.logger.ErrorContext(ctx, "edit timed out prompt failed", "message_id", messageID, "error", err)
	}
}

// fail renders err into the prompt message. The failure has been reported to
// the user once rendered, so only gateway errors are returned.
func (b *Bot) fail(ctx context.Context, messageID string, err error, spec command.Spec) error {
	b.logger.ErrorContext(ctx, "prompt action failed", "command", spec.Name, "message_id", messageID, "error", err)
	return b.edit(ctx, messageID, b.errorContent(err, spec))
}
