package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jaekwang-park/todo-bot/internal/chat"
	"github.com/jaekwang-park/todo-bot/internal/command"
	"github.com/jaekwang-park/todo-bot/internal/datetime"
	"github.com/jaekwang-park/todo-bot/internal/model"
	"github.com/jaekwang-park/todo-bot/internal/repository"
)

const actionToggle = "toggle"

func checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// due renders a due date in the bot's location.
func (b *Bot) due(t time.Time) string {
	return datetime.Format(t.In(b.opts.Location))
}

func (b *Bot) itemLine(item model.Item) string {
	line := fmt.Sprintf("`#%d` %s **%s**", item.ID, checkbox(item.Completed), item.Title)
	if item.HasDue() {
		line += " (due " + b.due(*item.DueAt) + ")"
	}
	return line
}

func (b *Bot) listContent(coll model.Collection) chat.Content {
	if coll.Len() == 0 {
		return chat.Content{
			Title:  "Todo List",
			Body:   fmt.Sprintf("Your todo list is empty. Use `%sadd` to add an item.", b.table.Prefix()),
			Colour: b.opts.Colours.Default,
		}
	}
	lines := make([]string, 0, coll.Len()+2)
	for _, item := range coll.Items() {
		lines = append(lines, b.itemLine(item))
	}
	lines = append(lines, "", fmt.Sprintf("%d of %d completed", coll.CompletedCount(), coll.Len()))
	return chat.Content{
		Title:  "Todo List",
		Body:   strings.Join(lines, "\n"),
		Colour: b.opts.Colours.Default,
	}
}

func (b *Bot) itemContent(item model.Item) chat.Content {
	var body strings.Builder
	if item.Description != "" {
		body.WriteString(item.Description)
		body.WriteString("\n\n")
	}
	fmt.Fprintf(&body, "ID: `%d`\n", item.ID)
	if item.HasDue() {
		fmt.Fprintf(&body, "Due: %s\n", b.due(*item.DueAt))
	}
	if item.Completed {
		body.WriteString("Status: Completed")
	} else {
		body.WriteString("Status: Not completed")
	}

	colour := b.opts.Colours.Default
	if item.Completed {
		colour = b.opts.Colours.Success
	}
	return chat.Content{
		Title:  checkbox(item.Completed) + " " + item.Title,
		Body:   body.String(),
		Colour: colour,
	}
}

func toggleAction(completed bool) chat.Action {
	if completed {
		return chat.Action{ID: actionToggle, Label: "UNCOMPLETE", Style: chat.StyleSecondary}
	}
	return chat.Action{ID: actionToggle, Label: "COMPLETE", Style: chat.StyleSuccess}
}

func (b *Bot) noticeContent(title, body string) chat.Content {
	return chat.Content{Title: title, Body: body, Colour: b.opts.Colours.Default}
}

func (b *Bot) successContent(title, body string) chat.Content {
	return chat.Content{Title: title, Body: body, Colour: b.opts.Colours.Success}
}

func (b *Bot) cancelContent(title, body string) chat.Content {
	return chat.Content{Title: title, Body: body, Colour: b.opts.Colours.Cancel}
}

func (b *Bot) promptContent(title, body string) chat.Content {
	return chat.Content{Title: title, Body: body, Colour: b.opts.Colours.Error}
}

// errorContent renders the single user-facing message for a failed command.
func (b *Bot) errorContent(err error, spec command.Spec) chat.Content {
	title, body := "Error - Query Failed", "Failed to query database."

	switch {
	case errors.Is(err, datetime.ErrInvalidDate),
		errors.Is(err, datetime.ErrNoDate),
		errors.Is(err, repository.ErrMalformedDate):
		title = "Error - Invalid Date"
		body = "The date could not be understood. Use `DD/MM/YYYY`, `HH:MM`, `tomorrow` or a shift such as `2D`."
	case errors.Is(err, ErrInvalidInput):
		title = "Error - Invalid Arguments"
		body = capitalize(detail(err, ErrInvalidInput)) + ".\n\nUsage:\n" + b.table.UsageText(spec)
	case errors.Is(err, ErrForbidden):
		title = "Error - Not Allowed"
		body = fmt.Sprintf("Only administrators can use `%s%s`.", b.table.Prefix(), spec.Name)
	case errors.Is(err, ErrNotFound):
		title = "Error - No Match"
		body = capitalize(detail(err, ErrNotFound)) + "."
	case errors.Is(err, repository.ErrConnection):
		body = "Failed to connect to database."
	case errors.Is(err, repository.ErrAuth):
		title = "Error - Login Failed"
		body = "Failed to connect to database due to invalid login details."
	case errors.Is(err, repository.ErrSchemaMissing):
		title = "Error - Table Missing"
		body = fmt.Sprintf("The item table does not exist, use `%sinit` to set it up.", b.table.Prefix())
	case errors.Is(err, repository.ErrMalformedQuery):
		body = "Invalid query may have caused internal errors."
	case errors.Is(err, repository.ErrNotFound):
		title = "Error - No Match"
		body = "The item no longer exists."
	}
	return chat.Content{Title: title, Body: body, Colour: b.opts.Colours.Error}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
