package confirm

import "github.com/jaekwang-park/todo-bot/internal/chat"

const (
	ActionConfirm = "confirm"
	ActionCancel  = "cancel"
)

// YesNo builds the confirm/cancel pair of a destructive prompt.
func YesNo(confirmLabel string, onConfirm, onCancel Handler) []Action {
	return []Action{
		{
			Action: chat.Action{ID: ActionConfirm, Label: confirmLabel, Style: chat.StyleDanger},
			Handle: onConfirm,
		},
		{
			Action: chat.Action{ID: ActionCancel, Label: "CANCEL", Style: chat.StyleSecondary},
			Handle: onCancel,
		},
	}
}
