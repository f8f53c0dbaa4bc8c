package service

import "github.com/jaekwang-park/todo-bot/internal/command"

const (
	cmdHelp       = "help"
	cmdInit       = "init"
	cmdTodo       = "todo"
	cmdAdd        = "add"
	cmdRemove     = "remove"
	cmdComplete   = "complete"
	cmdUncomplete = "uncomplete"
)

// NewCommandTable builds the command set the bot understands.
func NewCommandTable(prefix string) (*command.Table, error) {
	return command.NewTable(prefix,
		command.Spec{
			Name:    cmdHelp,
			Title:   "Help Command",
			Aliases: []string{"h", "commands"},
			Usage:   []string{"help", "help <command>"},
			Help:    "Show every command, or the details of one.",
			MaxArgs: 1,
		},
		command.Spec{
			Name:      cmdInit,
			Title:     "Setup Command",
			Aliases:   []string{"setup"},
			Usage:     []string{"init"},
			Help:      "Set up the todo list table. Administrators only.",
			AdminOnly: true,
		},
		command.Spec{
			Name:    cmdTodo,
			Title:   "Todo Command",
			Aliases: []string{"list", "ls"},
			Usage:   []string{"todo", "todo <id-or-title>"},
			Help:    "Show your todo list, or one item with a button to toggle it.",
			MaxArgs: 1,
		},
		command.Spec{
			Name:    cmdAdd,
			Title:   "Add Item Command",
			Aliases: []string{"create", "new"},
			Usage: []string{
				"add <title>",
				`add "<title>" [<date>]`,
				`add "<title>" "<description>" [<date>]`,
			},
			Help:    "Add an item to your todo list. Dates accept DD/MM[/YYYY], HH:MM[:SS], now, tomorrow, yesterday and shifts such as 2D or -3h.",
			MaxArgs: 1,
		},
		command.Spec{
			Name:    cmdRemove,
			Title:   "Remove Item Command",
			Aliases: []string{"delete", "rm"},
			Usage:   []string{"remove", "remove <id-or-title>"},
			Help:    "Remove one item, or every item after confirmation.",
			MaxArgs: 1,
		},
		command.Spec{
			Name:    cmdComplete,
			Title:   "Complete Item Command",
			Aliases: []string{"done", "check"},
			Usage:   []string{"complete", "complete <id-or-title>"},
			Help:    "Mark one item as completed, or every item after confirmation.",
			MaxArgs: 1,
		},
		command.Spec{
			Name:    cmdUncomplete,
			Title:   "Uncomplete Item Command",
			Aliases: []string{"undone", "uncheck"},
			Usage:   []string{"uncomplete", "uncomplete <id-or-title>"},
			Help:    "Mark one item as not completed, or every item after confirmation.",
			MaxArgs: 1,
		},
	)
}
