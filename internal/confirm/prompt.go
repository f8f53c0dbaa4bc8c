// Package confirm gates actions behind an interactive prompt that accepts a
// bounded number of interactions and may expire.
package confirm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jaekwang-park/todo-bot/internal/chat"
)

type State int

const (
	StateArmed State = iota
	StateResolved
	StateExpired
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateArmed:
		return "ARMED"
	case StateResolved:
		return "RESOLVED"
	case StateExpired:
		return "EXPIRED"
	case StateStopped:
		return "STOPPED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// IsTerminal reports whether no further interaction can be consumed.
func IsTerminal(s State) bool {
	return s != StateArmed
}

func isAllowedTransition(from, to State) bool {
	return from == StateArmed && to != StateArmed
}

// Handler runs when its action is pressed.
type Handler func(ctx context.Context, ev chat.ActionEvent) error

type Action struct {
	chat.Action
	Handle Handler
}

// End describes how a prompt finished.
type End struct {
	State State
	// ActionID is the action that resolved the prompt; empty on expiry.
	ActionID string
	// Count is the number of interactions consumed.
	Count int
}

// Accepted reports whether a yes/no prompt was confirmed.
func (e End) Accepted() bool {
	return e.State == StateResolved && e.ActionID == ActionConfirm
}

type Options struct {
	// RestrictTo limits interactions to one user; empty accepts anyone.
	RestrictTo string
	// Kind is the accepted interaction kind, chat.KindButton when empty.
	Kind string
	// Max is the number of interactions consumed before resolving; 1 when <= 0.
	Max int
	// Timeout expires the prompt when it elapses; zero means never.
	Timeout time.Duration
	// OnEnd runs once when the prompt resolves or expires.
	OnEnd func(ctx context.Context, end End)
}

// Registrar attaches listeners to messages.
type Registrar interface {
	Listen(messageID string, l chat.Listener) error
	Unlisten(messageID string)
}

var ErrNoActions = errors.New("confirm: at least one action is required")

// Prompt is the pending confirmation bound to one message.
type Prompt struct {
	messageID string
	reg       Registrar
	opts      Options
	actions   map[string]Action

	mu    sync.Mutex
	state State
	count int
	timer *time.Timer
}

// Arm attaches a prompt to messageID. The message must already show the
// actions' buttons.
func Arm(reg Registrar, messageID string, opts Options, actions ...Action) (*Prompt, error) {
	if len(actions) == 0 {
		return nil, ErrNoActions
	}
	if opts.Max <= 0 {
		opts.Max = 1
	}
	if opts.Kind == "" {
		opts.Kind = chat.KindButton
	}

	p := &Prompt{
		messageID: messageID,
		reg:       reg,
		opts:      opts,
		actions:   make(map[string]Action, len(actions)),
	}
	for _, a := range actions {
		if _, dup := p.actions[a.ID]; dup {
			return nil, fmt.Errorf("confirm: duplicate action %q", a.ID)
		}
		p.actions[a.ID] = a
	}

	if err := reg.Listen(messageID, p); err != nil {
		return nil, err
	}
	if opts.Timeout > 0 {
		p.mu.Lock()
		p.timer = time.AfterFunc(opts.Timeout, p.expire)
		p.mu.Unlock()
	}
	return p, nil
}

// ChatActions returns the buttons to render for the given actions.
func ChatActions(actions ...Action) []chat.Action {
	out := make([]chat.Action, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.Action)
	}
	return out
}

func (p *Prompt) MessageID() string {
	return p.messageID
}

func (p *Prompt) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// HandleAction consumes ev when it qualifies: the prompt is armed, the kind
// and user match, and the action is one of the prompt's. The last permitted
// interaction resolves the prompt after its handler returns.
func (p *Prompt) HandleAction(ctx context.Context, ev chat.ActionEvent) (bool, error) {
	p.mu.Lock()
	if p.state != StateArmed || p.count >= p.opts.Max {
		p.mu.Unlock()
		return false, nil
	}
	if ev.Kind != p.opts.Kind || (p.opts.RestrictTo != "" && ev.UserID != p.opts.RestrictTo) {
		p.mu.Unlock()
		return false, nil
	}
	action, ok := p.actions[ev.ActionID]
	if !ok {
		p.mu.Unlock()
		return false, nil
	}

	p.count++
	last := p.count == p.opts.Max
	if last && p.timer != nil {
		p.timer.Stop()
	}
	p.mu.Unlock()

	var err error
	if action.Handle != nil {
		err = action.Handle(ctx, ev)
	}
	if last {
		p.finish(ctx, StateResolved, ev.ActionID)
	}
	return true, err
}

// Stop ends the prompt without running OnEnd, as on process shutdown.
func (p *Prompt) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !isAllowedTransition(p.state, StateStopped) {
		return
	}
	p.state = StateStopped
	if p.timer != nil {
		p.timer.Stop()
	}
}

// expire runs on the timer goroutine. The check and the transition share one
// critical section so a press cannot be consumed after the prompt expired.
func (p *Prompt) expire() {
	p.mu.Lock()
	if p.count >= p.opts.Max || !isAllowedTransition(p.state, StateExpired) {
		// the final interaction is being handled and will resolve the prompt
		p.mu.Unlock()
		return
	}
	p.state = StateExpired
	end := End{State: StateExpired, Count: p.count}
	p.mu.Unlock()

	p.end(context.Background(), end)
}

func (p *Prompt) finish(ctx context.Context, to State, actionID string) {
	p.mu.Lock()
	if !isAllowedTransition(p.state, to) {
		p.mu.Unlock()
		return
	}
	p.state = to
	end := End{State: to, ActionID: actionID, Count: p.count}
	p.mu.Unlock()

	p.end(ctx, end)
}

func (p *Prompt) end(ctx context.Context, end End) {
	p.reg.Unlisten(p.messageID)
	if p.opts.OnEnd != nil {
		p.opts.OnEnd(ctx, end)
	}
}
