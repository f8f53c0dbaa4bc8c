package command

import (
	"fmt"
	"sort"
	"strings"
)

// Spec describes one recognised command verb.
type Spec struct {
	Name      string
	Title     string
	Aliases   []string
	Usage     []string
	Help      string
	AdminOnly bool
	// MaxArgs is the number of arguments after the command word; the last
	// one absorbs the rest of the line.
	MaxArgs int
}

// Table is an immutable set of command specs addressed by name or alias.
type Table struct {
	prefix string
	specs  []Spec
	index  map[string]int
}

// NewTable builds a table. Names and aliases are matched case-insensitively and
// must be unique across the table.
func NewTable(prefix string, specs ...Spec) (*Table, error) {
	t := &Table{
		prefix: prefix,
		specs:  make([]Spec, 0, len(specs)),
		index:  make(map[string]int),
	}
	for _, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("command: spec without name")
		}
		s.Aliases = append([]string(nil), s.Aliases...)
		s.Usage = append([]string(nil), s.Usage...)
		pos := len(t.specs)
		for _, key := range append([]string{s.Name}, s.Aliases...) {
			key = strings.ToLower(key)
			if _, dup := t.index[key]; dup {
				return nil, fmt.Errorf("command: duplicate name or alias %q", key)
			}
			t.index[key] = pos
		}
		t.specs = append(t.specs, s)
	}
	return t, nil
}

func (t *Table) Prefix() string {
	return t.prefix
}

// Lookup finds a command by name or alias.
func (t *Table) Lookup(word string) (Spec, bool) {
	pos, ok := t.index[strings.ToLower(word)]
	if !ok {
		return Spec{}, false
	}
	return t.specs[pos], true
}

// IsAliasOf reports whether word names the command called name.
func (t *Table) IsAliasOf(name, word string) bool {
	s, ok := t.Lookup(word)
	return ok && s.Name == name
}

// Specs returns the commands in registration order.
func (t *Table) Specs() []Spec {
	return append([]Spec(nil), t.specs...)
}

// Names returns every name and alias, sorted.
func (t *Table) Names() []string {
	out := make([]string, 0, len(t.index))
	for k := range t.index {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// UsageText renders the usage lines of a command with the prefix applied.
func (t *Table) UsageText(s Spec) string {
	if len(s.Usage) == 0 {
		return "`" + t.prefix + s.Name + "`"
	}
	lines := make([]string, 0, len(s.Usage))
	for _, u := range s.Usage {
		lines = append(lines, "`"+t.prefix+u+"`")
	}
	return strings.Join(lines, "\n")
}

// Parsed is a command line split into its verb and arguments.
type Parsed struct {
	Spec Spec
	Word string
	Args []string
}

// Arg returns the i-th argument or "".
func (p Parsed) Arg(i int) string {
	if i < 0 || i >= len(p.Args) {
		return ""
	}
	return p.Args[i]
}

// Parse strips the prefix and resolves the command word. It returns false for
// text that is not a command.
func (t *Table) Parse(text string) (Parsed, bool) {
	if !strings.HasPrefix(text, t.prefix) {
		return Parsed{}, false
	}
	body := strings.TrimSpace(text[len(t.prefix):])
	if body == "" {
		return Parsed{}, false
	}

	word, _, _ := strings.Cut(body, " ")
	spec, ok := t.Lookup(word)
	if !ok {
		return Parsed{}, false
	}

	maxArgs := spec.MaxArgs
	if maxArgs < 1 {
		maxArgs = 1
	}
	tokens := Tokenize(body, maxArgs+1, true)
	return Parsed{Spec: spec, Word: word, Args: tokens[1:]}, true
}
