package command

import "strings"

// Quoted is the result of ExtractQuoted.
type Quoted struct {
	// Values holds the contents of each closed quote span, in order.
	Values []string
	// Remainder is the input with every closed span removed, escaped quotes
	// unescaped and surrounding whitespace trimmed.
	Remainder string
	// Unterminated is set when an opening quote was never closed. The dangling
	// quote and the text after it are kept literally in Remainder.
	Unterminated bool
	// Interleaved is set when unquoted text sits between two quoted values.
	Interleaved bool
}

// ExtractQuoted pulls double-quoted values out of input. A backslash directly
// before a quote escapes it; the escaped quote is literal text, not a delimiter.
func ExtractQuoted(input string) Quoted {
	var (
		q       Quoted
		outside strings.Builder
		span    strings.Builder
		open    bool
		// gap holds whether non-space text was seen outside quotes since the
		// last closed span.
		gap bool
	)

	for i := 0; i < len(input); i++ {
		c := input[i]
		if c == '\\' && i+1 < len(input) && input[i+1] == '"' {
			if open {
				span.WriteByte('"')
			} else {
				outside.WriteByte('"')
				gap = true
			}
			i++
			continue
		}
		if c == '"' {
			if open {
				q.Values = append(q.Values, span.String())
				span.Reset()
				gap = false
			} else if gap && len(q.Values) > 0 {
				q.Interleaved = true
			}
			open = !open
			continue
		}
		if open {
			span.WriteByte(c)
		} else {
			outside.WriteByte(c)
			if c != ' ' && c != '\t' {
				gap = true
			}
		}
	}

	if open {
		q.Unterminated = true
		outside.WriteByte('"')
		outside.WriteString(span.String())
	}

	q.Remainder = strings.TrimSpace(outside.String())
	return q
}

// HasQuote reports whether s contains an unescaped double quote.
func HasQuote(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '"' {
			continue
		}
		if i > 0 && s[i-1] == '\\' {
			continue
		}
		return true
	}
	return false
}
