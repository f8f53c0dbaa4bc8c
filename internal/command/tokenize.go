package command

import "strings"

// Tokenize splits input on single spaces into at most maxArgs arguments. The
// first maxArgs-1 tokens are returned individually and every remaining token is
// joined back with single spaces into the final argument, so the last argument
// can be a free-form phrase. When includeCommand is false the leading command
// word is dropped before counting. Fewer tokens than requested are returned as-is.
func Tokenize(input string, maxArgs int, includeCommand bool) []string {
	tokens := strings.Split(input, " ")
	if !includeCommand {
		tokens = tokens[1:]
	}

	single := maxArgs - 1
	if single < 0 {
		single = 0
	}

	args := make([]string, 0, min(len(tokens), single+1))
	for i := 0; i < single; i++ {
		if i == len(tokens) {
			return args
		}
		args = append(args, tokens[i])
	}

	if rest := tokens[single:]; len(rest) > 0 {
		args = append(args, strings.Join(rest, " "))
	}
	return args
}
