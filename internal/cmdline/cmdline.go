// Package cmdline splits raw command strings into argv-style token lists.
//
// The rules are a small, predictable subset of POSIX shell word splitting:
// whitespace separates tokens, single quotes are fully literal, double
// quotes suppress splitting, and a backslash (outside single quotes)
// inserts the following character literally. There is no variable
// expansion, globbing, or command substitution.
package cmdline

import (
	"errors"
	"strings"
)

// Sentinel errors
var (
	ErrEmptyCommand  = errors.New("empty command")
	ErrUnclosedQuote = errors.New("unclosed quote in command")
)

// Split tokenizes a command string. The first token is the executable,
// the rest are its arguments. Tokens are never empty.
func Split(command string) ([]string, error) {
	var tokens []string
	var current strings.Builder

	inSingle := false
	inDouble := false
	runes := []rune(command)

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '\'' && !inDouble:
			inSingle = !inSingle

		case c == '"' && !inSingle:
			inDouble = !inDouble

		case (c == ' ' || c == '\t') && !inSingle && !inDouble:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

		case c == '\\' && !inSingle:
			// Escape: take the next rune literally, drop the backslash.
			// A trailing backslash with nothing after it is dropped too.
			if i+1 < len(runes) {
				i++
				current.WriteRune(runes[i])
			}

		default:
			current.WriteRune(c)
		}
	}

	if inSingle || inDouble {
		return nil, ErrUnclosedQuote
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	if len(tokens) == 0 {
		return nil, ErrEmptyCommand
	}

	return tokens, nil
}
