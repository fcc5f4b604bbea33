package cli

import (
	"fmt"
	"strings"
)

// Flag tokens recognized by the scanner. There are no long forms and no
// other flags.
const (
	flagRebuild = "-b"
	flagLocal   = "-l"
	flagRemote  = "-r"
)

// Scans a raw argument vector into a request.
//
// The grammar is not the usual one-value-per-flag shape: -l and -r each
// open a list that greedily consumes every following token until the next
// recognized flag or the end of the vector. A token inside a list is taken
// verbatim, so file names that merely look flag-like are collected rather
// than rejected. Repeating -l or -r appends to the same list.
type Scanner struct {
	args []string

	rebuild bool
	locals  []string
	remotes []string
}

// Creates a scanner for one argument vector, excluding the program name.
func NewScanner(args []string) *Scanner {
	return &Scanner{args: args}
}

// Consumes the whole vector and returns the resulting request.
//
// Scanning has no side effects and does not depend on prior calls: the same
// vector always produces the same request. An unrecognized token in flag
// position, or a list flag with no tokens following it, fails with
// ErrBadArgument.
func (s *Scanner) Scan() (*Request, error) {
	s.rebuild, s.locals, s.remotes = false, nil, nil

	i := 0
	for i < len(s.args) {
		tok := s.args[i]
		i++

		switch tok {
		case flagRebuild:
			s.rebuild = true
		case flagLocal:
			entries, next := s.collect(i)
			if len(entries) == 0 {
				return nil, fmt.Errorf("%w: flag %s requires at least one file", ErrBadArgument, flagLocal)
			}
			s.locals = append(s.locals, entries...)
			i = next
		case flagRemote:
			entries, next := s.collect(i)
			if len(entries) == 0 {
				return nil, fmt.Errorf("%w: flag %s requires at least one URL", ErrBadArgument, flagRemote)
			}
			s.remotes = append(s.remotes, entries...)
			i = next
		default:
			if strings.HasPrefix(tok, "-") {
				return nil, fmt.Errorf("%w: unknown flag %q", ErrBadArgument, tok)
			}
			return nil, fmt.Errorf("%w: unexpected argument %q", ErrBadArgument, tok)
		}
	}

	return newRequest(s.rebuild, s.locals, s.remotes), nil
}

// Consumes tokens starting at from until the next recognized flag or the
// end of the vector. Returns the consumed tokens and the position of the
// first token not consumed.
func (s *Scanner) collect(from int) ([]string, int) {
	var entries []string

	i := from
	for i < len(s.args) && !isFlag(s.args[i]) {
		entries = append(entries, s.args[i])
		i++
	}

	return entries, i
}

// Whether the token is exactly one of the recognized flags.
func isFlag(tok string) bool {
	switch tok {
	case flagRebuild, flagLocal, flagRemote:
		return true
	}
	return false
}
