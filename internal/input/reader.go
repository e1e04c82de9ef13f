// Package input reads operator answers for the destructive CLI commands.
package input

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Reader is satisfied by *bufio.Reader.
type Reader interface {
	ReadString(delim byte) (string, error)
}

// StringReader replays canned answers, one per ReadString call, then io.EOF.
// Answers are returned as given, so include the delimiter.
type StringReader struct {
	answers []string
}

func NewStringReader(answers ...string) *StringReader {
	return &StringReader{answers: answers}
}

func (r *StringReader) ReadString(delim byte) (string, error) {
	if len(r.answers) == 0 {
		return "", io.EOF
	}
	next := r.answers[0]
	r.answers = r.answers[1:]
	return next, nil
}

// Confirm writes prompt to w and reads one line from r. Only "y" or "yes"
// (any case) confirms. EOF without input counts as no.
func Confirm(r Reader, w io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprintf(w, "%s [y/N]: ", prompt); err != nil {
		return false, err
	}
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
