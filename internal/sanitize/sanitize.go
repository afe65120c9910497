// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sanitize normalizes free-form model output into tab-separated
// flashcard records. Everything here is pure: no network or disk I/O.
package sanitize

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/pdiddy/notes-to-anki/pkg/types"
)

// ErrMalformedLine reports a candidate line that cannot be read as a card.
var ErrMalformedLine = errors.New("malformed card line")

// separator is one strategy for splitting a line into front and back.
type separator struct {
	name    string
	pattern *regexp.Regexp
}

// separators are listed in priority order. The earliest match in the line
// wins; list order breaks ties at the same offset. Whitespace includes the
// vertical tab, which RE2's \s leaves out.
var separators = []separator{
	{name: "double-space", pattern: regexp.MustCompile(`[\s\v]{2,}`)},
	{name: "tab", pattern: regexp.MustCompile(`\t`)},
	{name: "colon-space", pattern: regexp.MustCompile(`:[\s\v]+`)},
}

// Rejection describes a dropped candidate line.
type Rejection struct {
	Line   string
	Reason string
}

// Result is the outcome of sanitizing one response.
type Result struct {
	// Lines holds the accepted records in input order.
	Lines []string
	// Rejected holds the dropped lines in input order.
	Rejected []Rejection
}

// Block joins the accepted records with single newlines.
func (r Result) Block() string {
	return strings.Join(r.Lines, "\n")
}

// Sanitize returns the accepted records of raw joined by newlines. Rejected
// lines are logged at warn level through the default slog logger.
func Sanitize(raw string) string {
	return SanitizeWith(raw, func(rej Rejection) {
		slog.Warn("dropping malformed card line", "line", rej.Line, "reason", rej.Reason)
	}).Block()
}

// SanitizeWith applies Normalize to every line of raw. diag, when non-nil, is
// called once per rejected line.
func SanitizeWith(raw string, diag func(Rejection)) Result {
	var res Result
	for _, line := range splitLines(strings.TrimSpace(raw)) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		record, err := Normalize(line)
		if err != nil {
			rej := Rejection{Line: line, Reason: err.Error()}
			res.Rejected = append(res.Rejected, rej)
			if diag != nil {
				diag(rej)
			}
			continue
		}
		res.Lines = append(res.Lines, record)
	}
	return res
}

// Normalize turns one trimmed line into a record. Lines that already contain
// a tab are returned unchanged; other lines go through Coerce.
func Normalize(line string) (string, error) {
	if strings.Contains(line, types.CardSeparator) {
		return line, nil
	}
	card, ok := Coerce(line)
	if !ok {
		return "", fmt.Errorf("%w: no front/back separator in %q", ErrMalformedLine, line)
	}
	return card.String(), nil
}

// Coerce splits line once at the earliest separator match. It succeeds only
// when both trimmed pieces are non-empty. Separators after the split point
// stay inside the back field.
func Coerce(line string) (types.Card, bool) {
	loc := firstSeparator(line)
	if loc == nil {
		return types.Card{}, false
	}
	front := strings.TrimSpace(line[:loc[0]])
	back := strings.TrimSpace(line[loc[1]:])
	if front == "" || back == "" {
		return types.Card{}, false
	}
	return types.Card{Front: front, Back: back}, true
}

// firstSeparator returns the [start, end) offsets of the winning separator
// match, or nil when no strategy matches.
func firstSeparator(line string) []int {
	var best []int
	for _, sep := range separators {
		loc := sep.pattern.FindStringIndex(line)
		if loc == nil {
			continue
		}
		if best == nil || loc[0] < best[0] {
			best = loc
		}
	}
	return best
}

// splitLines splits on \r\n, \n, and lone \r.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}
