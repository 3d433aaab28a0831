package parser

import (
	"regexp"
	"sort"
	"strings"

	"promptbox/model"
)

var callRegex = buildCallRegex()

// buildCallRegex matches "Backend.<keyword>(" with longer keywords first so
// crearTabla is not cut short at crear.
func buildCallRegex() *regexp.Regexp {
	keywords := make([]string, len(model.Actions))
	for i, a := range model.Actions {
		keywords[i] = regexp.QuoteMeta(string(a))
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		return len(keywords[i]) > len(keywords[j])
	})
	return regexp.MustCompile(`Backend\.(` + strings.Join(keywords, "|") + `)\s*\(`)
}

// Match is a command found in a text together with where it was found.
type Match struct {
	Command model.Command
	Text    string // the call as written
	Start   int    // byte offset of "Backend."
	End     int    // byte offset just past the closing parenthesis
	Line    int    // 0-based line of Start
}

// Extract parses the first backend call in text. ok is false when there is
// none.
func Extract(text string) (model.Command, bool) {
	m, ok := next(text, 0)
	if !ok {
		return model.Command{}, false
	}
	return m.Command, true
}

// ExtractAll parses every backend call in text, in document order.
func ExtractAll(text string) []model.Command {
	matches := FindAll(text)
	cmds := make([]model.Command, len(matches))
	for i, m := range matches {
		cmds[i] = m.Command
	}
	return cmds
}

// FindAll returns every non-overlapping call in text with its location.
func FindAll(text string) []Match {
	var matches []Match
	line, lineFrom := 0, 0
	for from := 0; from < len(text); {
		m, ok := next(text, from)
		if !ok {
			break
		}
		line += strings.Count(text[lineFrom:m.Start], "\n")
		lineFrom = m.Start
		m.Line = line
		matches = append(matches, m)
		from = m.End
	}
	return matches
}

func next(text string, from int) (Match, bool) {
	for from < len(text) {
		loc := callRegex.FindStringSubmatchIndex(text[from:])
		if loc == nil {
			return Match{}, false
		}
		start := from + loc[0]
		open := from + loc[1] - 1
		action := model.Action(text[from+loc[2] : from+loc[3]])

		closing, ok := closingParen(text, open)
		if !ok {
			from += loc[1]
			continue
		}
		return Match{
			Command: newCommand(action, Decode(text[open+1:closing])),
			Text:    text[start : closing+1],
			Start:   start,
			End:     closing + 1,
		}, true
	}
	return Match{}, false
}

// closingParen finds the parenthesis closing the one at open, skipping
// quoted text and balancing nested parentheses. When no balancing ')' is
// found, or a quote never closes, the first ')' after open is used.
func closingParen(text string, open int) (int, bool) {
	depth := 1
scan:
	for i := open + 1; i < len(text); i++ {
		switch c := text[i]; c {
		case '"', '\'', '`':
			end := closingQuote(text, i+1, c)
			if end < 0 {
				break scan
			}
			i = end
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	if i := strings.IndexByte(text[open+1:], ')'); i >= 0 {
		return open + 1 + i, true
	}
	return -1, false
}

// nearbyLines is how far CommandAt widens the search around the cursor.
const nearbyLines = 2

// CommandAt finds the command at a cursor line (0-based). The cursor line
// is tried first, then the lines within nearbyLines of it.
func CommandAt(doc Lines, line int) (model.Command, bool) {
	n := doc.LineCount()
	if line < 0 || line >= n {
		return model.Command{}, false
	}
	if cmd, ok := Extract(doc.Line(line)); ok {
		return cmd, true
	}

	from := max(0, line-nearbyLines)
	to := min(n-1, line+nearbyLines)
	lines := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		lines = append(lines, doc.Line(i))
	}
	return Extract(strings.Join(lines, "\n"))
}
