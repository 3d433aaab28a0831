package parser

import (
	"regexp"
	"strconv"
	"strings"

	"promptbox/model"
)

// decimal is the number syntax calls are written in. ParseFloat alone would
// also take inf, nan and hex floats.
var decimal = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Decode splits the text between a call's parentheses into positional
// values. It never fails: anything that is not a string, JSON or number
// literal is kept as a raw token.
func Decode(args string) []model.Value {
	if strings.TrimSpace(args) == "" {
		return nil
	}

	parts := splitArgs(args)
	// A trailing comma does not open another argument.
	if n := len(parts); n > 1 && strings.TrimSpace(parts[n-1]) == "" {
		parts = parts[:n-1]
	}

	values := make([]model.Value, 0, len(parts))
	for _, p := range parts {
		values = append(values, DecodeValue(p))
	}
	return values
}

// DecodeValue classifies a single argument: quoted string, JSON object or
// array, number, or raw token, in that order.
func DecodeValue(segment string) model.Value {
	seg := strings.TrimSpace(segment)
	if seg == "" {
		return model.Raw("")
	}

	switch seg[0] {
	case '"', '\'', '`':
		end := closingQuote(seg, 1, seg[0])
		if end < 0 {
			return model.Raw(seg)
		}
		return model.String(seg[1:end])
	case '{', '[':
		return model.Structured(seg)
	}

	if decimal.MatchString(seg) {
		// Out of range literals fail here and stay raw.
		if f, err := strconv.ParseFloat(seg, 64); err == nil {
			return model.Number(f)
		}
	}
	return model.Raw(seg)
}

// splitArgs splits on commas outside quotes and brackets.
func splitArgs(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\'', '`':
			end := closingQuote(s, i+1, c)
			if end < 0 {
				// Unterminated quote swallows the rest.
				return append(parts, s[start:])
			}
			i = end
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// closingQuote returns the index of the first unescaped q at or after from,
// or -1.
func closingQuote(s string, from int, q byte) int {
	for i := from; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case q:
			return i
		}
	}
	return -1
}
