package parser

import "strings"

// Lines is read access to an editor buffer.
type Lines interface {
	LineCount() int
	Line(i int) string
}

// Document is an in-memory Lines over a text.
type Document struct {
	lines []string
}

func NewDocument(text string) *Document {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return &Document{lines: lines}
}

func (d *Document) LineCount() int {
	return len(d.lines)
}

func (d *Document) Line(i int) string {
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	return d.lines[i]
}

func (d *Document) Text() string {
	return strings.Join(d.lines, "\n")
}
