package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"promptbox/model"
	"promptbox/parser"
)

var ErrUnknownFormat = errors.New("unknown export format")

type Format string

const (
	FormatPlain    Format = "plain"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPlain, FormatMarkdown, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Export serializes an already rendered prompt. It never re-renders.
func Export(p model.RenderedPrompt, f Format) (string, error) {
	switch f {
	case FormatPlain:
		return p.Text, nil
	case FormatMarkdown:
		return Wrap(p), nil
	case FormatJSON:
		b, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode prompt: %w", err)
		}
		return string(b), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Wrap lays a prompt out as a markdown document: the call, the
// instruction, and a summary of the workspace when one was recognized.
func Wrap(p model.RenderedPrompt) string {
	var b strings.Builder
	b.WriteString("## Prompt Generado\n\n")
	b.WriteString("### Comando\n")
	b.WriteString("```javascript\n")
	b.WriteString(parser.Format(p.Command))
	b.WriteString("\n```\n\n")
	b.WriteString("### Instrucción para IA\n\n")
	b.WriteString(p.Text)

	if p.Context.Recognized() {
		b.WriteString("\n\n### Contexto del Proyecto\n")
		b.WriteString("- Tipo de proyecto: Génesis\n")
		fmt.Fprintf(&b, "- Entidades disponibles: %d\n", len(p.Context.Entities))
		fmt.Fprintf(&b, "- Modelos disponibles: %d\n", len(p.Context.Models))
		fmt.Fprintf(&b, "- Repositorios disponibles: %d\n", len(p.Context.Repositories))
	}
	return b.String()
}
