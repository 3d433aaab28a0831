// Package render turns commands into instruction prompts using the
// registered templates, and keeps the history of what was rendered.
package render

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"promptbox/model"
	"promptbox/templates"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnknownAction means no template is registered for a command's action.
var ErrUnknownAction = errors.New("unknown action")

// Markers written in place of missing values.
const (
	markerResource  = "[recurso]"
	markerData      = "[sin datos]"
	markerID        = "[id]"
	markerAction    = "[acción]"
	markerModule    = "[módulo]"
	markerTableName = "[nombreTabla]"
	markerFieldSpec = "[camposTabla]"
)

type Renderer struct {
	templates *templates.Registry
	history   *History
	logger    *zap.Logger
	now       func() time.Time
}

type Option func(*Renderer)

func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithHistory(h *History) Option {
	return func(r *Renderer) {
		if h != nil {
			r.history = h
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

func New(reg *templates.Registry, opts ...Option) *Renderer {
	r := &Renderer{
		templates: reg,
		history:   NewHistory(),
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) History() *History {
	return r.history
}

// Render builds the prompt for cmd and appends it to the history. pctx may
// be nil.
func (r *Renderer) Render(cmd model.Command, pctx *model.ProjectContext) (model.RenderedPrompt, error) {
	text, err := r.Instruction(cmd, pctx)
	if err != nil {
		return model.RenderedPrompt{}, err
	}

	p := model.RenderedPrompt{
		ID:        uuid.NewString(),
		Command:   cmd,
		Text:      text,
		CreatedAt: r.now(),
		Context:   snapshot(pctx),
	}
	r.history.Append(p)

	r.logger.Debug("Rendered prompt",
		zap.String("action", string(cmd.Action)),
		zap.String("resource", cmd.Resource),
		zap.Int("chars", len(text)),
		zap.Int("history", r.history.Len()))
	return p, nil
}

// RenderMarkdown renders cmd and returns it wrapped as a markdown document.
func (r *Renderer) RenderMarkdown(cmd model.Command, pctx *model.ProjectContext) (model.RenderedPrompt, string, error) {
	p, err := r.Render(cmd, pctx)
	if err != nil {
		return p, "", err
	}
	return p, Wrap(p), nil
}

// Instruction renders the instruction text without recording it.
func (r *Renderer) Instruction(cmd model.Command, pctx *model.ProjectContext) (string, error) {
	tmpl, ok := r.templates.Get(cmd.Action)
	if !ok {
		r.logger.Warn("No template for action", zap.String("action", string(cmd.Action)))
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}

	text := templates.Substitute(tmpl.Body, placeholderValues(cmd))
	if pctx.Recognized() {
		text = enrich(text, cmd, pctx)
	}
	return text, nil
}

func placeholderValues(cmd model.Command) map[string]string {
	vals := map[string]string{
		"resource": orMarker(cmd.Resource, markerResource),
	}
	switch cmd.Action {
	case model.ActionCreate:
		vals["data"] = formatValue(cmd.Data, markerData)
	case model.ActionFetch:
		q := cmd.Query
		if q.IsAbsent() {
			q = cmd.ID
		}
		vals["idOrQuery"] = formatValue(q, markerData)
	case model.ActionUpdate:
		vals["id"] = formatValue(cmd.ID, markerID)
		vals["updates"] = formatValue(cmd.Updates, markerData)
	case model.ActionDelete:
		vals["id"] = formatValue(cmd.ID, markerID)
	case model.ActionExecute:
		vals["action"] = orMarker(cmd.Resource, markerAction)
		vals["payload"] = formatValue(cmd.Payload, markerData)
	case model.ActionCreateTable:
		vals["modulo"] = formatValue(cmd.Module, markerModule)
		vals["nombreTabla"] = formatValue(cmd.TableName, markerTableName)
		vals["camposTabla"] = formatValue(cmd.FieldSpec, markerFieldSpec)
	}
	return vals
}

func formatValue(v model.Value, marker string) string {
	switch v.Kind() {
	case model.KindAbsent:
		return marker
	case model.KindStructured:
		return v.Pretty()
	case model.KindString, model.KindNumber, model.KindRaw:
		return v.Text()
	}
	return v.Text()
}

func orMarker(s, marker string) string {
	if s == "" {
		return marker
	}
	return s
}

// enrich appends what the workspace knows about the command's resource.
// Nothing is added unless the resource names a known entity.
func enrich(text string, cmd model.Command, pctx *model.ProjectContext) string {
	if cmd.Resource == "" {
		return text
	}
	i := slices.IndexFunc(pctx.Entities, func(e string) bool {
		return strings.EqualFold(e, cmd.Resource)
	})
	if i < 0 {
		return text
	}

	var b strings.Builder
	b.WriteString(text)
	b.WriteString("\n\nContexto del proyecto Génesis:")
	fmt.Fprintf(&b, "\n- La entidad %q existe en Compartido.Entidades", pctx.Entities[i])

	res := strings.ToLower(cmd.Resource)
	related := func(name string) bool {
		return strings.Contains(strings.ToLower(name), res)
	}
	if j := slices.IndexFunc(pctx.Models, related); j >= 0 {
		fmt.Fprintf(&b, "\n- Modelo relacionado: %s en Compartido.Modelos", pctx.Models[j])
	}
	if j := slices.IndexFunc(pctx.Repositories, related); j >= 0 {
		fmt.Fprintf(&b, "\n- Repositorio: %s en Compartido.Repositorio", pctx.Repositories[j])
	}
	return b.String()
}

func snapshot(pctx *model.ProjectContext) *model.ProjectContext {
	if pctx == nil {
		return nil
	}
	c := *pctx
	c.Entities = slices.Clone(pctx.Entities)
	c.Models = slices.Clone(pctx.Models)
	c.Repositories = slices.Clone(pctx.Repositories)
	return &c
}
