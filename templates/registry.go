// Package templates holds the instruction templates rendered for each
// backend action. The built-in set is embedded from backend.yaml; a YAML
// file with the same layout can replace it.
package templates

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sync"

	"promptbox/model"

	"gopkg.in/yaml.v3"
)

//go:embed backend.yaml
var backendYAML []byte

var ErrInvalidTemplate = errors.New("invalid template")

var placeholderRegex = regexp.MustCompile(`\{(\w+)\}`)

// Registry maps actions to templates. It is read-only once built.
type Registry struct {
	order    []model.Action
	byAction map[model.Action]model.Template
}

// New validates tmpls and builds a registry keeping their order.
func New(tmpls ...model.Template) (*Registry, error) {
	r := &Registry{byAction: make(map[model.Action]model.Template, len(tmpls))}
	for _, t := range tmpls {
		if err := validate(t); err != nil {
			return nil, err
		}
		if _, dup := r.byAction[t.Action]; dup {
			return nil, fmt.Errorf("%w: duplicate action %q", ErrInvalidTemplate, t.Action)
		}
		r.byAction[t.Action] = t
		r.order = append(r.order, t.Action)
	}
	return r, nil
}

func validate(t model.Template) error {
	if !t.Action.Valid() {
		return fmt.Errorf("%w: unknown action %q", ErrInvalidTemplate, t.Action)
	}
	if t.Body == "" {
		return fmt.Errorf("%w: %s has an empty template", ErrInvalidTemplate, t.Action)
	}
	present := make(map[string]bool)
	for _, p := range Placeholders(t.Body) {
		present[p] = true
	}
	for _, p := range t.Required {
		if !present[p] {
			return fmt.Errorf("%w: %s requires {%s} but the template never uses it", ErrInvalidTemplate, t.Action, p)
		}
	}
	return nil
}

// Parse reads a YAML list of templates.
func Parse(data []byte) (*Registry, error) {
	var tmpls []model.Template
	if err := yaml.Unmarshal(data, &tmpls); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return New(tmpls...)
}

func Load(r io.Reader) (*Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	return Parse(data)
}

func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
	defaultErr  error
)

// Default returns the embedded registry, parsed on first use.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultReg, defaultErr = Parse(backendYAML)
	})
	return defaultReg, defaultErr
}

// MustDefault is Default for callers that cannot recover from a broken
// embedded asset.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Get(action model.Action) (model.Template, bool) {
	t, ok := r.byAction[action]
	return t, ok
}

// All returns the templates in the order they were declared.
func (r *Registry) All() []model.Template {
	out := make([]model.Template, len(r.order))
	for i, a := range r.order {
		out[i] = r.byAction[a]
	}
	return out
}

func (r *Registry) Actions() []model.Action {
	return append([]model.Action(nil), r.order...)
}

// Placeholders returns the distinct {name} markers in body, in order of
// first appearance.
func Placeholders(body string) []string {
	matches := placeholderRegex.FindAllStringSubmatch(body, -1)
	seen := make(map[string]bool)
	var names []string
	for _, m := range matches {
		name := m[1]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// Substitute replaces each {name} marker in body with values[name] in a
// single pass. Markers without a value are left as written, and
// substituted text is never scanned again.
func Substitute(body string, values map[string]string) string {
	return placeholderRegex.ReplaceAllStringFunc(body, func(m string) string {
		if v, ok := values[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}
