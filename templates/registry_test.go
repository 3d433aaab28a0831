package templates

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"promptbox/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHasEveryAction(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	if diff := cmp.Diff(model.Actions, reg.Actions()); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}
	for _, tmpl := range reg.All() {
		assert.Contains(t, tmpl.Body, tmpl.Action.Call(), "template %s", tmpl.Action)
		assert.NotEmpty(t, tmpl.Description)
		assert.NotEmpty(t, tmpl.Examples)
	}
	assert.Same(t, reg, MustDefault())
}

func TestNewValidates(t *testing.T) {
	tests := []struct {
		name  string
		tmpls []model.Template
	}{
		{"unknown action", []model.Template{{Action: "borrar", Body: "x"}}},
		{"empty body", []model.Template{{Action: model.ActionCreate}}},
		{"missing required placeholder", []model.Template{{
			Action:   model.ActionCreate,
			Body:     "crear {resource}",
			Required: []string{"resource", "data"},
		}}},
		{"duplicate", []model.Template{
			{Action: model.ActionDelete, Body: "a"},
			{Action: model.ActionDelete, Body: "b"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.tmpls...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTemplate))
		})
	}
}

func TestNewKeepsOrder(t *testing.T) {
	reg, err := New(
		model.Template{Action: model.ActionDelete, Body: "borrar {resource}"},
		model.Template{Action: model.ActionCreate, Body: "crear {resource}"},
	)
	require.NoError(t, err)
	assert.Equal(t, []model.Action{model.ActionDelete, model.ActionCreate}, reg.Actions())

	_, ok := reg.Get(model.ActionFetch)
	assert.False(t, ok)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	yaml := `
- action: eliminar
  name: borrar
  description: Borra
  required: [resource]
  template: "Borra {resource} ({id}). La instrucción es Backend.eliminar()."
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	reg, err := LoadFile(path)
	require.NoError(t, err)
	tmpl, ok := reg.Get(model.ActionDelete)
	require.True(t, ok)
	assert.Equal(t, "borrar", tmpl.Name)
	assert.Equal(t, []string{"resource"}, tmpl.Required)

	_, err = Load(strings.NewReader("not: [valid"))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("{resource} con {id}; otra vez {resource} y {{doble}} y {no válido}")
	assert.Equal(t, []string{"resource", "id", "doble"}, got)
	assert.Empty(t, Placeholders("sin marcadores"))
}

func TestSubstitute(t *testing.T) {
	body := "{resource}/{id}/{resource}/{desconocido}"
	got := Substitute(body, map[string]string{
		"resource": "usuario",
		"id":       "{resource}",
	})
	assert.Equal(t, "usuario/{resource}/usuario/{desconocido}", got)
}

func TestDoc(t *testing.T) {
	tmpl, ok := MustDefault().Get(model.ActionFetch)
	require.True(t, ok)

	doc := Doc(tmpl)
	assert.Contains(t, doc, "**Backend.obtener**")
	assert.Contains(t, doc, "**Parámetros requeridos:**\n- `resource`")
	assert.Contains(t, doc, "**Parámetros opcionales:**\n- `idOrQuery`")
	assert.Contains(t, doc, "```javascript\nBackend.obtener(\"usuario\", 123)\n```")
}

func TestSnippetParses(t *testing.T) {
	for _, a := range model.Actions {
		s := Snippet(a)
		assert.True(t, strings.HasPrefix(s, "Backend."+string(a)+"("), s)
	}
	assert.Equal(t, "Backend.otro(parametro)", Snippet("otro"))
}
