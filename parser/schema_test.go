package parser

import (
	"testing"

	"promptbox/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaCoversEveryAction(t *testing.T) {
	for _, a := range model.Actions {
		slots := Schema(a)
		require.NotEmpty(t, slots, a)
		if a == model.ActionCreateTable {
			assert.Equal(t, model.SlotModule, slots[0])
			continue
		}
		assert.Equal(t, model.SlotResource, slots[0], "first argument of %s", a)
	}
}

func TestBuild(t *testing.T) {
	cmd := Build(model.ActionUpdate, "usuario", "123", `{"email": "a@b.c"}`)
	assert.Equal(t, "usuario", cmd.Resource)
	assert.True(t, cmd.ID.Equal(model.Number(123)))
	assert.Equal(t, model.KindStructured, cmd.Updates.Kind())
}

func TestBuildBlankAnswersStayAbsent(t *testing.T) {
	cmd := Build(model.ActionFetch, "proyecto", "  ")
	assert.Equal(t, "proyecto", cmd.Resource)
	assert.True(t, cmd.Query.IsAbsent())

	cmd = Build(model.ActionDelete, "proyecto", "7", "extra")
	assert.True(t, cmd.ID.Equal(model.Number(7)))
}

func TestBuildCreateTableSetsResource(t *testing.T) {
	cmd := Build(model.ActionCreateTable, "Compartido", "Cliente", "Id:int")
	assert.Equal(t, "Cliente", cmd.Resource)
	assert.Equal(t, "Compartido", cmd.Module.Text())
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"fetch", `Backend.obtener( "proyecto" ,123 )`, `Backend.obtener("proyecto", 123)`},
		{"no args", `Backend.eliminar()`, `Backend.eliminar()`},
		{"raw data", `Backend.crear('u', { a: 1 })`, `Backend.crear("u", { a: 1 })`},
		{"create table", `Backend.crearTabla("M", "T", "Id:int")`, `Backend.crearTabla("M", "T", "Id:int")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := Extract(tt.src)
			require.True(t, ok)
			assert.Equal(t, tt.want, Format(cmd))
		})
	}
}

func TestFormatAbsentMiddleArgument(t *testing.T) {
	cmd := model.Command{Action: model.ActionUpdate, Resource: "u", Updates: model.Structured(`{"a":1}`)}
	assert.Equal(t, `Backend.actualizar("u", null, {"a":1})`, Format(cmd))
}
