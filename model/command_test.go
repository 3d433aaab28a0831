package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	for _, a := range Actions {
		got, ok := ParseAction(string(a))
		assert.True(t, ok, a)
		assert.Equal(t, a, got)
	}

	_, ok := ParseAction("create")
	assert.False(t, ok)
	_, ok = ParseAction("Crear")
	assert.False(t, ok)
	assert.False(t, Action("borrar").Valid())
}

func TestActionCall(t *testing.T) {
	assert.Equal(t, "Backend.crearTabla()", ActionCreateTable.Call())
}

func TestCommandWithAndGet(t *testing.T) {
	var cmd Command
	updated := cmd.With(SlotResource, String("usuario")).With(SlotID, Number(5))

	assert.Empty(t, cmd.Resource, "With must not modify the receiver")
	assert.Equal(t, "usuario", updated.Resource)
	assert.True(t, updated.Get(SlotID).Equal(Number(5)))
	assert.True(t, updated.Get(SlotResource).Equal(String("usuario")))
	assert.True(t, cmd.Get(SlotResource).IsAbsent())
}

func TestCommandWithResourceFromNumber(t *testing.T) {
	cmd := Command{}.With(SlotResource, Number(42))
	assert.Equal(t, "42", cmd.Resource)
}

func TestSlotString(t *testing.T) {
	assert.Equal(t, "tableName", SlotTableName.String())
	assert.Equal(t, "unknown", Slot(-1).String())
}

func TestCommandMarshalJSONOmitsAbsent(t *testing.T) {
	cmd := Command{
		Action:   ActionUpdate,
		Resource: "usuario",
		ID:       Number(123),
		Updates:  Structured(`{"email":"nuevo@test.com"}`),
	}
	b, err := json.Marshal(cmd)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"action": "actualizar",
		"resource": "usuario",
		"id": 123,
		"updates": {"email": "nuevo@test.com"}
	}`, string(b))
	assert.NotContains(t, string(b), "data")
}

func TestRecognized(t *testing.T) {
	var nilCtx *ProjectContext
	assert.False(t, nilCtx.Recognized())
	assert.False(t, (&ProjectContext{Type: ProjectOther}).Recognized())
	assert.True(t, (&ProjectContext{Type: ProjectGenesis}).Recognized())
}
