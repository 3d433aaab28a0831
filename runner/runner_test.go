package runner

import (
	"context"
	"testing"

	"promptbox/model"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestExtractParams(t *testing.T) {
	tests := []struct {
		cmd  string
		want []string
	}{
		{"claude -p", nil},
		{"ai --tag {{action}} --name {{resource}}", []string{"action", "resource"}},
		{"{{x}} {{y}} {{x}}", []string{"x", "y"}},
		{"{{not valid}} {single}", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractParams(tt.cmd), tt.cmd)
	}
}

func TestSubstituteParams(t *testing.T) {
	got := SubstituteParams("ai {{action}} {{model}} {{action}}", map[string]string{"action": "crear"})
	assert.Equal(t, "ai crear {{model}} crear", got)

	// Values are not scanned again.
	got = SubstituteParams("{{a}} {{b}}", map[string]string{"a": "{{b}}", "b": "x"})
	assert.Equal(t, "{{b}} x", got)
}

func TestPromptParams(t *testing.T) {
	p := model.RenderedPrompt{
		ID:      "abc",
		Command: model.Command{Action: model.ActionCreate, Resource: "it's"},
	}
	params := PromptParams(p)
	assert.Equal(t, "'crear'", params["action"])
	assert.Equal(t, `'it'\''s'`, params["resource"])
	assert.Equal(t, "'abc'", params["id"])
}

func TestCollectPassesInput(t *testing.T) {
	lines, errMsg := Collect(context.Background(), "cat", "primera\nsegunda\n")
	assert.Empty(t, errMsg)
	assert.Equal(t, []string{"primera", "segunda"}, lines)
}

func TestCollectCapturesStderr(t *testing.T) {
	lines, errMsg := Collect(context.Background(), "echo fallo >&2; exit 3", "")
	assert.Equal(t, []string{"fallo"}, lines)
	assert.Contains(t, errMsg, "exit status 3")
}

func TestCollectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, errMsg := Collect(ctx, "sleep 5", "")
	assert.NotEmpty(t, errMsg)
}
