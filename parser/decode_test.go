package parser

import (
	"testing"

	"promptbox/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// kinds summarizes values as kind:text pairs for comparison.
func kinds(vals []model.Value) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.Kind().String() + ":" + v.Text()
	}
	return out
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		args string
		want []string
	}{
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"double quotes", `"usuario"`, []string{"string:usuario"}},
		{"single quotes", `'usuario'`, []string{"string:usuario"}},
		{"backticks", "`usuario`", []string{"string:usuario"}},
		{"number", `"proyecto", 123`, []string{"string:proyecto", "number:123"}},
		{"float", `1.5`, []string{"number:1.5"}},
		{"quoted digits stay strings", `"123"`, []string{"string:123"}},
		{"json object", `"u", {"a": 1}`, []string{"string:u", `structured:{"a": 1}`}},
		{"json array", `[1, 2, 3]`, []string{"structured:[1, 2, 3]"}},
		{"unquoted keys", `{ nombre: "Juan", email: "j@t.com" }`, []string{`raw:{ nombre: "Juan", email: "j@t.com" }`}},
		{"identifier", `"u", miVariable`, []string{"string:u", "raw:miVariable"}},
		{"comma in string", `"a, b", 1`, []string{"string:a, b", "number:1"}},
		{"comma in array", `"u", [1, 2]`, []string{"string:u", "structured:[1, 2]"}},
		{"escaped quote", `"di \"hola\", adiós"`, []string{`string:di \"hola\", adiós`}},
		{"unterminated quote", `"abc`, []string{`raw:"abc`}},
		{"trailing comma", `"u", 1,`, []string{"string:u", "number:1"}},
		{"empty middle", `"u", , 3`, []string{"string:u", "raw:", "number:3"}},
		{"nested call", `"u", f(a, b)`, []string{"string:u", "raw:f(a, b)"}},
		{"NaN stays raw", `NaN`, []string{"raw:NaN"}},
		{"lower nan stays raw", `"u", nan`, []string{"string:u", "raw:nan"}},
		{"inf stays raw", `"u", inf`, []string{"string:u", "raw:inf"}},
		{"Infinity stays raw", `Infinity`, []string{"raw:Infinity"}},
		{"hex float stays raw", `0x1p-2`, []string{"raw:0x1p-2"}},
		{"hex int stays raw", `0x1F`, []string{"raw:0x1F"}},
		{"overflow stays raw", `1e999`, []string{"raw:1e999"}},
		{"signed exponent", `-2.5e3`, []string{"number:-2500"}},
		{"leading dot", `.5`, []string{"number:0.5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kinds(Decode(tt.args))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode(%q) mismatch (-want +got):\n%s", tt.args, diff)
			}
		})
	}
}

func TestDecodeIsTotal(t *testing.T) {
	inputs := []string{
		`{`, `[`, `"`, `'`, "`", `,`, `,,`, `{"a":`, `)`, `\`, `"\`, `1e`, `--1`,
		"\x00", `{[}]`, `'a' 'b'`,
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			for _, v := range Decode(in) {
				assert.False(t, v.IsAbsent(), "input %q produced an absent value", in)
			}
		})
	}
}

func TestDecodeValueWhitespace(t *testing.T) {
	v := DecodeValue("   42  ")
	assert.Equal(t, model.KindNumber, v.Kind())
	assert.Equal(t, "42", v.Text())

	assert.Equal(t, model.KindRaw, DecodeValue("  ").Kind())
}
