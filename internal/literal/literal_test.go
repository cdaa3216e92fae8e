package literal

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"{'a': 1}", map[string]any{"a": 1}},
		{`{"a": [1, 2.5, 'x'], 'b': {'c': None}}`, map[string]any{"a": []any{1, 2.5, "x"}, "b": map[string]any{"c": nil}}},
		{"[1, 2, 3,]", []any{1, 2, 3}},
		{"(1,)", []any{1}},
		{"()", []any{}},
		{"{}", map[string]any{}},
		{"{1, 2}", []any{1, 2}},
		{"{1: 'one', True: 'yes'}", map[string]any{"1": "one", "True": "yes"}},
		{"True", true},
		{"False", false},
		{"None", nil},
		{"-5", -5},
		{"+5", 5},
		{"1_000", 1000},
		{"0x1F", 31},
		{"0o17", 15},
		{"0b101", 5},
		{"1.5e3", 1500.0},
		{".5", 0.5},
		{"-1e-2", -0.01},
		{`'it\'s'`, "it's"},
		{`"tab\there"`, "tab\there"},
		{`r'\d+'`, `\d+`},
		{`'a' "b"`, "ab"},
		{`'''multi
line'''`, "multi\nline"},
		{`'\x41é'`, "Aé"},
		{"  [ 'spaced' ]  ", []any{"spaced"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Eval(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalBigInt(t *testing.T) {
	got, err := Eval("123456789012345678901234567890")
	require.NoError(t, err)
	want, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	assert.Equal(t, 0, want.Cmp(got.(*big.Int)))
}

func TestEvalRejects(t *testing.T) {
	for _, in := range []string{
		"",
		"{'a'",
		"{'a': }",
		"[1 2]",
		"foo",
		"__import__('os')",
		"1 + 2",
		"1j",
		"012",
		"'unterminated",
		"'line\nbreak'",
		"{[1]: 2}",
		"{'a'}x",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := Eval(in)
			var syntaxErr *SyntaxError
			assert.ErrorAs(t, err, &syntaxErr, "%q should be rejected", in)
		})
	}
}
