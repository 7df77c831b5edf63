package tool

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = Schema{
	{Name: "text", Kind: KindString, Required: true},
	{Name: "model", Kind: KindString, Default: "m-1"},
	{Name: "max_tokens", Kind: KindNumber, Default: 8192},
	{Name: "verbose", Kind: KindBoolean, Default: false},
	{Name: "note", Kind: KindString},
}

func TestValidate_FillsDefaults(t *testing.T) {
	args, err := Validate(testSchema, map[string]any{"text": "hello"})

	require.NoError(t, err)
	assert.Equal(t, "hello", args.String("text"))
	assert.Equal(t, "m-1", args.String("model"))
	assert.Equal(t, float64(8192), args["max_tokens"])
	assert.Equal(t, false, args["verbose"])
	_, hasNote := args["note"]
	assert.False(t, hasNote, "optional param without default must be left out")
}

func TestValidate_NullOptionalTakesDefault(t *testing.T) {
	args, err := Validate(testSchema, map[string]any{"text": "x", "model": nil})

	require.NoError(t, err)
	assert.Equal(t, "m-1", args.String("model"))
}

func TestValidate_ExplicitValuesOverrideDefaults(t *testing.T) {
	args, err := Validate(testSchema, map[string]any{
		"text":       "x",
		"model":      "m-2",
		"max_tokens": 100,
		"verbose":    true,
	})

	require.NoError(t, err)
	assert.Equal(t, "m-2", args.String("model"))
	assert.Equal(t, float64(100), args.Number("max_tokens"))
	assert.True(t, args.Bool("verbose"))
}

func TestValidate_ZeroNumberIsKept(t *testing.T) {
	schema := Schema{{Name: "temperature", Kind: KindNumber, Default: 0.7}}

	args, err := Validate(schema, map[string]any{"temperature": 0.0})

	require.NoError(t, err)
	assert.Equal(t, 0.0, args.Number("temperature"))
}

func TestValidate_MissingRequired(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"absent", map[string]any{}},
		{"null", map[string]any{"text": nil}},
		{"nil map", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(testSchema, tt.raw)

			var missing *MissingArgumentError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, "text", missing.Name)
			assert.True(t, errors.Is(err, ErrMissingArgument))
			assert.Contains(t, err.Error(), `"text"`)
		})
	}
}

func TestValidate_TypeMismatch(t *testing.T) {
	tests := []struct {
		name  string
		raw   map[string]any
		field string
		want  Kind
	}{
		{"number for string", map[string]any{"text": 42}, "text", KindString},
		{"string for number", map[string]any{"text": "x", "max_tokens": "many"}, "max_tokens", KindNumber},
		{"string for bool", map[string]any{"text": "x", "verbose": "yes"}, "verbose", KindBoolean},
		{"object for string", map[string]any{"text": map[string]any{"a": 1}}, "text", KindString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(testSchema, tt.raw)

			var typeErr *ArgumentTypeError
			require.ErrorAs(t, err, &typeErr)
			assert.Equal(t, tt.field, typeErr.Name)
			assert.Equal(t, tt.want, typeErr.Want)
			assert.True(t, errors.Is(err, ErrArgumentType))
			assert.Contains(t, err.Error(), string(tt.want))
		})
	}
}

func TestValidate_NumberForms(t *testing.T) {
	schema := Schema{{Name: "n", Kind: KindNumber, Required: true}}

	for _, v := range []any{int(3), int64(3), uint8(3), float32(3), float64(3), json.Number("3")} {
		args, err := Validate(schema, map[string]any{"n": v})
		require.NoError(t, err, "value %T", v)
		assert.Equal(t, float64(3), args.Number("n"))
	}

	_, err := Validate(schema, map[string]any{"n": json.Number("three")})
	assert.ErrorIs(t, err, ErrArgumentType)
}

func TestValidate_DropsUndeclaredArguments(t *testing.T) {
	raw := map[string]any{"text": "x", "extra": "ignored"}

	args, err := Validate(testSchema, raw)

	require.NoError(t, err)
	_, hasExtra := args["extra"]
	assert.False(t, hasExtra)
}

func TestValidate_ReturnsFreshMap(t *testing.T) {
	raw := map[string]any{"text": "x"}

	args, err := Validate(testSchema, raw)
	require.NoError(t, err)
	args["text"] = "changed"

	assert.Equal(t, "x", raw["text"])
	_, hasModel := raw["model"]
	assert.False(t, hasModel, "defaults must not leak into the caller's map")
}

func TestArgs_Decode(t *testing.T) {
	type request struct {
		Text      string  `mapstructure:"text"`
		Model     string  `mapstructure:"model"`
		MaxTokens int     `mapstructure:"max_tokens"`
		Ratio     float32 `mapstructure:"ratio"`
	}

	args := Args{"text": "t", "model": "m", "max_tokens": float64(8192), "ratio": 0.5}

	var req request
	require.NoError(t, args.Decode(&req))
	assert.Equal(t, request{Text: "t", Model: "m", MaxTokens: 8192, Ratio: 0.5}, req)
}
