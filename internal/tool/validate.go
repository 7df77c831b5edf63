package tool

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Args holds validated, default-filled arguments.
// It is always a fresh map built by Validate and never aliases the caller's input.
type Args map[string]any

// String returns the named string argument, or "" when absent.
func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Number returns the named number argument, or 0 when absent.
func (a Args) Number(name string) float64 {
	n, _ := a[name].(float64)
	return n
}

// Bool returns the named boolean argument, or false when absent.
func (a Args) Bool(name string) bool {
	b, _ := a[name].(bool)
	return b
}

// Decode copies the arguments into a typed request struct using
// `mapstructure` tags. Numbers decode into any numeric field.
func (a Args) Decode(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "mapstructure",
		Result:      out,
		ErrorUnused: false,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(map[string]any(a)); err != nil {
		return fmt.Errorf("decode arguments: %w", err)
	}
	return nil
}

// Validate checks raw against schema and returns the sanitized arguments.
//
// Required params must be present and non-null. Optional params that are absent
// or null take their declared default; with no default they are left out.
// Arguments not declared in the schema are dropped.
func Validate(schema Schema, raw map[string]any) (Args, error) {
	args := make(Args, len(schema))

	for _, p := range schema {
		value, ok := raw[p.Name]
		if !ok || value == nil {
			if p.Required {
				return nil, &MissingArgumentError{Name: p.Name}
			}
			if p.Default == nil {
				continue
			}
			value = p.Default
		}

		normalized, ok := coerce(p.Kind, value)
		if !ok {
			return nil, &ArgumentTypeError{Name: p.Name, Want: p.Kind, Got: value}
		}
		args[p.Name] = normalized
	}

	return args, nil
}

// coerce checks value against kind. Numbers are widened to float64.
func coerce(kind Kind, value any) (any, bool) {
	switch kind {
	case KindString:
		s, ok := value.(string)
		return s, ok
	case KindBoolean:
		b, ok := value.(bool)
		return b, ok
	case KindNumber:
		return toFloat(value)
	default:
		return nil, false
	}
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
