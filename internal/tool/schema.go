package tool

import (
	"github.com/invopop/jsonschema"
)

// InputSchema renders the argument schema as a JSON Schema object.
// Properties keep declaration order.
func (d Definition) InputSchema() *jsonschema.Schema {
	properties := jsonschema.NewProperties()
	required := make([]string, 0, len(d.Schema))

	for _, p := range d.Schema {
		properties.Set(p.Name, &jsonschema.Schema{
			Type:        string(p.Kind),
			Description: p.Description,
			Default:     p.Default,
		})
		if p.Required {
			required = append(required, p.Name)
		}
	}

	schema := &jsonschema.Schema{
		Type:                 "object",
		Properties:           properties,
		AdditionalProperties: jsonschema.FalseSchema,
	}
	if len(required) > 0 {
		schema.Required = required
	}
	return schema
}
