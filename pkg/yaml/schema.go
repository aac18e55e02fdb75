package yaml

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator reflects JSON schemas from Go types.
// Uses [github.com/invopop/jsonschema].
type SchemaGenerator struct {
	reflector *jsonschema.Reflector
	v         any
}

// NewSchemaGenerator creates a new [SchemaGenerator] for v. Required fields
// are taken from `jsonschema:"required"` tags, and unknown properties are
// allowed so documents can carry fields the schema does not describe.
func NewSchemaGenerator(v any) *SchemaGenerator {
	return &SchemaGenerator{
		v: v,
		reflector: &jsonschema.Reflector{
			Anonymous:                  true,
			RequiredFromJSONSchemaTags: true,
			AllowAdditionalProperties:  true,
			DoNotReference:             true,
		},
	}
}

// Generate returns the JSON encoded schema.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	jss := g.reflector.Reflect(g.v)

	b, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return b, nil
}

// NewValidatorFor reflects a schema from v and compiles it into a [Validator].
func NewValidatorFor(url string, v any) (*Validator, error) {
	b, err := NewSchemaGenerator(v).Generate()
	if err != nil {
		return nil, err
	}

	return NewValidator(url, b)
}
