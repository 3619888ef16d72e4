package skills

import (
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// Schema kinds accepted by Schema
const (
	SchemaMetadata = "metadata"
	SchemaStep     = "step"
)

// Schema returns the JSON Schema describing SKILL.md frontmatter ("metadata")
// or a genai-step block ("step")
func Schema(kind string) (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}

	switch kind {
	case SchemaMetadata, "":
		return reflector.Reflect(&Metadata{}), nil
	case SchemaStep:
		return reflector.Reflect(&Step{}), nil
	default:
		return nil, errors.Errorf("unknown schema kind %q, expected %s or %s", kind, SchemaMetadata, SchemaStep)
	}
}
