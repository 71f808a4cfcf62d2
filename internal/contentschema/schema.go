package contentschema

import (
	"fmt"

	genai "google.golang.org/genai"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
)

// ResponseSchema builds the structural descriptor sent to the
// generation backend for a kind. It is derived from the same canonical
// field specs the validation gate uses; pipeline-stamped fields (ids,
// timestamps, merged rubrics) are omitted because the model must not
// author them.
func ResponseSchema(kind models.ContentKind) (*genai.Schema, error) {
	spec, ok := kindSpec(kind)
	if !ok {
		return nil, fmt.Errorf("contentschema: unknown content kind %q", kind)
	}
	return objectSchema(spec), nil
}

func objectSchema(spec []fieldSpec) *genai.Schema {
	properties := make(map[string]*genai.Schema, len(spec))
	var required []string
	for _, field := range spec {
		if field.pipeline {
			continue
		}
		properties[field.name] = fieldSchema(field)
		if field.required {
			required = append(required, field.name)
		}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: properties,
		Required:   required,
	}
}

func fieldSchema(field fieldSpec) *genai.Schema {
	switch field.typ {
	case ftNumber:
		return &genai.Schema{Type: genai.TypeNumber, Description: field.desc}
	case ftBoolean:
		return &genai.Schema{Type: genai.TypeBoolean, Description: field.desc}
	case ftStringArray:
		return &genai.Schema{
			Type:        genai.TypeArray,
			Description: field.desc,
			Items:       &genai.Schema{Type: genai.TypeString},
		}
	case ftObject:
		s := objectSchema(field.fields)
		s.Description = field.desc
		return s
	case ftObjectArray:
		return &genai.Schema{
			Type:        genai.TypeArray,
			Description: field.desc,
			Items:       objectSchema(field.fields),
		}
	default:
		// Strings, including the polymorphic answer key, which is
		// requested as a string and repaired into a list afterwards.
		s := &genai.Schema{Type: genai.TypeString, Description: field.desc}
		if len(field.enum) > 0 {
			s.Enum = field.enum
		}
		return s
	}
}
