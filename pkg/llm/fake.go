package llm

import (
	"context"
	"encoding/json"
	"strings"

	genai "google.golang.org/genai"
)

// FakeClient synthesizes deterministic payloads from the requested
// schema. It backs offline development and tests that do not care about
// prose quality, only about shape.
type FakeClient struct {
	// ImageBytes is returned by GenerateImage; empty means ErrNoImage.
	ImageBytes []byte
}

func NewFakeClient() *FakeClient {
	return &FakeClient{ImageBytes: []byte("fake-png-bytes")}
}

func (f *FakeClient) Name() string { return "FakeLLM" }

func (f *FakeClient) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema) (json.RawMessage, error) {
	value := synthesize(schema)
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (f *FakeClient) GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]byte, error) {
	if len(f.ImageBytes) == 0 {
		return nil, ErrNoImage
	}
	return f.ImageBytes, nil
}

func (f *FakeClient) StreamRefine(ctx context.Context, instruction, text string, onChunk func(chunk string) error) error {
	for _, word := range strings.Fields("refined: " + text) {
		if err := onChunk(word + " "); err != nil {
			return err
		}
	}
	return nil
}

// synthesize builds a minimal value satisfying the schema: first enum
// member for enumerated strings, single-element arrays, placeholder
// scalars elsewhere.
func synthesize(s *genai.Schema) any {
	if s == nil {
		return map[string]any{}
	}
	switch s.Type {
	case genai.TypeObject:
		obj := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			obj[name] = synthesize(prop)
		}
		return obj
	case genai.TypeArray:
		return []any{synthesize(s.Items)}
	case genai.TypeString:
		if len(s.Enum) > 0 {
			return s.Enum[0]
		}
		return "fake " + strings.ToLower(s.Description)
	case genai.TypeNumber:
		return 1.0
	case genai.TypeInteger:
		return 1
	case genai.TypeBoolean:
		return true
	default:
		return nil
	}
}
