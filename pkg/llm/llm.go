package llm

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	genai "google.golang.org/genai"
)

var (
	// ErrEmptyResponse is returned when the model call succeeded but
	// produced no usable candidate text.
	ErrEmptyResponse = errors.New("llm: empty response from model")
	// ErrNoImage is returned when an image call settles without bytes.
	ErrNoImage = errors.New("llm: no image bytes in response")
)

// Client is the generation backend consumed by the dispatcher. The real
// implementation wraps the Gemini API; tests and offline development use
// the fake.
type Client interface {
	// GenerateStructured sends a prompt plus a structural response
	// schema and returns the raw JSON text emitted by the model.
	GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema) (json.RawMessage, error)
	// GenerateImage returns raw image bytes for the prompt.
	GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]byte, error)
	// StreamRefine produces an ordered, finite sequence of text chunks
	// refining the given text; chunks are delivered to onChunk until the
	// stream ends or the callback returns an error.
	StreamRefine(ctx context.Context, instruction, text string, onChunk func(chunk string) error) error
	// Name identifies the backend for logging.
	Name() string
}

var reJSONFence = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// ExtractJSON strips markdown fences the model sometimes wraps around
// its JSON output and trims to the outermost object or array.
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if m := reJSONFence.FindStringSubmatch(s); len(m) == 2 {
		s = strings.TrimSpace(m[1])
	}
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s
	}
	var end int
	if s[start] == '{' {
		end = strings.LastIndex(s, "}")
	} else {
		end = strings.LastIndex(s, "]")
	}
	if end <= start {
		return s
	}
	return s[start : end+1]
}
