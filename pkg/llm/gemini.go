package llm

import (
	"context"
	"encoding/json"
	"fmt"

	genai "google.golang.org/genai"
)

// GeminiConfig tunes the Gemini-backed client.
type GeminiConfig struct {
	TextModel       string
	ImageModel      string
	Temperature     float64
	MaxOutputTokens int
}

// GeminiClient is a thin wrapper around the official genai client. It
// only covers the API calls themselves; error classification and schema
// validation happen in the generation service.
type GeminiClient struct {
	cli *genai.Client
	cfg GeminiConfig
}

// NewGeminiClient builds a client against the public Gemini API. The
// API key is read from the environment (GEMINI_API_KEY) by the genai
// client itself.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if cfg.TextModel == "" {
		cfg.TextModel = "gemini-2.5-flash"
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = "imagen-3.0-generate-002"
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 8192
	}
	return &GeminiClient{cli: cli, cfg: cfg}, nil
}

// Name identifies the backend for logging.
func (g *GeminiClient) Name() string { return "Gemini:" + g.cfg.TextModel }

// GenerateStructured asks for application/json constrained by the
// provided response schema and returns the raw candidate text.
func (g *GeminiClient) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema) (json.RawMessage, error) {
	temp := float32(g.cfg.Temperature)
	resp, err := g.cli.Models.GenerateContent(ctx, g.cfg.TextModel,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
			Temperature:      &temp,
			MaxOutputTokens:  int32(g.cfg.MaxOutputTokens),
		},
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyResponse
	}
	txt := resp.Candidates[0].Content.Parts[0].Text
	if txt == "" {
		return nil, ErrEmptyResponse
	}
	return json.RawMessage(ExtractJSON(txt)), nil
}

// GenerateImage calls the image model and returns the first image's
// bytes. A settled call without bytes is still an error.
func (g *GeminiClient) GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]byte, error) {
	if aspectRatio == "" {
		aspectRatio = "1:1"
	}
	resp, err := g.cli.Models.GenerateImages(ctx, g.cfg.ImageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    aspectRatio,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil || len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return nil, ErrNoImage
	}
	return resp.GeneratedImages[0].Image.ImageBytes, nil
}

// StreamRefine streams free-text refinement chunks in order. The
// sequence is finite and not restartable; the caller concatenates.
func (g *GeminiClient) StreamRefine(ctx context.Context, instruction, text string, onChunk func(chunk string) error) error {
	prompt := instruction + "\n\n[TEXT]\n" + text
	for resp, err := range g.cli.Models.GenerateContentStream(ctx, g.cfg.TextModel,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{MaxOutputTokens: int32(g.cfg.MaxOutputTokens)},
	) {
		if err != nil {
			return err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			continue
		}
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text == "" {
				continue
			}
			if err := onChunk(part.Text); err != nil {
				return err
			}
		}
	}
	return nil
}
