package analyzer

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"sawiku/internal/sawi"
)

// DefaultModel is used when the configuration does not name one.
const DefaultModel = "gemini-2.0-flash"

// requestTimeout bounds one analysis call.
const requestTimeout = 60 * time.Second

// GeminiAnalyzer grades report photos with a Gemini multimodal model.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// NewGeminiAnalyzer creates a Gemini API client for the given model.
func NewGeminiAnalyzer(ctx context.Context, apiKey, model string) (*GeminiAnalyzer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiAnalyzer{client: client, model: model}, nil
}

// Analyze sends the prompt and the inline image as a single user turn.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, req sawi.AnalysisRequest) (*sawi.AnalysisResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if len(req.Image) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.Image, req.MIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("GenAI returned no text")
	}

	out := &sawi.AnalysisResponse{Text: text}
	if resp.UsageMetadata != nil {
		out.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return out, nil
}

// Model returns the model name requests are sent to.
func (a *GeminiAnalyzer) Model() string {
	return a.model
}

var _ sawi.Analyzer = (*GeminiAnalyzer)(nil)
