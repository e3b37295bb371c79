package analyzer

import (
	"context"
	"fmt"
	"os"

	"sawiku/internal/config"
	"sawiku/internal/sawi"
)

// DefaultAPIKeyEnv holds the Gemini API key when the config names no variable.
const DefaultAPIKeyEnv = "GEMINI_API_KEY"

// NewAnalyzerFromConfig creates an Analyzer based on the analyzer config type.
func NewAnalyzerFromConfig(ctx context.Context, cfg config.AnalyzerConfig) (sawi.Analyzer, error) {
	switch cfg.Type {
	case "gemini", "":
		env := cfg.APIKeyEnv
		if env == "" {
			env = DefaultAPIKeyEnv
		}
		key := os.Getenv(env)
		if key == "" {
			return nil, fmt.Errorf("gemini analyzer requires an API key in $%s", env)
		}
		return NewGeminiAnalyzer(ctx, key, cfg.Model)
	case "stub":
		return NewStubAnalyzer(DefaultStubText, 0), nil
	default:
		return nil, fmt.Errorf("unknown analyzer type: %s", cfg.Type)
	}
}
