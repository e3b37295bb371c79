package analyzer

import (
	"context"
	"errors"
	"testing"

	"sawiku/internal/config"
	"sawiku/internal/sawi"
)

func TestStubAnalyzer(t *testing.T) {
	a := NewStubAnalyzer(DefaultStubText, 42)
	req := sawi.AnalysisRequest{Prompt: "nilai foto", Image: []byte{0xff, 0xd8}, MIMEType: "image/jpeg"}

	resp, err := a.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if resp.Text != DefaultStubText || resp.TotalTokens != 42 {
		t.Errorf("Analyze() = %+v", resp)
	}

	got := a.Requests()
	if len(got) != 1 || got[0].Prompt != "nilai foto" || got[0].MIMEType != "image/jpeg" {
		t.Errorf("Requests() = %+v", got)
	}
}

func TestStubAnalyzer_DefaultTextParses(t *testing.T) {
	a := sawi.ParseAnalysis(DefaultStubText)
	if a.Grade != "B" || a.Notes == "" || a.Recommendations == "" {
		t.Errorf("ParseAnalysis(DefaultStubText) = %+v", a)
	}
}

func TestFailingAnalyzer(t *testing.T) {
	quota := errors.New("quota exceeded")
	a := NewFailingAnalyzer(quota)

	resp, err := a.Analyze(context.Background(), sawi.AnalysisRequest{Prompt: "x"})
	if !errors.Is(err, quota) {
		t.Errorf("Analyze() error = %v, want %v", err, quota)
	}
	if resp != nil {
		t.Errorf("Analyze() response = %+v, want nil", resp)
	}
	if len(a.Requests()) != 1 {
		t.Errorf("failed request not recorded")
	}
}

func TestNewGeminiAnalyzer_RequiresKey(t *testing.T) {
	if _, err := NewGeminiAnalyzer(context.Background(), "", ""); err == nil {
		t.Error("NewGeminiAnalyzer() without key expected error")
	}
}

func TestNewAnalyzerFromConfig(t *testing.T) {
	t.Run("stub", func(t *testing.T) {
		a, err := NewAnalyzerFromConfig(context.Background(), config.AnalyzerConfig{Type: "stub"})
		if err != nil {
			t.Fatalf("NewAnalyzerFromConfig() error = %v", err)
		}
		if _, ok := a.(*StubAnalyzer); !ok {
			t.Errorf("NewAnalyzerFromConfig() = %T, want *StubAnalyzer", a)
		}
	})

	t.Run("gemini without key", func(t *testing.T) {
		t.Setenv("SAWIKU_TEST_EMPTY_KEY", "")
		_, err := NewAnalyzerFromConfig(context.Background(), config.AnalyzerConfig{Type: "gemini", APIKeyEnv: "SAWIKU_TEST_EMPTY_KEY"})
		if err == nil {
			t.Error("NewAnalyzerFromConfig() expected error without API key")
		}
	})

	t.Run("gemini with key", func(t *testing.T) {
		t.Setenv("SAWIKU_TEST_KEY", "test-key")
		a, err := NewAnalyzerFromConfig(context.Background(), config.AnalyzerConfig{Type: "gemini", APIKeyEnv: "SAWIKU_TEST_KEY"})
		if err != nil {
			t.Fatalf("NewAnalyzerFromConfig() error = %v", err)
		}
		g, ok := a.(*GeminiAnalyzer)
		if !ok {
			t.Fatalf("NewAnalyzerFromConfig() = %T, want *GeminiAnalyzer", a)
		}
		if g.Model() != DefaultModel {
			t.Errorf("Model() = %q, want %q", g.Model(), DefaultModel)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := NewAnalyzerFromConfig(context.Background(), config.AnalyzerConfig{Type: "openai"}); err == nil {
			t.Error("NewAnalyzerFromConfig() expected error")
		}
	})
}
