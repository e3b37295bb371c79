package sawi

import "context"

// AnalysisRequest is a single multi-part prompt sent to the image/text model.
type AnalysisRequest struct {
	Prompt   string
	Image    []byte
	MIMEType string
}

// AnalysisResponse is the model's free-text answer.
type AnalysisResponse struct {
	Text        string
	TotalTokens int
}

// Analyzer scores a growth report photo against the reference data.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResponse, error)
}
