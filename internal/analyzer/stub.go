package analyzer

import (
	"context"
	"sync"

	"sawiku/internal/sawi"
)

// DefaultStubText is a well-formed answer in the tagged output format.
const DefaultStubText = `<GRADE>B</GRADE>
<CATATAN_TAMBAHAN>Daun hijau segar, pertumbuhan sesuai minggu tanam.</CATATAN_TAMBAHAN>
<AKSI_REKOMENDASI>Pertahankan penyiraman pagi dan sore.</AKSI_REKOMENDASI>`

// StubAnalyzer returns a fixed answer or error and records every request.
// It serves local development without an API key and tests.
type StubAnalyzer struct {
	mu       sync.Mutex
	text     string
	tokens   int
	err      error
	requests []sawi.AnalysisRequest
}

// NewStubAnalyzer returns an analyzer that always answers text.
func NewStubAnalyzer(text string, tokens int) *StubAnalyzer {
	return &StubAnalyzer{text: text, tokens: tokens}
}

// NewFailingAnalyzer returns an analyzer that always fails with err.
func NewFailingAnalyzer(err error) *StubAnalyzer {
	return &StubAnalyzer{err: err}
}

func (s *StubAnalyzer) Analyze(ctx context.Context, req sawi.AnalysisRequest) (*sawi.AnalysisResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return &sawi.AnalysisResponse{Text: s.text, TotalTokens: s.tokens}, nil
}

// Requests returns a copy of the requests received so far.
func (s *StubAnalyzer) Requests() []sawi.AnalysisRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sawi.AnalysisRequest(nil), s.requests...)
}

var _ sawi.Analyzer = (*StubAnalyzer)(nil)
