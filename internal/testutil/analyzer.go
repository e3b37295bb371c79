package testutil

import (
	"errors"

	"sawiku/internal/analyzer"
)

// GradedAnswer is an analyzer answer grading the photo A.
const GradedAnswer = `Hasil analisis:
<GRADE>A</GRADE>
<CATATAN_TAMBAHAN>
Daun lebar dan hijau tua.
</CATATAN_TAMBAHAN>
<AKSI_REKOMENDASI>Lanjutkan perawatan.</AKSI_REKOMENDASI>`

// NewTestAnalyzer returns an analyzer that answers GradedAnswer using 100 tokens.
func NewTestAnalyzer() *analyzer.StubAnalyzer {
	return analyzer.NewStubAnalyzer(GradedAnswer, 100)
}

// NewFailingAnalyzer returns an analyzer that always fails.
func NewFailingAnalyzer() *analyzer.StubAnalyzer {
	return analyzer.NewFailingAnalyzer(errors.New("quota exceeded"))
}
