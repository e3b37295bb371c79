package sawi

import (
	"regexp"
	"strings"
)

// Fallback analysis texts stored when no model answer is available.
const (
	analysisFailedText = "Gagal menganalisis gambar dengan AI."
	noPhotoText        = "Tidak ada foto untuk dianalisis."
)

var (
	gradePattern   = regexp.MustCompile(`(?s)<GRADE>(.*?)</GRADE>`)
	notesPattern   = regexp.MustCompile(`(?s)<CATATAN_TAMBAHAN>(.*?)</CATATAN_TAMBAHAN>`)
	actionsPattern = regexp.MustCompile(`(?s)<AKSI_REKOMENDASI>(.*?)</AKSI_REKOMENDASI>`)
)

// Analysis is the structured part of a model answer.
type Analysis struct {
	Grade           string `json:"grade"`
	Notes           string `json:"additionalNotes"`
	Recommendations string `json:"recommendedActions"`
}

// ParseAnalysis extracts the three tagged sections of a model answer.
// Missing sections come back empty.
func ParseAnalysis(text string) Analysis {
	return Analysis{
		Grade:           firstGroup(gradePattern, text),
		Notes:           firstGroup(notesPattern, text),
		Recommendations: firstGroup(actionsPattern, text),
	}
}

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// ConditionLabel maps a letter grade to its display label.
func ConditionLabel(grade string) string {
	switch grade {
	case "A":
		return "Excellent"
	case "B":
		return "Good"
	case "C":
		return "Fair"
	case "D":
		return "Poor"
	case "E":
		return "Very Poor"
	case "F":
		return "Critical"
	}
	return ""
}
