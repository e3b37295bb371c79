package sawi

import "testing"

func TestParseAnalysis(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Analysis
	}{
		{
			name: "all sections",
			text: "<GRADE>B</GRADE>\n<CATATAN_TAMBAHAN>\n- daun sehat\n- batang kokoh\n</CATATAN_TAMBAHAN>\n<AKSI_REKOMENDASI> siram pagi </AKSI_REKOMENDASI>",
			want: Analysis{Grade: "B", Notes: "- daun sehat\n- batang kokoh", Recommendations: "siram pagi"},
		},
		{
			name: "missing sections are empty",
			text: "Maaf, saya tidak dapat menilai gambar ini. <GRADE>C</GRADE>",
			want: Analysis{Grade: "C"},
		},
		{
			name: "first match wins",
			text: "<GRADE>A</GRADE> lalu <GRADE>F</GRADE>",
			want: Analysis{Grade: "A"},
		},
		{
			name: "fallback text",
			text: analysisFailedText,
			want: Analysis{},
		},
		{
			name: "unterminated tag",
			text: "<GRADE>B",
			want: Analysis{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseAnalysis(tt.text); got != tt.want {
				t.Errorf("ParseAnalysis() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConditionLabel(t *testing.T) {
	want := map[string]string{
		"A": "Excellent", "B": "Good", "C": "Fair", "D": "Poor", "E": "Very Poor", "F": "Critical",
		"": "", "Z": "", "a": "",
	}
	for grade, label := range want {
		if got := ConditionLabel(grade); got != label {
			t.Errorf("ConditionLabel(%q) = %q, want %q", grade, got, label)
		}
	}
}
