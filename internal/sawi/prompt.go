package sawi

import (
	"strings"
	"text/template"
)

var promptTemplate = template.Must(template.New("prompt").Parse(`ANALISIS TANAMAN SAWI
[Aturan Analisis]
1. Walaupun terdapat Data Referensi dan Input Pengguna, tetaplah fokus pada analisis gambar yang diberikan, data yang diberikan hanyalah pendukung.
2. Tanaman berada di minggu ke-{{.Week}} sejak tanam; gunakan data referensi minggu ke-{{.Reference.Week}}.
3. Jika Input Pengguna tidak sesuai dengan Data Referensi, tetaplah fokus pada analisis gambar yang diberikan.
4. Jika Input Pengguna kosong, abaikan dan fokus pada analisis gambar yang diberikan.

[Data Referensi]
{{.Reference.Text}}
[Input Pengguna]
{{range .Answers}}[{{.Question}}] {{if .Value}}{{.Value}}{{if .Unit}} {{.Unit}}{{end}}{{else}}(tidak diisi){{end}}
{{end}}
[Format Output Wajib]
<GRADE>
[Skala A (sangat baik) sampai F (sangat buruk)]
</GRADE>

<CATATAN_TAMBAHAN>
1. Analisis kondisi tanaman berdasarkan data
2. Identifikasi masalah utama (jika ada)
3. Solusi spesifik yang direkomendasikan
</CATATAN_TAMBAHAN>

<AKSI_REKOMENDASI>
1. Langkah konkret pertama yang harus dilakukan
2. Langkah monitoring
3. Tindakan lanjutan jika diperlukan
</AKSI_REKOMENDASI>

[Aturan Response]
1. Gunakan format XML-like di atas secara ketat
2. Setiap bagian harus diapit oleh tag pembuka dan penutup
3. Gunakan bullet points untuk poin-poin penting
4. Jangan tambahkan teks penjelasan di luar format yang diminta
`))

type promptAnswer struct {
	Question string
	Value    string
	Unit     string
}

// BuildPrompt renders the analysis instructions for a report submitted in the
// given growth week.
func BuildPrompt(week int, in ReportInput) (string, error) {
	questions := QuestionsForWeek(week)
	answers := make([]promptAnswer, len(questions))
	for i, q := range questions {
		answers[i] = promptAnswer{
			Question: q.Question,
			Value:    strings.TrimSpace(in.answer(q.Key)),
			Unit:     q.Unit,
		}
	}

	var b strings.Builder
	err := promptTemplate.Execute(&b, map[string]any{
		"Week":      week,
		"Reference": ReferenceForWeek(week),
		"Answers":   answers,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
