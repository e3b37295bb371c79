package sawi

import (
	"slices"

	"sawiku/internal/cadence"
)

// Question is one item of the growth report questionnaire.
type Question struct {
	Key         string `json:"key"`
	Type        string `json:"type"` // "number" or "text"
	Question    string `json:"question"`
	Placeholder string `json:"placeholder"`
	Description string `json:"description"`
	Unit        string `json:"unit,omitempty"`
	Weeks       []int  `json:"weeks"`
}

var questionnaire = []Question{
	{
		Key:         "plantHeight",
		Type:        "number",
		Question:    "Berapa tinggi tanaman sawi Anda minggu ini (cm)?",
		Placeholder: "Tinggi tanaman (cm)",
		Description: "Tinggi tanaman dari pangkal batang hingga ujung daun tertinggi.",
		Unit:        "cm",
		Weeks:       []int{1, 2, 3, 4},
	},
	{
		Key:         "leafCount",
		Type:        "number",
		Question:    "Berapa jumlah daun tanaman sawi Anda minggu ini?",
		Placeholder: "Jumlah daun",
		Description: "Jumlah daun sejati yang sudah terbentuk.",
		Unit:        "helai",
		Weeks:       []int{1, 2, 3, 4},
	},
	{
		Key:         "leafCondition",
		Type:        "text",
		Question:    "Bagaimana kondisi daun tanaman sawi Anda minggu ini?",
		Placeholder: "cth: hijau, kuning, keriting, bolong, kotor",
		Description: "Kondisi daun tanaman sawi Anda minggu ini.",
		Weeks:       []int{1, 2, 3, 4},
	},
	{
		Key:         "temperature",
		Type:        "number",
		Question:    "Berapa suhu lingkungan tanaman sawi Anda minggu ini (°C)?",
		Placeholder: "Suhu lingkungan (°C)",
		Description: "Suhu rata-rata lokasi tanam.",
		Unit:        "°C",
		Weeks:       []int{1, 2, 3, 4},
	},
	{
		Key:         "sunlight",
		Type:        "number",
		Question:    "Berapa lama tanaman terkena sinar matahari per hari (jam)?",
		Placeholder: "Lama sinar matahari (jam)",
		Description: "Lama waktu tanaman terkena sinar matahari per hari.",
		Unit:        "jam",
		Weeks:       []int{1, 2, 3, 4},
	},
	{
		Key:         "waterFrequency",
		Type:        "number",
		Question:    "Berapa kali Anda menyiram tanaman sawi Anda dalam seminggu?",
		Placeholder: "Frekuensi penyiraman (kali)",
		Description: "Frekuensi penyiraman tanaman sawi Anda dalam seminggu.",
		Unit:        "kali",
		Weeks:       []int{1, 2, 3},
	},
	{
		Key:         "plantSymptoms",
		Type:        "text",
		Question:    "Apakah tanaman menunjukkan gejala sakit?",
		Placeholder: "cth: daun kuning, bercak hitam, layu",
		Description: "Gejala yang muncul pada tanaman sawi Anda.",
		Weeks:       []int{4},
	},
	{
		Key:         "freshWeight",
		Type:        "number",
		Question:    "Berapa bobot segar tanaman sawi Anda minggu ini (gram)?",
		Placeholder: "Bobot segar (gram)",
		Description: "Bobot segar tanaman sawi Anda minggu ini.",
		Unit:        "gram",
		Weeks:       []int{4},
	},
}

// QuestionsForWeek returns the questionnaire items shown in the given growth
// week. Weeks past the reference range use the last reference week.
func QuestionsForWeek(week int) []Question {
	week = cadence.ReferenceWeek(week)
	var out []Question
	for _, q := range questionnaire {
		if slices.Contains(q.Weeks, week) {
			out = append(out, q)
		}
	}
	return out
}

// answer returns the form value matching a question key.
func (in ReportInput) answer(key string) string {
	switch key {
	case "plantHeight":
		return in.PlantHeight
	case "leafCount":
		return in.LeafCount
	case "leafCondition":
		return in.LeafCondition
	case "temperature":
		return in.Temperature
	case "sunlight":
		return in.Sunlight
	case "waterFrequency":
		return in.WaterFrequency
	case "plantSymptoms":
		return in.PlantSymptoms
	case "freshWeight":
		return in.FreshWeight
	}
	return ""
}
