package sawi

import (
	"fmt"
	"strings"

	"sawiku/internal/cadence"
)

// GrowthProfile describes how a mustard green looks in a given week.
type GrowthProfile struct {
	Height      string
	LeafCount   string
	Leaves      string
	Temperature string
	Sunlight    string
	Watering    string
	FreshWeight string
}

// WeekReference pairs the healthy and unhealthy profile for one week.
type WeekReference struct {
	Week      int
	Healthy   GrowthProfile
	Unhealthy GrowthProfile
}

var referenceData = [cadence.ReferenceWeeks]WeekReference{
	{
		Week: 1,
		Healthy: GrowthProfile{
			Height:      "±3.4 cm",
			LeafCount:   "2–3 helai",
			Leaves:      "Warna hijau segar, tidak layu, pertumbuhan simetris.",
			Temperature: "28–32°C",
			Sunlight:    "4–6 jam/hari",
			Watering:    "2x sehari (pagi & sore), ±200 ml",
		},
		Unhealthy: GrowthProfile{
			Height:      "1.5–2.5 cm",
			LeafCount:   "1–2 helai",
			Leaves:      "Ukuran daun kecil, warna pucat, ujung daun kering.",
			Temperature: ">32°C",
			Sunlight:    "<4 jam/hari",
			Watering:    "<1x sehari, <200 ml",
		},
	},
	{
		Week: 2,
		Healthy: GrowthProfile{
			Height:      "±5.5 cm",
			LeafCount:   "3–5 helai",
			Leaves:      "Daun mulai melebar, tidak ada bercak, bertekstur halus.",
			Temperature: "28–32°C",
			Sunlight:    "4–6 jam/hari",
			Watering:    "2x sehari (pagi & sore), ±250 ml",
		},
		Unhealthy: GrowthProfile{
			Height:      "3.5–4.5 cm",
			LeafCount:   "2–3 helai",
			Leaves:      "Daun keriput, ada bercak, warna tidak merata.",
			Temperature: ">32°C",
			Sunlight:    "<4 jam/hari",
			Watering:    "Terlalu sering atau sedikit",
		},
	},
	{
		Week: 3,
		Healthy: GrowthProfile{
			Height:      "±9.4 cm",
			LeafCount:   "5–6 helai",
			Leaves:      "Daun lebar, hijau gelap, tegak.",
			Temperature: "28–32°C",
			Sunlight:    "5–6 jam/hari",
			Watering:    "2x sehari, ±300 ml",
		},
		Unhealthy: GrowthProfile{
			Height:      "6–7.5 cm",
			LeafCount:   "4–5 helai",
			Leaves:      "Daun menggulung, lemas, batang lemah.",
			Temperature: "Fluktuatif",
			Sunlight:    "Tidak stabil",
			Watering:    "Tidak konsisten",
		},
	},
	{
		Week: 4,
		Healthy: GrowthProfile{
			Height:      "±14.2 cm",
			LeafCount:   "6–7 helai",
			Leaves:      "Daun sehat, tidak ada tanda penyakit, pertumbuhan konsisten.",
			Temperature: "28–32°C",
			Sunlight:    "5–6 jam/hari",
			Watering:    "2x sehari, ±350 ml",
			FreshWeight: "±10.4 gram",
		},
		Unhealthy: GrowthProfile{
			Height:      "9–11.5 cm",
			LeafCount:   "5–6 helai",
			Leaves:      "Daun kusam, bagian bawah kering.",
			Temperature: ">34°C atau <26°C",
			Sunlight:    "<4 jam/hari",
			Watering:    "Berlebihan atau terlalu jarang",
			FreshWeight: "5–7 gram",
		},
	},
}

// ReferenceForWeek returns the reference slice for a growth week, clamped to
// the weeks the dataset covers.
func ReferenceForWeek(week int) WeekReference {
	return referenceData[cadence.ReferenceWeek(week)-1]
}

// Text renders the slice as the plain-text block embedded in the prompt.
func (r WeekReference) Text() string {
	var b strings.Builder
	writeProfile(&b, fmt.Sprintf("Dataset Pertumbuhan Sawi yang Sehat, Minggu ke-%d", r.Week), r.Healthy)
	b.WriteString("\n")
	writeProfile(&b, fmt.Sprintf("Dataset Pertumbuhan Sawi yang Tidak Sehat, Minggu ke-%d", r.Week), r.Unhealthy)
	return b.String()
}

func writeProfile(b *strings.Builder, title string, p GrowthProfile) {
	fmt.Fprintf(b, "[%s]\n", title)
	fmt.Fprintf(b, "Tinggi Tanaman: %s\n", p.Height)
	fmt.Fprintf(b, "Jumlah Daun: %s\n", p.LeafCount)
	fmt.Fprintf(b, "Ciri Daun: %s\n", p.Leaves)
	fmt.Fprintf(b, "Suhu: %s\n", p.Temperature)
	fmt.Fprintf(b, "Sinar Matahari: %s\n", p.Sunlight)
	fmt.Fprintf(b, "Frekuensi Penyiraman: %s\n", p.Watering)
	if p.FreshWeight != "" {
		fmt.Fprintf(b, "Bobot Segar: %s\n", p.FreshWeight)
	}
}
