package sawi

import (
	"strings"
	"testing"
)

func questionKeys(qs []Question) []string {
	keys := make([]string, len(qs))
	for i, q := range qs {
		keys[i] = q.Key
	}
	return keys
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func TestQuestionsForWeek(t *testing.T) {
	week1 := questionKeys(QuestionsForWeek(1))
	if !contains(week1, "waterFrequency") || contains(week1, "freshWeight") || contains(week1, "plantSymptoms") {
		t.Errorf("week 1 questions = %v", week1)
	}
	if len(week1) != 6 {
		t.Errorf("len(week 1) = %d, want 6", len(week1))
	}

	week4 := questionKeys(QuestionsForWeek(4))
	if contains(week4, "waterFrequency") || !contains(week4, "freshWeight") || !contains(week4, "plantSymptoms") {
		t.Errorf("week 4 questions = %v", week4)
	}

	week9 := questionKeys(QuestionsForWeek(9))
	if strings.Join(week9, ",") != strings.Join(week4, ",") {
		t.Errorf("week 9 questions = %v, want week 4 set %v", week9, week4)
	}

	week0 := questionKeys(QuestionsForWeek(0))
	if strings.Join(week0, ",") != strings.Join(week1, ",") {
		t.Errorf("week 0 questions = %v, want week 1 set %v", week0, week1)
	}
}

func TestReferenceForWeek(t *testing.T) {
	for week, want := range map[int]int{-3: 1, 1: 1, 2: 2, 4: 4, 12: 4} {
		if got := ReferenceForWeek(week).Week; got != want {
			t.Errorf("ReferenceForWeek(%d).Week = %d, want %d", week, got, want)
		}
	}

	text := ReferenceForWeek(1).Text()
	for _, s := range []string{"Sawi yang Sehat, Minggu ke-1", "Sawi yang Tidak Sehat, Minggu ke-1", "Tinggi Tanaman: ±3.4 cm"} {
		if !strings.Contains(text, s) {
			t.Errorf("reference text missing %q", s)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	in := ReportInput{PlantHeight: "12", LeafCondition: "hijau segar", FreshWeight: "80"}

	prompt, err := BuildPrompt(6, in)
	if err != nil {
		t.Fatalf("BuildPrompt() error = %v", err)
	}

	for _, s := range []string{
		"minggu ke-6 sejak tanam",
		"data referensi minggu ke-4",
		"Minggu ke-4",
		"12 cm",
		"] hijau segar",
		"80 gram",
		"(tidak diisi)",
		"<GRADE>",
		"<CATATAN_TAMBAHAN>",
		"<AKSI_REKOMENDASI>",
	} {
		if !strings.Contains(prompt, s) {
			t.Errorf("prompt missing %q", s)
		}
	}
	if strings.Contains(prompt, "Berapa kali Anda menyiram") {
		t.Error("week 6 prompt asks the week 1-3 watering question")
	}
}
