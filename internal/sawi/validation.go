package sawi

import (
	"math"
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxPhotoBytes is the largest accepted photo upload.
const MaxPhotoBytes = 2_000_000

// DefaultSpecies is used when a plant is added without a species.
const DefaultSpecies = "Sawi Hijau"

// photoExts maps the accepted image types to the extension they are stored under.
var photoExts = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// Photo is an uploaded image. ContentType is the detected type of Data; the
// client's filename never decides how the photo is stored.
type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Ext returns the storage extension for the photo's content type, or "jpg" for
// an unknown type.
func (p *Photo) Ext() string {
	if ext, ok := photoExts[p.ContentType]; ok {
		return ext
	}
	return "jpg"
}

func validatePhoto(v *ValidationError, field string, p *Photo, required bool) {
	if p == nil || len(p.Data) == 0 {
		if required {
			v.add(field, "Foto tanaman wajib diunggah.")
		}
		return
	}
	if len(p.Data) > MaxPhotoBytes {
		v.add(field, "Ukuran file maksimal 2MB.")
		return
	}
	if _, ok := photoExts[p.ContentType]; !ok {
		v.add(field, "Hanya format .jpg, .jpeg, .png, dan .webp yang diperbolehkan.")
	}
}

func minChars(v *ValidationError, field, value string, n int, msg string) {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < n {
		v.add(field, msg)
	}
}

// numberAtMost accepts an empty answer or a finite number no larger than max.
func numberAtMost(v *ValidationError, field, value string, max float64, label, unit string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		v.add(field, label+" harus berupa angka")
		return
	}
	if n > max {
		v.add(field, label+" maksimal "+strconv.FormatFloat(max, 'f', -1, 64)+" "+unit)
	}
}

// SignUpInput is the registration form.
type SignUpInput struct {
	DisplayName string
	Email       string
	Password    string
}

// Validate checks the registration form.
func (in SignUpInput) Validate() error {
	v := &ValidationError{}
	minChars(v, "displayName", in.DisplayName, 3, "Nama minimal 3 karakter.")
	validateEmail(v, in.Email)
	if utf8.RuneCountInString(in.Password) < 6 {
		v.add("password", "Password minimal 6 karakter.")
	}
	return v.err()
}

func validateEmail(v *ValidationError, email string) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Address != strings.TrimSpace(email) {
		v.add("email", "Format email tidak valid.")
	}
}

// NewPlantInput is the add-plant form.
type NewPlantInput struct {
	Name      string
	Species   string
	PlantedAt time.Time
	Notes     string
	Photo     *Photo
}

// Validate checks the add-plant form. An empty species defaults to DefaultSpecies.
func (in *NewPlantInput) Validate() error {
	if strings.TrimSpace(in.Species) == "" {
		in.Species = DefaultSpecies
	}
	v := &ValidationError{}
	minChars(v, "name", in.Name, 3, "Nama tanaman minimal 3 karakter.")
	minChars(v, "species", in.Species, 3, "Spesies tanaman minimal 3 karakter.")
	if in.PlantedAt.IsZero() {
		v.add("plantingDate", "Tanggal tanam wajib diisi.")
	}
	validatePhoto(v, "photo", in.Photo, false)
	return v.err()
}

// ReportInput is the growth report form. Measurements are kept as typed.
type ReportInput struct {
	PlantID        string
	PlantHeight    string
	LeafCount      string
	LeafCondition  string
	Temperature    string
	Sunlight       string
	WaterFrequency string
	PlantSymptoms  string
	FreshWeight    string
	Photo          *Photo
}

// Validate checks the growth report form.
func (in ReportInput) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(in.PlantID) == "" {
		v.add("plantId", "Pilih tanaman terlebih dahulu.")
	}
	numberAtMost(v, "plantHeight", in.PlantHeight, 100, "Tinggi tanaman", "cm")
	numberAtMost(v, "leafCount", in.LeafCount, 100, "Jumlah daun", "helai")
	numberAtMost(v, "temperature", in.Temperature, 50, "Suhu lingkungan", "°C")
	numberAtMost(v, "sunlight", in.Sunlight, 24, "Lama sinar matahari", "jam")
	numberAtMost(v, "waterFrequency", in.WaterFrequency, 7, "Frekuensi penyiraman", "kali")
	numberAtMost(v, "freshWeight", in.FreshWeight, 1000, "Bobot segar", "gram")
	validatePhoto(v, "photo", in.Photo, true)
	return v.err()
}
