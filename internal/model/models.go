package model

import "time"

// User is a registered gardener.
type User struct {
	ID           string // UUID
	Email        string // Stored lowercased
	DisplayName  string
	PasswordHash string // bcrypt
	CreatedAt    time.Time
}

// Plant is a single user-owned plant.
type Plant struct {
	ID        string // UUID
	UserID    string // Foreign key to User
	Name      string
	Species   string // e.g. "Sawi Hijau"
	PlantedAt time.Time
	PhotoRef  string // Blob key of the main photo, empty if none
	Notes     string
	CreatedAt time.Time

	// Watering state, mirrors the newest WateringLog.
	LastWateringAt    *time.Time
	LastWateringLogID string

	// Growth report state, mirrors the newest GrowthReport.
	LastReportAt       *time.Time
	LastReportID       string
	LastReportPhotoRef string
	ConditionGrade     string
	ConditionNotes     string
	Recommendations    string
}

// WateringLog records one watering event. Immutable once created.
type WateringLog struct {
	ID        string // UUID
	PlantID   string // Foreign key to Plant
	WateredAt time.Time
	Notes     string
	Streak    int // Streak at the time of logging, always >= 1
}

// GrowthReport is a scored snapshot of a plant's condition. Immutable once created.
type GrowthReport struct {
	ID         string // UUID
	PlantID    string // Foreign key to Plant
	ReportedAt time.Time
	PhotoRef   string
	Week       int

	// User answers as typed; empty when the question was skipped.
	PlantHeight    string
	LeafCount      string
	LeafCondition  string
	Temperature    string
	Sunlight       string
	WaterFrequency string
	PlantSymptoms  string
	FreshWeight    string

	// AnalysisText is the analyzer's raw answer, or a fallback text when no
	// answer was available. The fields below are parsed from it.
	AnalysisText    string
	Grade           string
	Notes           string
	Recommendations string
	TokensUsed      int
}
