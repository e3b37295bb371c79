package api

import (
	"time"

	"sawiku/internal/model"
	"sawiku/internal/sawi"
)

const photoRoute = "/api/v1/photos/"

func photoURL(ref string) string {
	if ref == "" {
		return ""
	}
	return photoRoute + ref
}

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

func newUserResponse(sess *sawi.Session) userResponse {
	return userResponse{ID: sess.UserID, Email: sess.Email, DisplayName: sess.DisplayName}
}

type plantResponse struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Species            string     `json:"species"`
	PlantingDate       time.Time  `json:"plantingDate"`
	Notes              string     `json:"notes,omitempty"`
	ImageURL           string     `json:"imageUrl,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	LastWateringDate   *time.Time `json:"lastWateringDate,omitempty"`
	LastReportDate     *time.Time `json:"lastReportDate,omitempty"`
	LastReportImageURL string     `json:"lastReportImageUrl,omitempty"`
	ConditionGrade     string     `json:"conditionGrade,omitempty"`
	ConditionLabel     string     `json:"conditionLabel,omitempty"`
	ConditionNotes     string     `json:"conditionNotes,omitempty"`
	Recommendations    string     `json:"recommendations,omitempty"`
}

func newPlantResponse(p *model.Plant) plantResponse {
	return plantResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Species:            p.Species,
		PlantingDate:       p.PlantedAt,
		Notes:              p.Notes,
		ImageURL:           photoURL(p.PhotoRef),
		CreatedAt:          p.CreatedAt,
		LastWateringDate:   p.LastWateringAt,
		LastReportDate:     p.LastReportAt,
		LastReportImageURL: photoURL(p.LastReportPhotoRef),
		ConditionGrade:     p.ConditionGrade,
		ConditionLabel:     sawi.ConditionLabel(p.ConditionGrade),
		ConditionNotes:     p.ConditionNotes,
		Recommendations:    p.Recommendations,
	}
}

type wateringResponse struct {
	ID        string    `json:"id"`
	WateredAt time.Time `json:"wateredAt"`
	Notes     string    `json:"notes,omitempty"`
	Streak    int       `json:"streak"`
}

func newWateringResponse(l *model.WateringLog) wateringResponse {
	return wateringResponse{ID: l.ID, WateredAt: l.WateredAt, Notes: l.Notes, Streak: l.Streak}
}

func newWateringResponses(logs []*model.WateringLog) []wateringResponse {
	out := make([]wateringResponse, len(logs))
	for i, l := range logs {
		out[i] = newWateringResponse(l)
	}
	return out
}

type reportResponse struct {
	ID              string    `json:"id"`
	ReportedAt      time.Time `json:"reportedAt"`
	Week            int       `json:"week"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	PlantHeight     string    `json:"plantHeight,omitempty"`
	LeafCount       string    `json:"leafCount,omitempty"`
	LeafCondition   string    `json:"leafCondition,omitempty"`
	Temperature     string    `json:"temperature,omitempty"`
	Sunlight        string    `json:"sunlight,omitempty"`
	WaterFrequency  string    `json:"waterFrequency,omitempty"`
	PlantSymptoms   string    `json:"plantSymptoms,omitempty"`
	FreshWeight     string    `json:"freshWeight,omitempty"`
	AIAnalysis      string    `json:"aiAnalysis"`
	Grade           string    `json:"grade"`
	ConditionLabel  string    `json:"conditionLabel,omitempty"`
	AdditionalNotes string    `json:"additionalNotes"`
	Recommendations string    `json:"recommendedActions"`
	TokensUsed      int       `json:"tokensUsed"`
}

func newReportResponse(r *model.GrowthReport) reportResponse {
	return reportResponse{
		ID:              r.ID,
		ReportedAt:      r.ReportedAt,
		Week:            r.Week,
		ImageURL:        photoURL(r.PhotoRef),
		PlantHeight:     r.PlantHeight,
		LeafCount:       r.LeafCount,
		LeafCondition:   r.LeafCondition,
		Temperature:     r.Temperature,
		Sunlight:        r.Sunlight,
		WaterFrequency:  r.WaterFrequency,
		PlantSymptoms:   r.PlantSymptoms,
		FreshWeight:     r.FreshWeight,
		AIAnalysis:      r.AnalysisText,
		Grade:           r.Grade,
		ConditionLabel:  sawi.ConditionLabel(r.Grade),
		AdditionalNotes: r.Notes,
		Recommendations: r.Recommendations,
		TokensUsed:      r.TokensUsed,
	}
}

func newReportResponses(reports []*model.GrowthReport) []reportResponse {
	out := make([]reportResponse, len(reports))
	for i, r := range reports {
		out[i] = newReportResponse(r)
	}
	return out
}

type overviewResponse struct {
	Plant            plantResponse      `json:"plant"`
	Week             int                `json:"week"`
	ReportAllowed    bool               `json:"reportAllowed"`
	WateredToday     bool               `json:"wateredToday"`
	CurrentStreak    int                `json:"currentStreak"`
	LastWateredLabel string             `json:"lastWateredLabel,omitempty"`
	LastReportLabel  string             `json:"lastReportLabel,omitempty"`
	WateringLogs     []wateringResponse `json:"wateringLogs"`
	GrowthReports    []reportResponse   `json:"growthReports"`
}

func newOverviewResponse(ov *sawi.PlantOverview) overviewResponse {
	return overviewResponse{
		Plant:            newPlantResponse(ov.Plant),
		Week:             ov.Week,
		ReportAllowed:    ov.ReportAllowed,
		WateredToday:     ov.WateredToday,
		CurrentStreak:    ov.CurrentStreak,
		LastWateredLabel: ov.LastWateredLabel,
		LastReportLabel:  ov.LastReportLabel,
		WateringLogs:     newWateringResponses(ov.WateringLogs),
		GrowthReports:    newReportResponses(ov.GrowthReports),
	}
}
