package sawi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"sawiku/internal/cadence"
	"sawiku/internal/model"
)

// reportPhotoBase is the canonical name of a plant's latest report photo.
const reportPhotoBase = "report-image"

// ReportForm describes what the growth report form shows for a plant today.
type ReportForm struct {
	Week          int        `json:"week"`
	ReferenceWeek int        `json:"referenceWeek"`
	Allowed       bool       `json:"allowed"`
	Questions     []Question `json:"questions"`
}

// ReportForm returns the current growth week of the plant, whether a report
// may be submitted today, and the questions for that week.
func (s *Service) ReportForm(ctx context.Context, sess *Session, plantID string) (*ReportForm, error) {
	plant, err := s.GetPlant(ctx, sess, plantID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	week := cadence.GrowthWeek(plant.PlantedAt, now)
	return &ReportForm{
		Week:          week,
		ReferenceWeek: cadence.ReferenceWeek(week),
		Allowed:       s.calendar.ReportAllowed(plant.LastReportAt, now),
		Questions:     QuestionsForWeek(week),
	}, nil
}

// ReportResult is the outcome of a submitted growth report.
type ReportResult struct {
	Report         *model.GrowthReport
	Analysis       Analysis
	AnalysisFailed bool
}

// SubmitGrowthReport validates the form, enforces one report per plant per
// local day, replaces the plant's report photo, asks the analyzer to grade
// the photo and persists the report together with the plant's condition.
// Analyzer and photo storage failures do not fail the submission.
func (s *Service) SubmitGrowthReport(ctx context.Context, sess *Session, in ReportInput) (*ReportResult, error) {
	if err := sess.check(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	plant, err := s.plant(ctx, sess.UserID, in.PlantID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !s.calendar.ReportAllowed(plant.LastReportAt, now) {
		return nil, ErrAlreadyReportedToday
	}

	photoRef := s.replaceReportPhoto(ctx, plant, in.Photo)
	week := cadence.GrowthWeek(plant.PlantedAt, now)

	text, tokens, failed := s.analyze(ctx, plant, week, in, photoRef)
	analysis := ParseAnalysis(text)

	report := &model.GrowthReport{
		ID:              s.idgen.New(),
		PlantID:         plant.ID,
		ReportedAt:      now,
		PhotoRef:        photoRef,
		Week:            week,
		PlantHeight:     strings.TrimSpace(in.PlantHeight),
		LeafCount:       strings.TrimSpace(in.LeafCount),
		LeafCondition:   strings.TrimSpace(in.LeafCondition),
		Temperature:     strings.TrimSpace(in.Temperature),
		Sunlight:        strings.TrimSpace(in.Sunlight),
		WaterFrequency:  strings.TrimSpace(in.WaterFrequency),
		PlantSymptoms:   strings.TrimSpace(in.PlantSymptoms),
		FreshWeight:     strings.TrimSpace(in.FreshWeight),
		AnalysisText:    text,
		Grade:           analysis.Grade,
		Notes:           analysis.Notes,
		Recommendations: analysis.Recommendations,
		TokensUsed:      tokens,
	}

	if err := s.recordReport(ctx, sess.UserID, plant, report); err != nil {
		return nil, err
	}

	s.logger.Info("growth report submitted", "plant", plant.ID, "week", week, "grade", report.Grade, "tokens", tokens)
	return &ReportResult{Report: report, Analysis: analysis, AnalysisFailed: failed}, nil
}

// recordReport commits the report with a conditional write on the plant's
// last report pointer. A conflicting write is only retried while the day's
// report slot is still free.
func (s *Service) recordReport(ctx context.Context, userID string, plant *model.Plant, report *model.GrowthReport) error {
	prevID := plant.LastReportID
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		err := s.database.RecordGrowthReport(ctx, userID, report, prevID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrConcurrentUpdate) {
			return fmt.Errorf("recording growth report: %w", err)
		}

		s.logger.Debug("growth report write conflicted", "plant", plant.ID, "attempt", attempt)
		current, err := s.plant(ctx, userID, plant.ID)
		if err != nil {
			return err
		}
		if !s.calendar.ReportAllowed(current.LastReportAt, report.ReportedAt) {
			return ErrAlreadyReportedToday
		}
		prevID = current.LastReportID
	}
	return ErrConcurrentUpdate
}

// replaceReportPhoto deletes the plant's previous report photo and stores the
// new one under the canonical name. It returns the new key, or "" if the
// photo could not be stored.
func (s *Service) replaceReportPhoto(ctx context.Context, plant *model.Plant, photo *Photo) string {
	if photo == nil || len(photo.Data) == 0 {
		return ""
	}
	prefix := plantPrefix(plant.UserID, plant.ID)

	keys, err := s.blobs.List(ctx, prefix)
	if err != nil {
		s.logger.Warn("listing previous report photos failed", "plant", plant.ID, "error", err)
	}
	for _, key := range keys {
		if !strings.HasPrefix(path.Base(key), reportPhotoBase+".") {
			continue
		}
		if err := s.blobs.Delete(ctx, key); err != nil && !errors.Is(err, ErrBlobNotFound) {
			s.logger.Warn("deleting previous report photo failed", "key", key, "error", err)
		}
	}

	key := prefix + reportPhotoBase + "." + photo.Ext()
	if err := s.blobs.Put(ctx, key, bytes.NewReader(photo.Data), int64(len(photo.Data)), photo.ContentType); err != nil {
		s.logger.Warn("storing report photo failed", "key", key, "error", err)
		return ""
	}
	return key
}

// analyze returns the analyzer's answer, the tokens it used and whether the
// call failed. Without a stored photo the analyzer is not called.
func (s *Service) analyze(ctx context.Context, plant *model.Plant, week int, in ReportInput, photoRef string) (string, int, bool) {
	if photoRef == "" {
		return noPhotoText, 0, false
	}

	prompt, err := BuildPrompt(week, in)
	if err != nil {
		s.logger.Error("rendering analysis prompt failed", "plant", plant.ID, "error", err)
		return analysisFailedText, 0, true
	}

	resp, err := s.analyzer.Analyze(ctx, AnalysisRequest{
		Prompt:   prompt,
		Image:    in.Photo.Data,
		MIMEType: in.Photo.ContentType,
	})
	if err == nil && resp == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		s.logger.Warn("photo analysis failed", "plant", plant.ID, "week", week, "error", err)
		return analysisFailedText, 0, true
	}
	return resp.Text, resp.TotalTokens, false
}

// GrowthReports returns up to limit growth reports of the plant, newest first.
func (s *Service) GrowthReports(ctx context.Context, sess *Session, plantID string, limit int) ([]*model.GrowthReport, error) {
	plant, err := s.GetPlant(ctx, sess, plantID)
	if err != nil {
		return nil, err
	}
	reports, err := s.database.ListGrowthReports(ctx, plant.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing growth reports: %w", err)
	}
	return reports, nil
}
