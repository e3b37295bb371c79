package sawi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sawiku/internal/cadence"
	"sawiku/internal/model"
)

// maxWriteAttempts bounds the read-compute-write retries of conditional writes.
const maxWriteAttempts = 3

// Service is the orchestration layer that coordinates the document store,
// the blob store and the analyzer to perform the operations needed by the
// HTTP API and the CLI.
type Service struct {
	database Database
	blobs    BlobStore
	analyzer Analyzer
	logger   Logger
	clock    Clock
	idgen    IDGenerator
	calendar cadence.Calendar
}

// NewService creates a new Service with the provided dependencies.
// loc sets the local day boundaries for streaks and the daily report limit;
// nil means time.Local.
func NewService(database Database, blobs BlobStore, analyzer Analyzer, logger Logger, clock Clock, idgen IDGenerator, loc *time.Location) *Service {
	return &Service{
		database: database,
		blobs:    blobs,
		analyzer: analyzer,
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
		calendar: cadence.NewCalendar(loc),
	}
}

// Calendar returns the calendar used for day boundaries.
func (s *Service) Calendar() cadence.Calendar {
	return s.calendar
}

// Now returns the current time of the service clock.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// plantPrefix is the blob prefix holding every file of a plant.
func plantPrefix(userID, plantID string) string {
	return "plants/" + userID + "/" + plantID + "/"
}

// OwnsBlob reports whether key belongs to the session's user.
func OwnsBlob(sess *Session, key string) bool {
	if sess.check() != nil || strings.Contains(key, "..") {
		return false
	}
	return strings.HasPrefix(key, "plants/"+sess.UserID+"/")
}

// AddPlant creates a plant and stores its optional photo as default.<ext>.
// The plant document is created first; a failed photo upload leaves it
// without a photo and returns the error.
func (s *Service) AddPlant(ctx context.Context, sess *Session, in NewPlantInput) (*model.Plant, error) {
	if err := sess.check(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	plant := &model.Plant{
		ID:        s.idgen.New(),
		UserID:    sess.UserID,
		Name:      strings.TrimSpace(in.Name),
		Species:   strings.TrimSpace(in.Species),
		PlantedAt: in.PlantedAt,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: s.clock.Now(),
	}
	if err := s.database.CreatePlant(ctx, plant); err != nil {
		return nil, fmt.Errorf("creating plant: %w", err)
	}

	if in.Photo != nil && len(in.Photo.Data) > 0 {
		key := plantPrefix(sess.UserID, plant.ID) + "default." + in.Photo.Ext()
		if err := s.blobs.Put(ctx, key, bytes.NewReader(in.Photo.Data), int64(len(in.Photo.Data)), in.Photo.ContentType); err != nil {
			return nil, fmt.Errorf("uploading plant photo: %w", err)
		}
		if err := s.database.UpdatePlantPhoto(ctx, sess.UserID, plant.ID, key); err != nil {
			return nil, fmt.Errorf("saving plant photo: %w", err)
		}
		plant.PhotoRef = key
	}

	s.logger.Info("plant added", "user", sess.UserID, "plant", plant.ID, "name", plant.Name)
	return plant, nil
}

// GetPlant returns one of the session user's plants.
func (s *Service) GetPlant(ctx context.Context, sess *Session, plantID string) (*model.Plant, error) {
	if err := sess.check(); err != nil {
		return nil, err
	}
	return s.plant(ctx, sess.UserID, plantID)
}

func (s *Service) plant(ctx context.Context, userID, plantID string) (*model.Plant, error) {
	plant, err := s.database.FindPlant(ctx, userID, plantID)
	if err != nil {
		return nil, fmt.Errorf("loading plant: %w", err)
	}
	if plant == nil {
		return nil, ErrPlantNotFound
	}
	return plant, nil
}

// ListPlants returns the session user's plants.
func (s *Service) ListPlants(ctx context.Context, sess *Session) ([]*model.Plant, error) {
	if err := sess.check(); err != nil {
		return nil, err
	}
	plants, err := s.database.ListPlants(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("listing plants: %w", err)
	}
	return plants, nil
}

// DeletePlant removes every stored file of the plant, then the plant with its
// watering logs and growth reports.
func (s *Service) DeletePlant(ctx context.Context, sess *Session, plantID string) error {
	plant, err := s.GetPlant(ctx, sess, plantID)
	if err != nil {
		return err
	}

	keys, err := s.blobs.List(ctx, plantPrefix(plant.UserID, plant.ID))
	if err != nil {
		return fmt.Errorf("listing plant files: %w", err)
	}
	for _, key := range keys {
		if err := s.blobs.Delete(ctx, key); err != nil && !errors.Is(err, ErrBlobNotFound) {
			return fmt.Errorf("deleting plant file %s: %w", key, err)
		}
	}

	if err := s.database.DeletePlant(ctx, plant.UserID, plant.ID); err != nil {
		return fmt.Errorf("deleting plant: %w", err)
	}

	s.logger.Info("plant deleted", "user", plant.UserID, "plant", plant.ID, "files", len(keys))
	return nil
}

// PlantOverview is everything the plant detail view shows.
type PlantOverview struct {
	Plant            *model.Plant
	Week             int
	ReportAllowed    bool
	WateredToday     bool
	CurrentStreak    int
	LastWateredLabel string // empty when never watered
	LastReportLabel  string // empty when never reported
	ConditionLabel   string
	WateringLogs     []*model.WateringLog
	GrowthReports    []*model.GrowthReport
}

// PlantOverview assembles the detail view of a plant. limit bounds the number
// of watering logs and growth reports returned.
func (s *Service) PlantOverview(ctx context.Context, sess *Session, plantID string, limit int) (*PlantOverview, error) {
	plant, err := s.GetPlant(ctx, sess, plantID)
	if err != nil {
		return nil, err
	}

	logs, err := s.database.ListWateringLogs(ctx, plant.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing watering logs: %w", err)
	}
	reports, err := s.database.ListGrowthReports(ctx, plant.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing growth reports: %w", err)
	}
	// The plant's pointer, not the newest timestamp, names the latest watering.
	latest, err := s.database.LatestWateringLog(ctx, plant.ID)
	if err != nil {
		return nil, fmt.Errorf("loading latest watering: %w", err)
	}

	now := s.clock.Now()
	ov := &PlantOverview{
		Plant:          plant,
		Week:           cadence.GrowthWeek(plant.PlantedAt, now),
		ReportAllowed:  s.calendar.ReportAllowed(plant.LastReportAt, now),
		ConditionLabel: ConditionLabel(plant.ConditionGrade),
		WateringLogs:   logs,
		GrowthReports:  reports,
	}
	if latest != nil {
		ov.LastWateredLabel = s.calendar.Label(latest.WateredAt, now)
		ov.WateredToday = s.calendar.SameDay(latest.WateredAt, now)
		// A streak is still alive until a full calendar day passes without watering.
		if diff := s.calendar.DaysBetween(latest.WateredAt, now); diff >= 0 && diff <= 1 {
			ov.CurrentStreak = latest.Streak
		}
	}
	if plant.LastReportAt != nil {
		ov.LastReportLabel = s.calendar.Label(*plant.LastReportAt, now)
	}
	return ov, nil
}
