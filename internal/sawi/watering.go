package sawi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sawiku/internal/cadence"
	"sawiku/internal/model"
)

// WaterPlant records a watering of the plant at the current time and returns
// the new log with its streak. The streak is computed from the latest existing
// log and committed with a conditional write on the plant; a lost race is
// retried from a fresh read.
func (s *Service) WaterPlant(ctx context.Context, sess *Session, plantID, notes string) (*model.WateringLog, error) {
	plant, err := s.GetPlant(ctx, sess, plantID)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		prev, err := s.database.LatestWateringLog(ctx, plant.ID)
		if err != nil {
			return nil, fmt.Errorf("loading latest watering: %w", err)
		}

		now := s.clock.Now()
		var last *cadence.Watering
		prevID := ""
		if prev != nil {
			last = &cadence.Watering{At: prev.WateredAt, Streak: prev.Streak}
			prevID = prev.ID
		}

		res := s.calendar.NextStreak(last, now)
		if res.Skewed {
			s.logger.Warn("watering timestamp precedes previous log, streak reset",
				"plant", plant.ID, "previous", prev.WateredAt, "now", now)
		}

		log := &model.WateringLog{
			ID:        s.idgen.New(),
			PlantID:   plant.ID,
			WateredAt: now,
			Notes:     strings.TrimSpace(notes),
			Streak:    res.Streak,
		}
		err = s.database.RecordWatering(ctx, sess.UserID, log, prevID)
		if errors.Is(err, ErrConcurrentUpdate) {
			s.logger.Debug("watering write conflicted, retrying", "plant", plant.ID, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("recording watering: %w", err)
		}

		s.logger.Info("plant watered", "plant", plant.ID, "streak", log.Streak, "day_diff", res.DayDiff)
		return log, nil
	}

	s.logger.Warn("watering gave up after concurrent updates", "plant", plant.ID)
	return nil, ErrConcurrentUpdate
}

// LastWatered returns the time of the plant's latest watering, or nil if it
// was never watered.
func (s *Service) LastWatered(ctx context.Context, sess *Session, plantID string) (*time.Time, error) {
	plant, err := s.GetPlant(ctx, sess, plantID)
	if err != nil {
		return nil, err
	}
	latest, err := s.database.LatestWateringLog(ctx, plant.ID)
	if err != nil {
		return nil, fmt.Errorf("loading latest watering: %w", err)
	}
	if latest == nil {
		return nil, nil
	}
	at := latest.WateredAt
	return &at, nil
}

// WateringLogs returns up to limit watering logs of the plant, newest first.
func (s *Service) WateringLogs(ctx context.Context, sess *Session, plantID string, limit int) ([]*model.WateringLog, error) {
	plant, err := s.GetPlant(ctx, sess, plantID)
	if err != nil {
		return nil, err
	}
	logs, err := s.database.ListWateringLogs(ctx, plant.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing watering logs: %w", err)
	}
	return logs, nil
}
