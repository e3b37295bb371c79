package sawi

import (
	"context"

	"sawiku/internal/model"
)

// Database is the document store behind the service. Lookups return
// (nil, nil) when the record does not exist.
type Database interface {
	// User operations

	// CreateUser inserts a new user. Returns ErrEmailTaken if the email is in use.
	CreateUser(ctx context.Context, user *model.User) error

	// FindUserByEmail looks a user up by lowercased email.
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)

	// FindUserByID looks a user up by ID.
	FindUserByID(ctx context.Context, id string) (*model.User, error)

	// Plant operations

	// CreatePlant inserts a new plant.
	CreatePlant(ctx context.Context, plant *model.Plant) error

	// FindPlant returns a plant owned by userID.
	FindPlant(ctx context.Context, userID, plantID string) (*model.Plant, error)

	// ListPlants returns all plants owned by userID, oldest first.
	ListPlants(ctx context.Context, userID string) ([]*model.Plant, error)

	// UpdatePlantPhoto sets the main photo reference of a plant.
	UpdatePlantPhoto(ctx context.Context, userID, plantID, photoRef string) error

	// DeletePlant removes a plant together with its watering logs and growth
	// reports in a single transaction.
	DeletePlant(ctx context.Context, userID, plantID string) error

	// Watering log operations

	// LatestWateringLog returns the log the plant's last watering pointer
	// refers to, which is the most recently recorded one.
	LatestWateringLog(ctx context.Context, plantID string) (*model.WateringLog, error)

	// ListWateringLogs returns up to limit logs, newest first.
	ListWateringLogs(ctx context.Context, plantID string, limit int) ([]*model.WateringLog, error)

	// RecordWatering inserts the log and advances the plant's last watering
	// pointer atomically. The write only happens if the plant's current
	// pointer still equals prevLogID (empty for "never watered"); otherwise
	// ErrConcurrentUpdate is returned and nothing is written.
	RecordWatering(ctx context.Context, userID string, log *model.WateringLog, prevLogID string) error

	// Growth report operations

	// ListGrowthReports returns up to limit reports, newest first.
	ListGrowthReports(ctx context.Context, plantID string, limit int) ([]*model.GrowthReport, error)

	// RecordGrowthReport inserts the report and copies its results onto the
	// plant atomically, guarded by the plant's last report pointer the same
	// way RecordWatering is.
	RecordGrowthReport(ctx context.Context, userID string, report *model.GrowthReport, prevReportID string) error

	// Close closes the database connection.
	Close() error
}
