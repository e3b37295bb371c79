package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"sawiku/internal/database/migrations"
	"sawiku/internal/model"
	"sawiku/internal/sawi"
)

// SQLiteDatabase implements the Database interface using SQLite.
// Timestamps are stored in UTC.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

// NewSQLiteDatabase creates a new SQLite database connection.
// path can be a file path or ":memory:" for in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteDatabase{db: db, path: path}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{db: db}
}

// OpenConnection opens and configures a SQLite database connection.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes writers and keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)

	// SQLite default is OFF for backward compatibility
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// User operations

func (s *SQLiteDatabase) CreateUser(ctx context.Context, user *model.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, display_name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.DisplayName, user.PasswordHash, user.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return sawi.ErrEmailTaken
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findUser(ctx, "email", email)
}

func (s *SQLiteDatabase) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	return s.findUser(ctx, "id", id)
}

func (s *SQLiteDatabase) findUser(ctx context.Context, column, value string) (*model.User, error) {
	var u model.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, password_hash, created_at FROM users WHERE `+column+` = ?`, value).
		Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding user by %s: %w", column, err)
	}
	return &u, nil
}

// Plant operations

const plantColumns = `id, user_id, name, species, planted_at, photo_ref, notes, created_at,
	last_watering_at, last_watering_log_id, last_report_at, last_report_id,
	last_report_photo_ref, condition_grade, condition_notes, recommendations`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlant(row rowScanner) (*model.Plant, error) {
	var (
		p              model.Plant
		lastWatering   sql.NullTime
		lastReport     sql.NullTime
		lastWateringID sql.NullString
		lastReportID   sql.NullString
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Species, &p.PlantedAt, &p.PhotoRef, &p.Notes, &p.CreatedAt,
		&lastWatering, &lastWateringID, &lastReport, &lastReportID,
		&p.LastReportPhotoRef, &p.ConditionGrade, &p.ConditionNotes, &p.Recommendations)
	if err != nil {
		return nil, err
	}
	p.LastWateringAt = nullTime(lastWatering)
	p.LastWateringLogID = lastWateringID.String
	p.LastReportAt = nullTime(lastReport)
	p.LastReportID = lastReportID.String
	return &p, nil
}

func (s *SQLiteDatabase) CreatePlant(ctx context.Context, plant *model.Plant) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO plants (id, user_id, name, species, planted_at, photo_ref, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		plant.ID, plant.UserID, plant.Name, plant.Species, plant.PlantedAt.UTC(), plant.PhotoRef, plant.Notes, plant.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("creating plant: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) FindPlant(ctx context.Context, userID, plantID string) (*model.Plant, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+plantColumns+` FROM plants WHERE id = ? AND user_id = ?`, plantID, userID)
	p, err := scanPlant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding plant: %w", err)
	}
	return p, nil
}

func (s *SQLiteDatabase) ListPlants(ctx context.Context, userID string) ([]*model.Plant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+plantColumns+` FROM plants WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing plants: %w", err)
	}
	defer rows.Close()

	var plants []*model.Plant
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning plant: %w", err)
		}
		plants = append(plants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing plants: %w", err)
	}
	return plants, nil
}

func (s *SQLiteDatabase) UpdatePlantPhoto(ctx context.Context, userID, plantID, photoRef string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE plants SET photo_ref = ? WHERE id = ? AND user_id = ?`, photoRef, plantID, userID)
	if err != nil {
		return fmt.Errorf("updating plant photo: %w", err)
	}
	return requireRow(res, sawi.ErrPlantNotFound)
}

func (s *SQLiteDatabase) DeletePlant(ctx context.Context, userID, plantID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM plants WHERE id = ? AND user_id = ?`, plantID, userID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sawi.ErrPlantNotFound
		}
		return fmt.Errorf("finding plant: %w", err)
	}

	for _, q := range []string{
		`DELETE FROM watering_logs WHERE plant_id = ?`,
		`DELETE FROM growth_reports WHERE plant_id = ?`,
		`DELETE FROM plants WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, plantID); err != nil {
			return fmt.Errorf("deleting plant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Watering log operations

const wateringColumns = `l.id, l.plant_id, l.watered_at, l.notes, l.streak`

func scanWatering(row rowScanner) (*model.WateringLog, error) {
	var l model.WateringLog
	if err := row.Scan(&l.ID, &l.PlantID, &l.WateredAt, &l.Notes, &l.Streak); err != nil {
		return nil, err
	}
	return &l, nil
}

// LatestWateringLog returns the log the plant's last watering pointer refers
// to, which is the most recently recorded one.
func (s *SQLiteDatabase) LatestWateringLog(ctx context.Context, plantID string) (*model.WateringLog, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+wateringColumns+` FROM watering_logs l
		JOIN plants p ON p.last_watering_log_id = l.id
		WHERE p.id = ?`, plantID)
	l, err := scanWatering(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Never watered
		}
		return nil, fmt.Errorf("finding latest watering log: %w", err)
	}
	return l, nil
}

func (s *SQLiteDatabase) ListWateringLogs(ctx context.Context, plantID string, limit int) ([]*model.WateringLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+wateringColumns+` FROM watering_logs l
		WHERE l.plant_id = ? ORDER BY l.watered_at DESC, l.seq DESC LIMIT ?`, plantID, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing watering logs: %w", err)
	}
	defer rows.Close()

	var logs []*model.WateringLog
	for rows.Next() {
		l, err := scanWatering(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning watering log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing watering logs: %w", err)
	}
	return logs, nil
}

func (s *SQLiteDatabase) RecordWatering(ctx context.Context, userID string, log *model.WateringLog, prevLogID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE plants SET last_watering_at = ?, last_watering_log_id = ?
		WHERE id = ? AND user_id = ? AND last_watering_log_id IS ?`,
		log.WateredAt.UTC(), log.ID, log.PlantID, userID, nullString(prevLogID))
	if err != nil {
		return fmt.Errorf("advancing last watering: %w", err)
	}
	if err := casResult(ctx, tx, res, userID, log.PlantID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO watering_logs (id, plant_id, watered_at, notes, streak) VALUES (?, ?, ?, ?, ?)`,
		log.ID, log.PlantID, log.WateredAt.UTC(), log.Notes, log.Streak)
	if err != nil {
		return fmt.Errorf("inserting watering log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Growth report operations

const reportColumns = `id, plant_id, reported_at, photo_ref, week,
	plant_height, leaf_count, leaf_condition, temperature, sunlight, water_frequency, plant_symptoms, fresh_weight,
	analysis_text, grade, notes, recommendations, tokens_used`

func (s *SQLiteDatabase) ListGrowthReports(ctx context.Context, plantID string, limit int) ([]*model.GrowthReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reportColumns+` FROM growth_reports
		WHERE plant_id = ? ORDER BY reported_at DESC, seq DESC LIMIT ?`, plantID, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing growth reports: %w", err)
	}
	defer rows.Close()

	var reports []*model.GrowthReport
	for rows.Next() {
		var r model.GrowthReport
		err := rows.Scan(&r.ID, &r.PlantID, &r.ReportedAt, &r.PhotoRef, &r.Week,
			&r.PlantHeight, &r.LeafCount, &r.LeafCondition, &r.Temperature, &r.Sunlight,
			&r.WaterFrequency, &r.PlantSymptoms, &r.FreshWeight,
			&r.AnalysisText, &r.Grade, &r.Notes, &r.Recommendations, &r.TokensUsed)
		if err != nil {
			return nil, fmt.Errorf("scanning growth report: %w", err)
		}
		reports = append(reports, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing growth reports: %w", err)
	}
	return reports, nil
}

func (s *SQLiteDatabase) RecordGrowthReport(ctx context.Context, userID string, r *model.GrowthReport, prevReportID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE plants SET last_report_at = ?, last_report_id = ?, last_report_photo_ref = ?,
			condition_grade = ?, condition_notes = ?, recommendations = ?
		WHERE id = ? AND user_id = ? AND last_report_id IS ?`,
		r.ReportedAt.UTC(), r.ID, r.PhotoRef, r.Grade, r.Notes, r.Recommendations,
		r.PlantID, userID, nullString(prevReportID))
	if err != nil {
		return fmt.Errorf("updating plant condition: %w", err)
	}
	if err := casResult(ctx, tx, res, userID, r.PlantID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO growth_reports (`+reportColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.PlantID, r.ReportedAt.UTC(), r.PhotoRef, r.Week,
		r.PlantHeight, r.LeafCount, r.LeafCondition, r.Temperature, r.Sunlight,
		r.WaterFrequency, r.PlantSymptoms, r.FreshWeight,
		r.AnalysisText, r.Grade, r.Notes, r.Recommendations, r.TokensUsed)
	if err != nil {
		return fmt.Errorf("inserting growth report: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// casResult turns an UPDATE that matched no row into ErrPlantNotFound when the
// plant is gone, or ErrConcurrentUpdate when its pointer moved.
func casResult(ctx context.Context, tx *sql.Tx, res sql.Result, userID, plantID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 1 {
		return nil
	}

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM plants WHERE id = ? AND user_id = ?`, plantID, userID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return sawi.ErrPlantNotFound
	}
	if err != nil {
		return fmt.Errorf("finding plant: %w", err)
	}
	return sawi.ErrConcurrentUpdate
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// Migrate applies pending schema migrations.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// MigrationStatus reports the schema version against the embedded migrations.
func (s *SQLiteDatabase) MigrationStatus() (migrations.Status, error) {
	return migrations.ReadStatus(s.db)
}

// Schema returns the CREATE statements of the current schema.
func (s *SQLiteDatabase) Schema() (string, error) {
	return migrations.DumpSchema(s.db)
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteDatabase) BackupTo(ctx context.Context, destPath string) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// sqlLimit maps a non-positive limit to SQLite's "no limit".
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

// Compile-time check that SQLiteDatabase implements sawi.Database interface
var _ sawi.Database = (*SQLiteDatabase)(nil)
