package testutil

import (
	"context"
	"testing"
	"time"

	"sawiku/internal/database"
	"sawiku/internal/model"
)

// NewTestDatabase creates a new in-memory SQLite database with migrations applied.
// The database is automatically closed when the test completes.
func NewTestDatabase(t *testing.T) *database.SQLiteDatabase {
	t.Helper()

	db, err := database.NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

// CreateTestUser inserts a user directly, skipping password hashing.
func CreateTestUser(t *testing.T, db *database.SQLiteDatabase, id string) *model.User {
	t.Helper()

	u := &model.User{
		ID:           id,
		Email:        id + "@example.com",
		DisplayName:  "User " + id,
		PasswordHash: "-",
		CreatedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := db.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return u
}
