// Package store keeps an audit trail of provisioned project assistants in MySQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uniplaces/carbon"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/helpers"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/project"
)

// Schema creates the assistants table if it does not exist.
const Schema = "CREATE TABLE IF NOT EXISTS assistants (" +
	"id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY, " +
	"slug VARCHAR(32) NOT NULL UNIQUE, " +
	"user_id VARCHAR(191) NOT NULL, " +
	"project_id VARCHAR(191) NOT NULL, " +
	"filename VARCHAR(255) NOT NULL, " +
	"file_id VARCHAR(191) NOT NULL, " +
	"assistant_id VARCHAR(191) NOT NULL, " +
	"created_at DATETIME NOT NULL, " +
	"updated_at DATETIME NOT NULL, " +
	"deleted_at DATETIME NULL, " +
	"INDEX assistants_project (user_id, project_id), " +
	"INDEX assistants_assistant (assistant_id))"

const assistantColumns = "id, slug, user_id, project_id, filename, file_id, assistant_id, created_at, updated_at, deleted_at"

// ErrNotFound is returned when no live row matches an assistant id.
var ErrNotFound = errors.New("assistant not found")

// Store is the MySQL-backed assistant ledger.
type Store struct {
	db *sql.DB
}

// Assistant is one recorded provisioning.
type Assistant struct {
	ID          int64   `json:"id"`
	Slug        string  `json:"slug"`
	UserID      string  `json:"user_id"`
	ProjectID   string  `json:"project_id"`
	Filename    string  `json:"filename"`
	FileID      string  `json:"file_id"`
	AssistantID string  `json:"assistant_id"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	DeletedAt   *string `json:"deleted_at,omitempty"`
}

// New creates a new Store instance
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to the MySQL database at dsn and checks the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return New(db), nil
}

// GetDB returns the underlying sql.DB instance
func (store *Store) GetDB() *sql.DB {
	return store.db
}

func (store *Store) Close() error {
	return store.db.Close()
}

// Migrate creates the ledger table.
func (store *Store) Migrate(ctx context.Context) error {
	if _, err := store.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate assistants: %w", err)
	}
	return nil
}

// RecordAssistant stores a provisioning result. Earlier rows for the same project are kept.
func (store *Store) RecordAssistant(ctx context.Context, p project.Provisioned) error {
	if p.UserID == "" || p.ProjectID == "" || p.AssistantID == "" {
		return errors.New("missing required fields")
	}

	slug, err := helpers.GenerateRandomString(14)
	if err != nil {
		return err
	}
	now := carbon.Now().DateTimeString()

	_, err = store.db.ExecContext(ctx,
		"INSERT INTO assistants (slug, user_id, project_id, filename, file_id, assistant_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		slug, p.UserID, p.ProjectID, p.Filename, p.FileID, p.AssistantID, now, now)
	if err != nil {
		return fmt.Errorf("insert assistant: %w", err)
	}
	return nil
}

// MarkAssistantDeleted stamps deleted_at on the live rows for assistantID.
func (store *Store) MarkAssistantDeleted(ctx context.Context, assistantID string) error {
	now := carbon.Now().DateTimeString()
	res, err := store.db.ExecContext(ctx,
		"UPDATE assistants SET deleted_at = ?, updated_at = ? WHERE assistant_id = ? AND deleted_at IS NULL",
		now, now, assistantID)
	if err != nil {
		return fmt.Errorf("mark assistant deleted: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark assistant deleted: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// FindAssistantsByProject lists every recorded assistant for the project, newest first.
func (store *Store) FindAssistantsByProject(ctx context.Context, userID, projectID string) ([]Assistant, error) {
	rows, err := store.db.QueryContext(ctx,
		"SELECT "+assistantColumns+" FROM assistants WHERE user_id = ? AND project_id = ? ORDER BY id DESC",
		userID, projectID)
	if err != nil {
		return nil, fmt.Errorf("find assistants: %w", err)
	}
	defer rows.Close()

	assistants := []Assistant{}
	for rows.Next() {
		var a Assistant
		err = rows.Scan(
			&a.ID,
			&a.Slug,
			&a.UserID,
			&a.ProjectID,
			&a.Filename,
			&a.FileID,
			&a.AssistantID,
			&a.CreatedAt,
			&a.UpdatedAt,
			&a.DeletedAt)
		if err != nil {
			return nil, fmt.Errorf("scan assistant: %w", err)
		}
		assistants = append(assistants, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find assistants: %w", err)
	}
	return assistants, nil
}
