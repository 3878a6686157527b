package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/project"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestMigrate(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS assistants")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordAssistant(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assistants (slug, user_id, project_id, filename, file_id, assistant_id, created_at, updated_at)")).
		WithArgs(sqlmock.AnyArg(), "1", "7", "shop.zip", "file-1", "asst_1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.RecordAssistant(context.Background(), project.Provisioned{
		UserID:      "1",
		ProjectID:   "7",
		Filename:    "shop.zip",
		FileID:      "file-1",
		AssistantID: "asst_1",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordAssistantValidation(t *testing.T) {
	s, mock := newMock(t)
	err := s.RecordAssistant(context.Background(), project.Provisioned{UserID: "1"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordAssistantInsertError(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("INSERT INTO assistants").WillReturnError(errors.New("duplicate slug"))

	err := s.RecordAssistant(context.Background(), project.Provisioned{UserID: "1", ProjectID: "1", AssistantID: "asst_1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert assistant: duplicate slug")
}

func TestMarkAssistantDeleted(t *testing.T) {
	s, mock := newMock(t)
	query := regexp.QuoteMeta("UPDATE assistants SET deleted_at = ?, updated_at = ? WHERE assistant_id = ? AND deleted_at IS NULL")
	mock.ExpectExec(query).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "asst_1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(query).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "asst_unknown").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.MarkAssistantDeleted(context.Background(), "asst_1"))
	assert.ErrorIs(t, s.MarkAssistantDeleted(context.Background(), "asst_unknown"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAssistantsByProject(t *testing.T) {
	s, mock := newMock(t)
	deleted := "2024-11-02 10:00:00"
	rows := sqlmock.NewRows([]string{"id", "slug", "user_id", "project_id", "filename", "file_id", "assistant_id", "created_at", "updated_at", "deleted_at"}).
		AddRow(2, "b", "1", "1", "foo.zip", "file-2", "asst_2", "2024-11-02 09:00:00", "2024-11-02 09:00:00", nil).
		AddRow(1, "a", "1", "1", "foo.zip", "file-1", "asst_1", "2024-11-01 09:00:00", deleted, deleted)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + assistantColumns + " FROM assistants WHERE user_id = ? AND project_id = ? ORDER BY id DESC")).
		WithArgs("1", "1").
		WillReturnRows(rows)

	got, err := s.FindAssistantsByProject(context.Background(), "1", "1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "asst_2", got[0].AssistantID)
	assert.Nil(t, got[0].DeletedAt)
	require.NotNil(t, got[1].DeletedAt)
	assert.Equal(t, deleted, *got[1].DeletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAssistantsByProjectEmpty(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("SELECT").WithArgs("1", "2").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := s.FindAssistantsByProject(context.Background(), "1", "2")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
