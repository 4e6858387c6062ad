package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	return db, mock
}

func TestTaskRepository_FindByOwner_SQL(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "description", "status", "priority", "due_date", "user_id", "created_at", "updated_at"}).
		AddRow(1, "first", "", "todo", "medium", nil, 7, now, now).
		AddRow(2, "second", "d", "done", "high", now, 7, now, now)

	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE tasks\.user_id = \$1 ORDER BY tasks\.created_at ASC,tasks\.id ASC`).
		WillReturnRows(rows)

	tasks, err := repo.FindByOwner(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "first", tasks[0].Title)
	assert.Nil(t, tasks[0].DueDate)
	assert.Equal(t, models.TaskStatusDone, tasks[1].Status)
	assert.NotNil(t, tasks[1].DueDate)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_FindByID_NotFound_SQL(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE tasks\.user_id = \$1 AND "tasks"\."id" = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), 7, 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_FindByOwner_PropagatesErrors(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	boom := errors.New("connection reset")
	mock.ExpectQuery(`SELECT \* FROM "tasks"`).WillReturnError(boom)

	_, err := repo.FindByOwner(context.Background(), 7)
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Delete_NoRows_SQL(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "tasks" WHERE tasks\.user_id = \$1 AND "tasks"\."id" = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), 7, 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Transaction_RollsBackOnQueryError(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	boom := errors.New("deadlock detected")
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).WillReturnError(boom)
	mock.ExpectRollback()

	err := store.Transaction(context.Background(), func(tx Store) error {
		_, err := tx.Users().FindByUsername(context.Background(), "alice")
		return err
	})
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}
