package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unisched/course-scheduler-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestInstructorRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInstructorRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "designation", "max_hours", "current_hours", "created_at", "updated_at"}).
		AddRow("i1", "Dr. Watson", "Professor", 10, 0, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, designation, max_hours, current_hours, created_at, updated_at FROM instructors WHERE 1=1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM instructors WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.InstructorFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstructorRepositoryListAllInsertionOrder(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInstructorRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "designation", "max_hours", "current_hours", "created_at", "updated_at"}).
		AddRow("i1", "Dr. Watson", "Professor", 10, 0, time.Now(), time.Now()).
		AddRow("i2", "Dr. Brown", "Lecturer", 16, 0, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, designation, max_hours, current_hours, created_at, updated_at FROM instructors ORDER BY created_at ASC, id ASC")).
		WillReturnRows(rows)

	list, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "i1", list[0].ID)
	assert.Equal(t, "i2", list[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstructorRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInstructorRepository(db)

	mock.ExpectExec("INSERT INTO instructors").
		WithArgs(sqlmock.AnyArg(), "Dr. Watson", "Professor", 10, 0, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	instructor := &models.Instructor{Name: "Dr. Watson", Designation: "Professor", MaxHours: 10}
	require.NoError(t, repo.Create(context.Background(), instructor))
	assert.NotEmpty(t, instructor.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstructorRepositoryHourCounters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInstructorRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE instructors SET current_hours = 0, updated_at = $1")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))
	require.NoError(t, repo.ResetAllHours(context.Background(), db))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE instructors SET current_hours = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("i1", 4, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetHours(context.Background(), db, "i1", 4))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE instructors SET current_hours = current_hours + $2, updated_at = $3 WHERE id = $1")).
		WithArgs("i1", 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.IncrementHours(context.Background(), db, "i1", 1))

	assert.NoError(t, mock.ExpectationsWereMet())
}
