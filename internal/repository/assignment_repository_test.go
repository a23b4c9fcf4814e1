package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unisched/course-scheduler-api/internal/models"
)

func TestAssignmentRepositoryListBySection(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "course_id", "instructor_id", "room_id", "time_slot_id", "section_id", "created_at"}).
		AddRow("a1", "c1", "i1", "r1", "t1", "s1", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_id, instructor_id, room_id, time_slot_id, section_id, created_at FROM assignments WHERE 1=1 AND section_id = $1 ORDER BY created_at ASC, id ASC LIMIT 20 OFFSET 0")).
		WithArgs("s1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM assignments WHERE 1=1 AND section_id = $1")).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.AssignmentFilter{SectionID: "s1"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryBulkCreateWithTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO assignments").
		WithArgs(sqlmock.AnyArg(), "c1", "i1", "r1", "t1", "s1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO assignments").
		WithArgs(sqlmock.AnyArg(), "c2", "i1", "r1", "t2", "s1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	assignments := []models.Assignment{
		{CourseID: "c1", InstructorID: "i1", RoomID: "r1", TimeSlotID: "t1", SectionID: "s1"},
		{CourseID: "c2", InstructorID: "i1", RoomID: "r1", TimeSlotID: "t2", SectionID: "s1"},
	}
	require.NoError(t, repo.BulkCreateWithTx(context.Background(), tx, assignments))
	require.NoError(t, tx.Commit())

	assert.NotEmpty(t, assignments[0].ID)
	assert.NotEmpty(t, assignments[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryBulkCreateRequiresTx(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	err := repo.BulkCreateWithTx(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestAssignmentRepositoryDeleteAllWithTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assignments")).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, repo.DeleteAllWithTx(context.Background(), tx))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryDeleteBySectionWithTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assignments WHERE section_id = $1")).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, repo.DeleteBySectionWithTx(context.Background(), tx, "s1"))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
