package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unisched/course-scheduler-api/internal/dto"
	"github.com/unisched/course-scheduler-api/internal/models"
	appErrors "github.com/unisched/course-scheduler-api/pkg/errors"
)

type mockSectionRepo struct {
	sections []models.Section
}

func (m *mockSectionRepo) ListAll(ctx context.Context) ([]models.Section, error) {
	return m.sections, nil
}

func (m *mockSectionRepo) FindByID(ctx context.Context, id string) (*models.Section, error) {
	for _, s := range m.sections {
		if s.ID == id {
			section := s
			return &section, nil
		}
	}
	return nil, sql.ErrNoRows
}

type mockDepartmentRepo struct {
	departments []models.Department
}

func (m *mockDepartmentRepo) ListAll(ctx context.Context) ([]models.Department, error) {
	return m.departments, nil
}

type mockInstructorRepo struct {
	instructors []models.Instructor
	resets      int
	setHours    map[string]int
	increments  map[string]int
}

func (m *mockInstructorRepo) ListAll(ctx context.Context) ([]models.Instructor, error) {
	return m.instructors, nil
}

func (m *mockInstructorRepo) ResetAllHours(ctx context.Context, exec sqlx.ExtContext) error {
	m.resets++
	return nil
}

func (m *mockInstructorRepo) SetHours(ctx context.Context, exec sqlx.ExtContext, id string, hours int) error {
	if m.setHours == nil {
		m.setHours = make(map[string]int)
	}
	m.setHours[id] = hours
	return nil
}

func (m *mockInstructorRepo) IncrementHours(ctx context.Context, exec sqlx.ExtContext, id string, delta int) error {
	if m.increments == nil {
		m.increments = make(map[string]int)
	}
	m.increments[id] += delta
	return nil
}

type mockCourseRepo struct {
	courses []models.Course
}

func (m *mockCourseRepo) ListAll(ctx context.Context) ([]models.Course, error) {
	return m.courses, nil
}

type mockRoomRepo struct {
	rooms []models.Room
}

func (m *mockRoomRepo) ListAll(ctx context.Context) ([]models.Room, error) {
	return m.rooms, nil
}

type mockTimeSlotRepo struct {
	slots []models.TimeSlot
}

func (m *mockTimeSlotRepo) ListAll(ctx context.Context) ([]models.TimeSlot, error) {
	return m.slots, nil
}

type mockAssignmentRepo struct {
	assignments []models.Assignment
	created     []models.Assignment
	wipes       int
}

func (m *mockAssignmentRepo) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error) {
	return m.assignments, len(m.assignments), nil
}

func (m *mockAssignmentRepo) ListAll(ctx context.Context) ([]models.Assignment, error) {
	return m.assignments, nil
}

func (m *mockAssignmentRepo) CreateWithTx(ctx context.Context, tx *sqlx.Tx, assignment *models.Assignment) error {
	m.created = append(m.created, *assignment)
	m.assignments = append(m.assignments, *assignment)
	return nil
}

func (m *mockAssignmentRepo) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, assignments []models.Assignment) error {
	m.created = append(m.created, assignments...)
	m.assignments = append(m.assignments, assignments...)
	return nil
}

func (m *mockAssignmentRepo) DeleteAllWithTx(ctx context.Context, tx *sqlx.Tx) error {
	m.wipes++
	m.assignments = nil
	return nil
}

type mockGridCache struct {
	gets        int
	sets        int
	invalidated int
}

func (m *mockGridCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.gets++
	return appErrors.ErrCacheMiss
}

func (m *mockGridCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.sets++
	return nil
}

func (m *mockGridCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.invalidated++
	return nil
}

type schedulerFixture struct {
	service     *SchedulerService
	mock        sqlmock.Sqlmock
	sections    *mockSectionRepo
	instructors *mockInstructorRepo
	assignments *mockAssignmentRepo
	cache       *mockGridCache
	cleanup     func()
}

func weekdaySlots(t *testing.T, day string) []models.TimeSlot {
	t.Helper()
	slots := make([]models.TimeSlot, len(models.DefaultPeriods))
	for i, p := range models.DefaultPeriods {
		slots[i] = models.TimeSlot{ID: day + "-" + p.Start, Day: day, StartTime: p.Start, EndTime: p.End}
	}
	return slots
}

func newSchedulerFixture(t *testing.T) *schedulerFixture {
	t.Helper()
	rawDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	db := sqlx.NewDb(rawDB, "sqlmock")

	sections := &mockSectionRepo{sections: []models.Section{{ID: "s1", Name: "CS-A", DepartmentID: "d1"}}}
	instructors := &mockInstructorRepo{instructors: []models.Instructor{
		{ID: "i1", Name: "Dr. Watson", Designation: "Professor", MaxHours: 10},
	}}
	assignments := &mockAssignmentRepo{}
	cache := &mockGridCache{}

	repos := SchedulerRepos{
		Sections:    sections,
		Departments: &mockDepartmentRepo{departments: []models.Department{{ID: "d1", Name: "Computer Science", CourseIDs: []string{"c1"}}}},
		Instructors: instructors,
		Courses:     &mockCourseRepo{courses: []models.Course{{ID: "c1", Code: "CS101", Name: "Programming", MaxStudents: 30, InstructorID: "i1"}}},
		Rooms:       &mockRoomRepo{rooms: []models.Room{{ID: "r1", Number: "A01", Capacity: 40}}},
		TimeSlots:   &mockTimeSlotRepo{slots: weekdaySlots(t, "Monday")},
		Assignments: assignments,
	}

	svc := NewSchedulerService(db, repos, cache, nil, zap.NewNop(), time.Minute)
	return &schedulerFixture{
		service:     svc,
		mock:        mock,
		sections:    sections,
		instructors: instructors,
		assignments: assignments,
		cache:       cache,
		cleanup:     func() { rawDB.Close() },
	}
}

func TestSchedulerServiceGenerate(t *testing.T) {
	f := newSchedulerFixture(t)
	defer f.cleanup()

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.service.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.AssignmentCount)
	assert.Equal(t, 1, resp.SectionCount)
	assert.Equal(t, 1, resp.InstructorHours["i1"])
	assert.Equal(t, 1, f.assignments.wipes)
	assert.Equal(t, 1, f.instructors.resets)
	assert.Equal(t, 1, f.instructors.setHours["i1"])
	assert.Equal(t, 1, f.cache.invalidated)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSchedulerServiceGeneratePreconditionFailure(t *testing.T) {
	f := newSchedulerFixture(t)
	defer f.cleanup()
	f.sections.sections = nil

	_, err := f.service.Generate(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
	// nothing was written
	assert.Zero(t, f.assignments.wipes)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSchedulerServiceAddAssignment(t *testing.T) {
	f := newSchedulerFixture(t)
	defer f.cleanup()

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	req := dto.ManualAssignmentRequest{
		CourseID:     "c1",
		InstructorID: "i1",
		RoomID:       "r1",
		TimeSlotID:   "Monday-8:45",
		SectionID:    "s1",
	}
	created, err := f.service.AddAssignment(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1, f.instructors.increments["i1"])
	assert.Equal(t, 1, f.cache.invalidated)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSchedulerServiceAddAssignmentConflict(t *testing.T) {
	f := newSchedulerFixture(t)
	defer f.cleanup()
	f.assignments.assignments = []models.Assignment{
		{ID: "a1", CourseID: "c1", InstructorID: "i1", RoomID: "r1", TimeSlotID: "Monday-8:45", SectionID: "s1"},
	}

	req := dto.ManualAssignmentRequest{
		CourseID:     "c1",
		InstructorID: "i1",
		RoomID:       "r1",
		TimeSlotID:   "Monday-8:45",
		SectionID:    "s1",
	}
	_, err := f.service.AddAssignment(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Dr. Watson")
	assert.Zero(t, f.instructors.increments["i1"])
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSchedulerServiceAddAssignmentMissingField(t *testing.T) {
	f := newSchedulerFixture(t)
	defer f.cleanup()

	_, err := f.service.AddAssignment(context.Background(), dto.ManualAssignmentRequest{CourseID: "c1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSchedulerServiceGrid(t *testing.T) {
	f := newSchedulerFixture(t)
	defer f.cleanup()
	f.assignments.assignments = []models.Assignment{
		{ID: "a1", CourseID: "c1", InstructorID: "i1", RoomID: "r1", TimeSlotID: "Monday-8:45", SectionID: "s1"},
	}

	resp, err := f.service.Grid(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", resp.SectionID)
	require.Len(t, resp.Grid, len(models.Days))
	require.Len(t, resp.Grid[0], len(models.DefaultPeriods))
	assert.False(t, resp.Grid[0][0].IsEmpty)
	assert.True(t, resp.Grid[0][1].IsEmpty)
	assert.Equal(t, 1, f.cache.sets)
}

func TestSchedulerServiceGridUnknownSection(t *testing.T) {
	f := newSchedulerFixture(t)
	defer f.cleanup()

	_, err := f.service.Grid(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSchedulerServiceClear(t *testing.T) {
	f := newSchedulerFixture(t)
	defer f.cleanup()
	f.assignments.assignments = []models.Assignment{
		{ID: "a1", SectionID: "s1", TimeSlotID: "Monday-8:45", InstructorID: "i1", RoomID: "r1", CourseID: "c1"},
		{ID: "a2", SectionID: "s1", TimeSlotID: "Monday-10:00", InstructorID: "i1", RoomID: "r1", CourseID: "c1"},
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.service.Clear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.RemovedCount)
	assert.Equal(t, 1, f.assignments.wipes)
	assert.Equal(t, 1, f.instructors.resets)
	assert.Equal(t, 1, f.cache.invalidated)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
