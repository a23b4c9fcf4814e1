package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unisched/course-scheduler-api/internal/models"
	appErrors "github.com/unisched/course-scheduler-api/pkg/errors"
)

type seedSink struct {
	existing    []models.Instructor
	instructors []models.Instructor
	courses     []models.Course
	rooms       []models.Room
	departments []models.Department
	sections    []models.Section
	slots       []models.TimeSlot
}

type seedInstructorSink struct{ sink *seedSink }

func (m seedInstructorSink) ListAll(ctx context.Context) ([]models.Instructor, error) {
	return m.sink.existing, nil
}

func (m seedInstructorSink) Create(_ context.Context, instructor *models.Instructor) error {
	instructor.ID = instructor.Name
	m.sink.instructors = append(m.sink.instructors, *instructor)
	return nil
}

type seedCourseSink struct{ sink *seedSink }

func (m seedCourseSink) Create(_ context.Context, course *models.Course) error {
	course.ID = course.Code
	m.sink.courses = append(m.sink.courses, *course)
	return nil
}

type seedRoomSink struct{ sink *seedSink }

func (m seedRoomSink) Create(_ context.Context, room *models.Room) error {
	room.ID = room.Number
	m.sink.rooms = append(m.sink.rooms, *room)
	return nil
}

type seedDepartmentSink struct{ sink *seedSink }

func (m seedDepartmentSink) Create(_ context.Context, department *models.Department) error {
	department.ID = department.Name
	m.sink.departments = append(m.sink.departments, *department)
	return nil
}

type seedSectionSink struct{ sink *seedSink }

func (m seedSectionSink) Create(_ context.Context, section *models.Section) error {
	section.ID = section.Name
	m.sink.sections = append(m.sink.sections, *section)
	return nil
}

type seedTimeSlotSink struct{ sink *seedSink }

func (m seedTimeSlotSink) Create(_ context.Context, slot *models.TimeSlot) error {
	m.sink.slots = append(m.sink.slots, *slot)
	return nil
}

func newSeedFixture(existing []models.Instructor) (*SeedService, *seedSink) {
	sink := &seedSink{existing: existing}
	svc := NewSeedService(SeedRepos{
		Instructors: seedInstructorSink{sink},
		Courses:     seedCourseSink{sink},
		Rooms:       seedRoomSink{sink},
		Departments: seedDepartmentSink{sink},
		Sections:    seedSectionSink{sink},
		TimeSlots:   seedTimeSlotSink{sink},
	}, zap.NewNop())
	return svc, sink
}

func TestSeedServiceRunInstallsFullDataset(t *testing.T) {
	svc, sink := newSeedFixture(nil)

	resp, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 20, resp.Instructors)
	assert.Equal(t, 70, resp.Courses)
	assert.Equal(t, 20, resp.Rooms)
	assert.Equal(t, 10, resp.Departments)
	assert.Equal(t, 56, resp.Sections)
	assert.Equal(t, 25, resp.TimeSlots)

	require.Len(t, sink.instructors, 20)
	assert.Equal(t, "Dr. Emma Watson", sink.instructors[0].Name)
	assert.Equal(t, "Professor", sink.instructors[0].Designation)
	assert.Equal(t, 10, sink.instructors[0].MaxHours)
	assert.Equal(t, "Lecturer", sink.instructors[3].Designation)
	assert.Equal(t, 16, sink.instructors[3].MaxHours)

	require.Len(t, sink.courses, 70)
	assert.True(t, strings.HasPrefix(sink.courses[0].Code, "CS"))
	assert.True(t, strings.HasPrefix(sink.courses[69].Code, "BUS"))
	for _, course := range sink.courses {
		assert.NotEmpty(t, course.InstructorID)
	}

	require.Len(t, sink.rooms, 20)
	assert.Equal(t, "A01", sink.rooms[0].Number)
	assert.Equal(t, "D05", sink.rooms[19].Number)

	require.Len(t, sink.departments, 10)
	assert.Equal(t, "Computer Science", sink.departments[0].Name)
	assert.Len(t, sink.departments[0].CourseIDs, 10)
	assert.Len(t, sink.departments[6].CourseIDs, 10)
	assert.Empty(t, sink.departments[7].CourseIDs, "Medicine carries no seeded courses")

	require.Len(t, sink.sections, 56)
	assert.Contains(t, sink.sections[0].Name, "Computer Science")
	assert.Equal(t, sink.departments[0].ID, sink.sections[0].DepartmentID)

	require.Len(t, sink.slots, 25)
	assert.Equal(t, "Monday", sink.slots[0].Day)
	assert.Equal(t, "8:45", sink.slots[0].StartTime)
	assert.Equal(t, "Friday", sink.slots[24].Day)
	assert.Equal(t, "3:15", sink.slots[24].EndTime)
}

func TestSeedServiceRunRefusesNonEmptyDatabase(t *testing.T) {
	svc, sink := newSeedFixture([]models.Instructor{{ID: "i1", Name: "Dr. Watson"}})

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Empty(t, sink.instructors)
}
