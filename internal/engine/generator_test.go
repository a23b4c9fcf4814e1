package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unisched/course-scheduler-api/internal/models"
	appErrors "github.com/unisched/course-scheduler-api/pkg/errors"
)

func slotFixture(id, day, start, end string) models.TimeSlot {
	return models.TimeSlot{ID: id, Day: day, StartTime: start, EndTime: end}
}

func weekSlots() []models.TimeSlot {
	var slots []models.TimeSlot
	for _, day := range models.Days {
		for i, period := range models.DefaultPeriods {
			id := fmt.Sprintf("%s-%d", day, i)
			slots = append(slots, slotFixture(id, day, period.Start, period.End))
		}
	}
	return slots
}

func baseSnapshot() Snapshot {
	return Snapshot{
		Sections:    []models.Section{{ID: "sec-1", Name: "CS-A", DepartmentID: "dep-1"}},
		Departments: []models.Department{{ID: "dep-1", Name: "Computer Science", CourseIDs: []string{"crs-1"}}},
		Instructors: []models.Instructor{{ID: "ins-1", Name: "Dr. Watson", MaxHours: 10}},
		Courses:     []models.Course{{ID: "crs-1", Code: "CS101", Name: "Intro to Programming", MaxStudents: 25, InstructorID: "ins-1"}},
		Rooms:       []models.Room{{ID: "room-1", Number: "A01", Capacity: 30}},
		TimeSlots:   weekSlots(),
	}
}

func TestGeneratePreconditions(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Snapshot)
		message string
	}{
		{"no sections", func(s *Snapshot) { s.Sections = nil }, "at least one section is required"},
		{"no rooms", func(s *Snapshot) { s.Rooms = nil }, "at least one room is required"},
		{"no instructors", func(s *Snapshot) { s.Instructors = nil }, "at least one instructor is required"},
		{"no courses", func(s *Snapshot) { s.Courses = nil }, "at least one course is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := baseSnapshot()
			tc.mutate(&snap)

			result, err := Generate(snap)
			require.Error(t, err)
			assert.Nil(t, result)

			var appErr *appErrors.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
			assert.Equal(t, tc.message, appErr.Message)
		})
	}
}

func TestGeneratePreconditionOrderSectionsFirst(t *testing.T) {
	snap := baseSnapshot()
	snap.Sections = nil
	snap.Rooms = nil

	_, err := Generate(snap)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "section")
}

func TestGenerateSingleCourseFirstFit(t *testing.T) {
	snap := baseSnapshot()

	result, err := Generate(snap)
	require.NoError(t, err)
	require.Len(t, result.Assignments, 1)

	assignment := result.Assignments[0]
	assert.Equal(t, "crs-1", assignment.CourseID)
	assert.Equal(t, "ins-1", assignment.InstructorID)
	assert.Equal(t, "room-1", assignment.RoomID)
	assert.Equal(t, "Monday-0", assignment.TimeSlotID, "earliest slot in given order wins")
	assert.Equal(t, "sec-1", assignment.SectionID)
	assert.NotEmpty(t, assignment.ID)
	assert.Equal(t, 1, result.InstructorHours["ins-1"])
}

func TestGenerateFirstFitPrefersLowerIndexRoom(t *testing.T) {
	snap := baseSnapshot()
	snap.Rooms = []models.Room{
		{ID: "room-small", Number: "R1", Capacity: 30},
		{ID: "room-large", Number: "R2", Capacity: 50},
	}
	snap.Courses[0].MaxStudents = 25

	result, err := Generate(snap)
	require.NoError(t, err)
	require.Len(t, result.Assignments, 1)
	assert.Equal(t, "room-small", result.Assignments[0].RoomID)
}

func TestGenerateCapacityBoundaryExactFitAccepted(t *testing.T) {
	snap := baseSnapshot()
	snap.Rooms[0].Capacity = 25
	snap.Courses[0].MaxStudents = 25

	result, err := Generate(snap)
	require.NoError(t, err)
	assert.Len(t, result.Assignments, 1)
}

func TestGenerateSkipsUndersizedRooms(t *testing.T) {
	snap := baseSnapshot()
	snap.Rooms = []models.Room{
		{ID: "room-tiny", Number: "R1", Capacity: 10},
		{ID: "room-big", Number: "R2", Capacity: 60},
	}
	snap.Courses[0].MaxStudents = 40

	result, err := Generate(snap)
	require.NoError(t, err)
	require.Len(t, result.Assignments, 1)
	assert.Equal(t, "room-big", result.Assignments[0].RoomID)
}

func TestGenerateNoDoubleBooking(t *testing.T) {
	snap := Snapshot{
		Sections: []models.Section{
			{ID: "sec-1", DepartmentID: "dep-1"},
			{ID: "sec-2", DepartmentID: "dep-1"},
		},
		Departments: []models.Department{
			{ID: "dep-1", CourseIDs: []string{"crs-1", "crs-2", "crs-3"}},
		},
		Instructors: []models.Instructor{
			{ID: "ins-1", MaxHours: 10},
			{ID: "ins-2", MaxHours: 10},
		},
		Courses: []models.Course{
			{ID: "crs-1", MaxStudents: 20, InstructorID: "ins-1"},
			{ID: "crs-2", MaxStudents: 20, InstructorID: "ins-2"},
			{ID: "crs-3", MaxStudents: 20, InstructorID: "ins-1"},
		},
		Rooms: []models.Room{
			{ID: "room-1", Capacity: 30},
			{ID: "room-2", Capacity: 30},
		},
		TimeSlots: weekSlots(),
	}

	result, err := Generate(snap)
	require.NoError(t, err)
	require.NotEmpty(t, result.Assignments)

	instructorSeen := map[string]bool{}
	roomSeen := map[string]bool{}
	for _, a := range result.Assignments {
		instructorKey := a.InstructorID + "|" + a.TimeSlotID
		roomKey := a.RoomID + "|" + a.TimeSlotID
		assert.False(t, instructorSeen[instructorKey], "instructor double-booked at %s", a.TimeSlotID)
		assert.False(t, roomSeen[roomKey], "room double-booked at %s", a.TimeSlotID)
		instructorSeen[instructorKey] = true
		roomSeen[roomKey] = true
	}
}

func TestGenerateBusySetsSpanSections(t *testing.T) {
	// One instructor teaching the same course list for two sections: the
	// second section must land on a different slot, not reuse Monday-0.
	snap := Snapshot{
		Sections: []models.Section{
			{ID: "sec-1", DepartmentID: "dep-1"},
			{ID: "sec-2", DepartmentID: "dep-1"},
		},
		Departments: []models.Department{{ID: "dep-1", CourseIDs: []string{"crs-1"}}},
		Instructors: []models.Instructor{{ID: "ins-1", MaxHours: 10}},
		Courses:     []models.Course{{ID: "crs-1", MaxStudents: 20, InstructorID: "ins-1"}},
		Rooms:       []models.Room{{ID: "room-1", Capacity: 30}},
		TimeSlots:   weekSlots(),
	}

	result, err := Generate(snap)
	require.NoError(t, err)
	require.Len(t, result.Assignments, 2)
	assert.Equal(t, "Monday-0", result.Assignments[0].TimeSlotID)
	assert.Equal(t, "Monday-1", result.Assignments[1].TimeSlotID)
	assert.Equal(t, 2, result.InstructorHours["ins-1"])
}

func TestGenerateWorkloadCapRespected(t *testing.T) {
	// Instructor capped at 2 hours teaching 4 courses: only 2 placements.
	courseIDs := []string{"crs-1", "crs-2", "crs-3", "crs-4"}
	courses := make([]models.Course, len(courseIDs))
	for i, id := range courseIDs {
		courses[i] = models.Course{ID: id, MaxStudents: 20, InstructorID: "ins-1"}
	}

	snap := Snapshot{
		Sections:    []models.Section{{ID: "sec-1", DepartmentID: "dep-1"}},
		Departments: []models.Department{{ID: "dep-1", CourseIDs: courseIDs}},
		Instructors: []models.Instructor{{ID: "ins-1", MaxHours: 2}},
		Courses:     courses,
		Rooms:       []models.Room{{ID: "room-1", Capacity: 30}},
		TimeSlots:   weekSlots(),
	}

	result, err := Generate(snap)
	require.NoError(t, err)
	assert.Len(t, result.Assignments, 2)
	assert.Equal(t, 2, result.InstructorHours["ins-1"])
}

func TestGenerateIgnoresStaleHourCounters(t *testing.T) {
	// Counters left over from an earlier run must not leak into a fresh one.
	snap := baseSnapshot()
	snap.Instructors[0].CurrentHours = 99

	result, err := Generate(snap)
	require.NoError(t, err)
	assert.Len(t, result.Assignments, 1)
	assert.Equal(t, 1, result.InstructorHours["ins-1"])
}

func TestGenerateSkipsSectionWithUnknownDepartment(t *testing.T) {
	snap := baseSnapshot()
	snap.Sections = append(snap.Sections, models.Section{ID: "sec-orphan", DepartmentID: "dep-missing"})

	result, err := Generate(snap)
	require.NoError(t, err)
	for _, a := range result.Assignments {
		assert.NotEqual(t, "sec-orphan", a.SectionID)
	}
}

func TestGenerateCoursesScopedToDepartment(t *testing.T) {
	// A course outside the section's department is never placed for it, even
	// when resources are plentiful.
	snap := baseSnapshot()
	snap.Departments = append(snap.Departments, models.Department{ID: "dep-2", CourseIDs: []string{"crs-2"}})
	snap.Courses = append(snap.Courses, models.Course{ID: "crs-2", MaxStudents: 10, InstructorID: "ins-1"})

	result, err := Generate(snap)
	require.NoError(t, err)
	require.Len(t, result.Assignments, 1)
	assert.Equal(t, "crs-1", result.Assignments[0].CourseID)
}

func TestGenerateSkipsCourseWithUnknownInstructor(t *testing.T) {
	snap := baseSnapshot()
	snap.Courses[0].InstructorID = "ins-missing"

	result, err := Generate(snap)
	require.Error(t, err)
	assert.Nil(t, result)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnschedulable.Code, appErr.Code)
}

func TestGenerateEmptyResultDistinctFromPreconditionFailure(t *testing.T) {
	// All prerequisites present, but the only room is too small for the only
	// course: the run completes with zero assignments.
	snap := baseSnapshot()
	snap.Rooms[0].Capacity = 5

	_, err := Generate(snap)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnschedulable.Code, appErr.Code)
	assert.NotEqual(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
}

func TestGenerateDeterministic(t *testing.T) {
	snap := baseSnapshot()
	snap.Departments[0].CourseIDs = []string{"crs-1", "crs-2"}
	snap.Courses = append(snap.Courses, models.Course{ID: "crs-2", MaxStudents: 20, InstructorID: "ins-1"})

	first, err := Generate(snap)
	require.NoError(t, err)
	second, err := Generate(snap)
	require.NoError(t, err)

	require.Len(t, second.Assignments, len(first.Assignments))
	for i := range first.Assignments {
		assert.Equal(t, first.Assignments[i].CourseID, second.Assignments[i].CourseID)
		assert.Equal(t, first.Assignments[i].RoomID, second.Assignments[i].RoomID)
		assert.Equal(t, first.Assignments[i].TimeSlotID, second.Assignments[i].TimeSlotID)
	}
}
