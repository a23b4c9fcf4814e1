package engine

import (
	"github.com/google/uuid"

	"github.com/unisched/course-scheduler-api/internal/models"
	appErrors "github.com/unisched/course-scheduler-api/pkg/errors"
)

// Result is the outcome of a full generation run. InstructorHours holds the
// authoritative post-run counter for every instructor in the snapshot,
// including those that received no assignments.
type Result struct {
	Assignments     []models.Assignment
	InstructorHours map[string]int
}

// Generate builds a full assignment set across all sections in one
// deterministic greedy pass. There is no backtracking and no optimization:
// for each course the earliest free time slot wins, and within it the
// lowest-index room that fits. Courses that cannot be placed are skipped
// without aborting the run.
//
// A run starts from zeroed workload counters; the hour values in the snapshot
// are ignored. Instructor and room busy sets span the whole run, so a room
// taken by one section's course is unavailable to every other section at that
// slot.
func Generate(snap Snapshot) (*Result, error) {
	if err := checkPreconditions(snap); err != nil {
		return nil, err
	}

	res := BuildResolvers(snap)

	hours := make(map[string]int, len(snap.Instructors))
	for _, instructor := range snap.Instructors {
		hours[instructor.ID] = 0
	}

	instructorBusy := make(busySet)
	roomBusy := make(busySet)
	var assignments []models.Assignment

	for _, section := range snap.Sections {
		department, ok := res.Departments[section.DepartmentID]
		if !ok {
			continue
		}

		for _, courseID := range department.CourseIDs {
			course, ok := res.Courses[courseID]
			if !ok {
				continue
			}
			instructor, ok := res.Instructors[course.InstructorID]
			if !ok {
				continue
			}
			if hours[instructor.ID] >= instructor.MaxHours {
				continue
			}

			placed := false
			for _, slot := range snap.TimeSlots {
				if instructorBusy.busy(instructor.ID, slot.ID) {
					continue
				}
				for _, room := range snap.Rooms {
					if roomBusy.busy(room.ID, slot.ID) {
						continue
					}
					if room.Capacity < course.MaxStudents {
						continue
					}

					assignments = append(assignments, models.Assignment{
						ID:           uuid.NewString(),
						CourseID:     course.ID,
						InstructorID: instructor.ID,
						RoomID:       room.ID,
						TimeSlotID:   slot.ID,
						SectionID:    section.ID,
					})
					instructorBusy.mark(instructor.ID, slot.ID)
					roomBusy.mark(room.ID, slot.ID)
					hours[instructor.ID]++
					placed = true
					break
				}
				if placed {
					break
				}
			}
		}
	}

	if len(assignments) == 0 {
		return nil, appErrors.Clone(appErrors.ErrUnschedulable, "")
	}

	return &Result{Assignments: assignments, InstructorHours: hours}, nil
}

func checkPreconditions(snap Snapshot) error {
	switch {
	case len(snap.Sections) == 0:
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "at least one section is required")
	case len(snap.Rooms) == 0:
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "at least one room is required")
	case len(snap.Instructors) == 0:
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "at least one instructor is required")
	case len(snap.Courses) == 0:
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "at least one course is required")
	}
	return nil
}
