package engine

import (
	"github.com/google/uuid"

	"github.com/unisched/course-scheduler-api/internal/models"
	appErrors "github.com/unisched/course-scheduler-api/pkg/errors"
)

// Candidate is a fully specified manual assignment proposal.
type Candidate struct {
	CourseID     string
	InstructorID string
	RoomID       string
	TimeSlotID   string
	SectionID    string
}

// AddManual validates a single candidate against the existing assignment
// collection and mints the assignment on acceptance. It checks only entity
// resolution and double-booking; capacity and workload caps are deliberately
// not enforced on the manual path, so callers may exceed them knowingly.
// Existing state is never touched on rejection.
func AddManual(cand Candidate, existing []models.Assignment, res Resolvers) (*models.Assignment, error) {
	_, courseOK := res.Courses[cand.CourseID]
	instructor, instructorOK := res.Instructors[cand.InstructorID]
	room, roomOK := res.Rooms[cand.RoomID]
	_, slotOK := res.TimeSlots[cand.TimeSlotID]
	_, sectionOK := res.Sections[cand.SectionID]
	if !courseOK || !instructorOK || !roomOK || !slotOK || !sectionOK {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course, instructor, room, time slot, and section must all reference existing records")
	}

	// Instructor conflicts take precedence over room conflicts, so the whole
	// collection is scanned for each in turn.
	for _, assignment := range existing {
		if assignment.TimeSlotID == cand.TimeSlotID && assignment.InstructorID == cand.InstructorID {
			return nil, appErrors.Clone(appErrors.ErrConflict, "instructor "+instructor.Name+" is already scheduled at this time")
		}
	}
	for _, assignment := range existing {
		if assignment.TimeSlotID == cand.TimeSlotID && assignment.RoomID == cand.RoomID {
			return nil, appErrors.Clone(appErrors.ErrConflict, "room "+room.Number+" is already in use at this time")
		}
	}

	return &models.Assignment{
		ID:           uuid.NewString(),
		CourseID:     cand.CourseID,
		InstructorID: cand.InstructorID,
		RoomID:       cand.RoomID,
		TimeSlotID:   cand.TimeSlotID,
		SectionID:    cand.SectionID,
	}, nil
}
