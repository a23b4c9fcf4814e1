package engine

import (
	"github.com/unisched/course-scheduler-api/internal/models"
)

// GridForSection projects the assignments belonging to one section onto the
// canonical [day][period] matrix. Assignments whose time slot no longer maps
// onto the canonical week, or whose course, instructor, or room cannot be
// resolved, are dropped silently and the cell stays empty. The function is
// pure and safe for concurrent use.
func GridForSection(sectionID string, assignments []models.Assignment, res Resolvers) models.Grid {
	grid := make(models.Grid, len(models.Days))
	for d := range grid {
		row := make([]models.GridCell, len(models.DefaultPeriods))
		for p := range row {
			row[p] = models.GridCell{IsEmpty: true}
		}
		grid[d] = row
	}

	for _, assignment := range assignments {
		if assignment.SectionID != sectionID {
			continue
		}
		slot, ok := res.TimeSlots[assignment.TimeSlotID]
		if !ok {
			continue
		}
		day := models.DayIndex(slot.Day)
		if day == -1 {
			continue
		}
		period := models.PeriodIndex(slot.StartTime, slot.EndTime)
		if period == -1 {
			continue
		}

		course, courseOK := res.Courses[assignment.CourseID]
		instructor, instructorOK := res.Instructors[assignment.InstructorID]
		room, roomOK := res.Rooms[assignment.RoomID]
		if !courseOK || !instructorOK || !roomOK {
			continue
		}

		grid[day][period] = models.GridCell{
			Course:     &course,
			Instructor: &instructor,
			Room:       &room,
			IsEmpty:    false,
		}
	}

	return grid
}
