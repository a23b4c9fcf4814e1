package dto

import "github.com/unisched/course-scheduler-api/internal/models"

// GenerateScheduleResponse returns the full assignment set produced by one
// generation run together with the recomputed instructor workload counters.
type GenerateScheduleResponse struct {
	Assignments     []models.Assignment `json:"assignments"`
	AssignmentCount int                 `json:"assignment_count"`
	SectionCount    int                 `json:"section_count"`
	InstructorHours map[string]int      `json:"instructor_hours"`
}

// ManualAssignmentRequest proposes a single fully specified assignment.
type ManualAssignmentRequest struct {
	CourseID     string `json:"course_id" validate:"required"`
	InstructorID string `json:"instructor_id" validate:"required"`
	RoomID       string `json:"room_id" validate:"required"`
	TimeSlotID   string `json:"time_slot_id" validate:"required"`
	SectionID    string `json:"section_id" validate:"required"`
}

// SectionGridResponse is one section's weekly timetable in day-by-period
// matrix form, with the axis labels the matrix indexes into.
type SectionGridResponse struct {
	SectionID string          `json:"section_id"`
	Days      []string        `json:"days"`
	Periods   []models.Period `json:"periods"`
	Grid      models.Grid     `json:"grid"`
}

// ClearScheduleResponse reports how many assignments a reset removed.
type ClearScheduleResponse struct {
	RemovedCount int `json:"removed_count"`
}

// AssignmentQuery filters the assignment listing.
type AssignmentQuery struct {
	SectionID    string `form:"section_id"`
	InstructorID string `form:"instructor_id"`
	RoomID       string `form:"room_id"`
	CourseID     string `form:"course_id"`
	TimeSlotID   string `form:"time_slot_id"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
}
