package models

import "time"

// Assignment records that a course, taught by its instructor, meets in a room
// at a time slot for a section. It is the unit of conflict checking: no two
// assignments may share an (instructor, time slot) or (room, time slot) pair.
type Assignment struct {
	ID           string    `db:"id" json:"id"`
	CourseID     string    `db:"course_id" json:"course_id"`
	InstructorID string    `db:"instructor_id" json:"instructor_id"`
	RoomID       string    `db:"room_id" json:"room_id"`
	TimeSlotID   string    `db:"time_slot_id" json:"time_slot_id"`
	SectionID    string    `db:"section_id" json:"section_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// AssignmentFilter describes query params for listing assignments.
type AssignmentFilter struct {
	SectionID    string
	InstructorID string
	RoomID       string
	CourseID     string
	TimeSlotID   string
	Page         int
	PageSize     int
}

// GridCell is one slot of a section's day-by-period timetable view. Empty
// cells carry no entity references.
type GridCell struct {
	Course     *Course     `json:"course,omitempty"`
	Instructor *Instructor `json:"instructor,omitempty"`
	Room       *Room       `json:"room,omitempty"`
	IsEmpty    bool        `json:"is_empty"`
}

// Grid is a [day][period] matrix covering the canonical week.
type Grid [][]GridCell
