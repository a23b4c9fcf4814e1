package models

import "time"

// Course represents an offered course taught by exactly one instructor.
type Course struct {
	ID           string    `db:"id" json:"id"`
	Code         string    `db:"code" json:"code"`
	Name         string    `db:"name" json:"name"`
	MaxStudents  int       `db:"max_students" json:"max_students"`
	InstructorID string    `db:"instructor_id" json:"instructor_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CourseFilter captures supported filters for listing courses.
type CourseFilter struct {
	Search       string
	InstructorID string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
