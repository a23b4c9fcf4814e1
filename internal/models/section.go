package models

import "time"

// Section represents one student cohort following a department's offerings.
// Each section's weekly timetable is generated independently.
type Section struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// SectionFilter captures filters for listing sections.
type SectionFilter struct {
	Search       string
	DepartmentID string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
