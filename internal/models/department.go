package models

import "time"

// Department groups courses under one academic unit. CourseIDs preserves the
// department's stored course order, which the generator honors when placing
// courses for a section.
type Department struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CourseIDs []string  `db:"-" json:"course_ids"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DepartmentFilter captures filters for listing departments.
type DepartmentFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
