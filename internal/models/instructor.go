package models

import "time"

// Instructor represents a teaching staff record. CurrentHours is a derived
// counter: it must always equal the number of assignments referencing the
// instructor, and is mutated only alongside assignment creation and removal.
type Instructor struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Designation  string    `db:"designation" json:"designation"`
	MaxHours     int       `db:"max_hours" json:"max_hours"`
	CurrentHours int       `db:"current_hours" json:"current_hours"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Weekly hour caps conventionally attached to each designation. Callers may
// override the cap explicitly at creation time.
var DesignationMaxHours = map[string]int{
	"Professor":           10,
	"Associate Professor": 12,
	"Assistant Professor": 14,
	"Lecturer":            16,
}

// DefaultMaxHours returns the designation-derived weekly cap, falling back to
// the lecturer cap for unknown ranks.
func DefaultMaxHours(designation string) int {
	if hours, ok := DesignationMaxHours[designation]; ok {
		return hours
	}
	return 16
}

// InstructorFilter captures filtering options for listing instructors.
type InstructorFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
