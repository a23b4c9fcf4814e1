package models

import "time"

// TimeSlot is one schedulable (day, start, end) period shared by the whole
// institution's timetable universe.
type TimeSlot struct {
	ID        string    `db:"id" json:"id"`
	Day       string    `db:"day" json:"day"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Period is a (start, end) pair without a day, used for the canonical grid
// columns.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Days is the canonical teaching week, in grid row order.
var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// DefaultPeriods is the canonical daily period list, in grid column order.
var DefaultPeriods = []Period{
	{Start: "8:45", End: "9:45"},
	{Start: "10:00", End: "11:00"},
	{Start: "11:00", End: "12:00"},
	{Start: "1:00", End: "2:00"},
	{Start: "2:15", End: "3:15"},
}

// DayIndex returns the grid row for a day name, or -1 when the day is not
// part of the canonical week.
func DayIndex(day string) int {
	for i, d := range Days {
		if d == day {
			return i
		}
	}
	return -1
}

// PeriodIndex matches a (start, end) pair against the canonical period list
// by value equality, returning -1 when absent.
func PeriodIndex(start, end string) int {
	for i, p := range DefaultPeriods {
		if p.Start == start && p.End == end {
			return i
		}
	}
	return -1
}
