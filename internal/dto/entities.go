package dto

// ListQuery captures the shared pagination, search, and sorting params used
// by every collection listing.
type ListQuery struct {
	Search    string `form:"search"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}

// CreateInstructorRequest registers a teaching staff member. MaxHours is
// optional; when omitted the designation's conventional cap applies.
type CreateInstructorRequest struct {
	Name        string `json:"name" validate:"required"`
	Designation string `json:"designation" validate:"required"`
	MaxHours    int    `json:"max_hours" validate:"omitempty,min=1"`
}

// UpdateInstructorRequest modifies a teaching staff member.
type UpdateInstructorRequest struct {
	Name        string `json:"name" validate:"required"`
	Designation string `json:"designation" validate:"required"`
	MaxHours    int    `json:"max_hours" validate:"omitempty,min=1"`
}

// CreateCourseRequest registers a course offering.
type CreateCourseRequest struct {
	Code         string `json:"code" validate:"required"`
	Name         string `json:"name" validate:"required"`
	MaxStudents  int    `json:"max_students" validate:"required,min=1"`
	InstructorID string `json:"instructor_id" validate:"required"`
}

// UpdateCourseRequest modifies a course offering.
type UpdateCourseRequest struct {
	Code         string `json:"code" validate:"required"`
	Name         string `json:"name" validate:"required"`
	MaxStudents  int    `json:"max_students" validate:"required,min=1"`
	InstructorID string `json:"instructor_id" validate:"required"`
}

// CreateRoomRequest registers a room.
type CreateRoomRequest struct {
	Number   string `json:"number" validate:"required"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
}

// UpdateRoomRequest modifies a room.
type UpdateRoomRequest struct {
	Number   string `json:"number" validate:"required"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
}

// CreateDepartmentRequest registers a department with its ordered course
// list. Course order is preserved and drives generation order.
type CreateDepartmentRequest struct {
	Name      string   `json:"name" validate:"required"`
	CourseIDs []string `json:"course_ids" validate:"omitempty,dive,required"`
}

// UpdateDepartmentRequest replaces a department's name and course list.
type UpdateDepartmentRequest struct {
	Name      string   `json:"name" validate:"required"`
	CourseIDs []string `json:"course_ids" validate:"omitempty,dive,required"`
}

// CreateSectionRequest registers a student cohort under a department.
type CreateSectionRequest struct {
	Name         string `json:"name" validate:"required"`
	DepartmentID string `json:"department_id" validate:"required"`
}

// UpdateSectionRequest modifies a section.
type UpdateSectionRequest struct {
	Name         string `json:"name" validate:"required"`
	DepartmentID string `json:"department_id" validate:"required"`
}

// CreateTimeSlotRequest registers a schedulable period on a weekday.
type CreateTimeSlotRequest struct {
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// RegisterUserRequest creates an application user.
type RegisterUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=ADMIN STAFF"`
}

// SeedResponse summarises the demo dataset installed by the seed endpoint.
type SeedResponse struct {
	Instructors int `json:"instructors"`
	Courses     int `json:"courses"`
	Rooms       int `json:"rooms"`
	Departments int `json:"departments"`
	Sections    int `json:"sections"`
	TimeSlots   int `json:"time_slots"`
}
