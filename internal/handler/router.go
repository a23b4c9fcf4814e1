package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/unisched/course-scheduler-api/internal/middleware"
	"github.com/unisched/course-scheduler-api/internal/models"
	"github.com/unisched/course-scheduler-api/internal/service"
)

// Handlers bundles every HTTP handler the API mounts.
type Handlers struct {
	Auth        *AuthHandler
	Schedule    *ScheduleHandler
	Instructors *InstructorHandler
	Courses     *CourseHandler
	Rooms       *RoomHandler
	Departments *DepartmentHandler
	Sections    *SectionHandler
	TimeSlots   *TimeSlotHandler
	Exports     *ExportHandler
	Admin       *AdminHandler
	Metrics     *MetricsHandler
}

// RegisterRoutes mounts the API surface under the given prefix. Reads are
// open to any authenticated user; schedule writes and entity management
// require the admin role.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, authService *service.AuthService) {
	api := r.Group(prefix)

	api.POST("/auth/login", h.Auth.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authService))

	admin := authed.Group("")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))

	admin.POST("/auth/register", h.Auth.Register)

	authed.GET("/schedules", h.Schedule.List)
	admin.POST("/schedules", h.Schedule.Add)
	admin.POST("/schedules/generate", h.Schedule.Generate)
	admin.DELETE("/schedules", h.Schedule.Clear)

	authed.GET("/sections", h.Sections.List)
	authed.GET("/sections/:id", h.Sections.Get)
	authed.GET("/sections/:id/grid", h.Schedule.Grid)
	authed.GET("/sections/:id/export", h.Exports.Section)
	admin.POST("/sections", h.Sections.Create)
	admin.PUT("/sections/:id", h.Sections.Update)
	admin.DELETE("/sections/:id", h.Sections.Delete)

	authed.GET("/instructors", h.Instructors.List)
	authed.GET("/instructors/:id", h.Instructors.Get)
	admin.POST("/instructors", h.Instructors.Create)
	admin.PUT("/instructors/:id", h.Instructors.Update)
	admin.DELETE("/instructors/:id", h.Instructors.Delete)

	authed.GET("/courses", h.Courses.List)
	authed.GET("/courses/:id", h.Courses.Get)
	admin.POST("/courses", h.Courses.Create)
	admin.PUT("/courses/:id", h.Courses.Update)
	admin.DELETE("/courses/:id", h.Courses.Delete)

	authed.GET("/rooms", h.Rooms.List)
	authed.GET("/rooms/:id", h.Rooms.Get)
	admin.POST("/rooms", h.Rooms.Create)
	admin.PUT("/rooms/:id", h.Rooms.Update)
	admin.DELETE("/rooms/:id", h.Rooms.Delete)

	authed.GET("/departments", h.Departments.List)
	authed.GET("/departments/:id", h.Departments.Get)
	admin.POST("/departments", h.Departments.Create)
	admin.PUT("/departments/:id", h.Departments.Update)
	admin.DELETE("/departments/:id", h.Departments.Delete)

	authed.GET("/timeslots", h.TimeSlots.List)
	admin.POST("/timeslots", h.TimeSlots.Create)
	admin.DELETE("/timeslots/:id", h.TimeSlots.Delete)

	admin.POST("/admin/seed", h.Admin.Seed)

	r.GET("/health", h.Metrics.Health)
	r.GET("/metrics", h.Metrics.Prometheus)
}
