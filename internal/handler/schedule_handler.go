package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unisched/course-scheduler-api/internal/dto"
	"github.com/unisched/course-scheduler-api/internal/models"
	appErrors "github.com/unisched/course-scheduler-api/pkg/errors"
	"github.com/unisched/course-scheduler-api/pkg/response"
)

type scheduleService interface {
	Generate(ctx context.Context) (*dto.GenerateScheduleResponse, error)
	AddAssignment(ctx context.Context, req dto.ManualAssignmentRequest) (*models.Assignment, error)
	ListAssignments(ctx context.Context, query dto.AssignmentQuery) ([]models.Assignment, *models.Pagination, error)
	Grid(ctx context.Context, sectionID string) (*dto.SectionGridResponse, error)
	Clear(ctx context.Context) (*dto.ClearScheduleResponse, error)
}

// ScheduleHandler exposes the timetable generation and query endpoints.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs a schedule handler.
func NewScheduleHandler(svc scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Generate godoc
// @Summary Generate the full timetable
// @Description Replaces the stored schedule with a freshly generated one covering every section.
// @Tags Schedules
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	result, err := h.service.Generate(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Add godoc
// @Summary Add a manual assignment
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.ManualAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Add(c *gin.Context) {
	var req dto.ManualAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	assignment, err := h.service.AddAssignment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// List godoc
// @Summary List stored assignments
// @Tags Schedules
// @Produce json
// @Param section_id query string false "Filter by section"
// @Param instructor_id query string false "Filter by instructor"
// @Param room_id query string false "Filter by room"
// @Param course_id query string false "Filter by course"
// @Param time_slot_id query string false "Filter by time slot"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	var query dto.AssignmentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	assignments, pagination, err := h.service.ListAssignments(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, pagination)
}

// Grid godoc
// @Summary Get one section's weekly grid
// @Tags Schedules
// @Produce json
// @Param id path string true "Section ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sections/{id}/grid [get]
func (h *ScheduleHandler) Grid(c *gin.Context) {
	grid, err := h.service.Grid(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// Clear godoc
// @Summary Clear the stored schedule
// @Description Removes every assignment and zeroes all instructor workload counters.
// @Tags Schedules
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedules [delete]
func (h *ScheduleHandler) Clear(c *gin.Context) {
	result, err := h.service.Clear(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
