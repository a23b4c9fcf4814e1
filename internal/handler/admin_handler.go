package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unisched/course-scheduler-api/internal/service"
	appErrors "github.com/unisched/course-scheduler-api/pkg/errors"
	"github.com/unisched/course-scheduler-api/pkg/response"
)

// AdminHandler exposes operational endpoints.
type AdminHandler struct {
	seed        *service.SeedService
	seedEnabled bool
}

// NewAdminHandler constructs an admin handler.
func NewAdminHandler(seed *service.SeedService, seedEnabled bool) *AdminHandler {
	return &AdminHandler{seed: seed, seedEnabled: seedEnabled}
}

// Seed godoc
// @Summary Install the demo dataset
// @Description Populates an empty database with demo instructors, courses, rooms, departments, sections, and the full week of time slots.
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/seed [post]
func (h *AdminHandler) Seed(c *gin.Context) {
	if !h.seedEnabled {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "seeding is disabled"))
		return
	}
	result, err := h.seed.Run(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
