package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unisched/course-scheduler-api/internal/service"
	appErrors "github.com/unisched/course-scheduler-api/pkg/errors"
	"github.com/unisched/course-scheduler-api/pkg/response"
)

// ExportHandler serves timetable downloads.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Section godoc
// @Summary Download one section's timetable
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Section ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /sections/{id}/export [get]
func (h *ExportHandler) Section(c *gin.Context) {
	sectionID := c.Param("id")
	format := c.DefaultQuery("format", "csv")

	var (
		payload     []byte
		filename    string
		contentType string
		err         error
	)
	switch format {
	case "csv":
		payload, filename, err = h.service.SectionCSV(c.Request.Context(), sectionID)
		contentType = "text/csv"
	case "pdf":
		payload, filename, err = h.service.SectionPDF(c.Request.Context(), sectionID)
		contentType = "application/pdf"
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}
