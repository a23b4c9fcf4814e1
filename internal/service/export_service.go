package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/unisched/course-scheduler-api/internal/dto"
	"github.com/unisched/course-scheduler-api/internal/models"
	"github.com/unisched/course-scheduler-api/pkg/export"
	appErrors "github.com/unisched/course-scheduler-api/pkg/errors"
)

type gridProvider interface {
	Grid(ctx context.Context, sectionID string) (*dto.SectionGridResponse, error)
}

type exportSectionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Section, error)
}

// ExportService renders section timetables as downloadable CSV or PDF
// documents.
type ExportService struct {
	grids    gridProvider
	sections exportSectionRepository
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(grids gridProvider, sections exportSectionRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		grids:    grids,
		sections: sections,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

const timeColumn = "Time"

func (s *ExportService) dataset(ctx context.Context, sectionID string) (export.Dataset, string, error) {
	grid, err := s.grids.Grid(ctx, sectionID)
	if err != nil {
		return export.Dataset{}, "", err
	}
	section, err := s.sections.FindByID(ctx, sectionID)
	if err != nil {
		return export.Dataset{}, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}

	headers := append([]string{timeColumn}, grid.Days...)
	rows := make([]map[string]string, len(grid.Periods))
	for periodIdx, period := range grid.Periods {
		row := map[string]string{timeColumn: period.Start + " - " + period.End}
		for dayIdx, day := range grid.Days {
			cell := grid.Grid[dayIdx][periodIdx]
			if cell.IsEmpty || cell.Course == nil {
				row[day] = "-"
				continue
			}
			row[day] = fmt.Sprintf("%s (%s, %s)", cell.Course.Code, cell.Instructor.Name, cell.Room.Number)
		}
		rows[periodIdx] = row
	}

	return export.Dataset{Headers: headers, Rows: rows}, section.Name, nil
}

func exportFilename(sectionName, ext string) string {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(sectionName), " ", "-"))
	if slug == "" {
		slug = "section"
	}
	return "timetable-" + slug + "." + ext
}

// SectionCSV renders one section's weekly timetable as CSV.
func (s *ExportService) SectionCSV(ctx context.Context, sectionID string) ([]byte, string, error) {
	data, sectionName, err := s.dataset(ctx, sectionID)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.csv.Render(data)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return payload, exportFilename(sectionName, "csv"), nil
}

// SectionPDF renders one section's weekly timetable as a landscape PDF.
func (s *ExportService) SectionPDF(ctx context.Context, sectionID string) ([]byte, string, error) {
	data, sectionName, err := s.dataset(ctx, sectionID)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.pdf.Render(data, "Weekly Timetable: "+sectionName)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return payload, exportFilename(sectionName, "pdf"), nil
}
