package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unisched/course-scheduler-api/internal/dto"
	"github.com/unisched/course-scheduler-api/internal/models"
	appErrors "github.com/unisched/course-scheduler-api/pkg/errors"
)

type departmentRepository interface {
	ListAll(ctx context.Context) ([]models.Department, error)
	FindByID(ctx context.Context, id string) (*models.Department, error)
	Create(ctx context.Context, department *models.Department) error
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id string) error
}

type departmentCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type departmentSectionGuard interface {
	ListAll(ctx context.Context) ([]models.Section, error)
}

// DepartmentService provides department management use cases. Departments
// are a small collection, so listing is unpaginated.
type DepartmentService struct {
	repo      departmentRepository
	courses   departmentCourseRepository
	sections  departmentSectionGuard
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDepartmentService constructs a DepartmentService.
func NewDepartmentService(repo departmentRepository, courses departmentCourseRepository, validate *validator.Validate, logger *zap.Logger) *DepartmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// WithSectionGuard makes Delete refuse departments that still own sections.
func (s *DepartmentService) WithSectionGuard(guard departmentSectionGuard) *DepartmentService {
	s.sections = guard
	return s
}

// List returns all departments with their ordered course lists.
func (s *DepartmentService) List(ctx context.Context) ([]models.Department, error) {
	departments, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	return departments, nil
}

// Get fetches a single department.
func (s *DepartmentService) Get(ctx context.Context, id string) (*models.Department, error) {
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch department")
	}
	return department, nil
}

func (s *DepartmentService) checkCourses(ctx context.Context, courseIDs []string) error {
	for _, courseID := range courseIDs {
		if _, err := s.courses.FindByID(ctx, courseID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrValidation, "course "+courseID+" does not exist")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify course")
		}
	}
	return nil
}

// Create registers a department. Course order in the request is preserved
// and later drives generation order.
func (s *DepartmentService) Create(ctx context.Context, req dto.CreateDepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}
	if err := s.checkCourses(ctx, req.CourseIDs); err != nil {
		return nil, err
	}

	department := &models.Department{Name: req.Name, CourseIDs: req.CourseIDs}
	if err := s.repo.Create(ctx, department); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create department")
	}
	return department, nil
}

// Update replaces a department's name and course list.
func (s *DepartmentService) Update(ctx context.Context, id string, req dto.UpdateDepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}

	department, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCourses(ctx, req.CourseIDs); err != nil {
		return nil, err
	}

	department.Name = req.Name
	department.CourseIDs = req.CourseIDs

	if err := s.repo.Update(ctx, department); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update department")
	}
	return department, nil
}

// Delete removes a department and its course links. Departments that still
// own sections are refused; delete the sections first so their assignments
// and hour counters are settled through the section path.
func (s *DepartmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if s.sections != nil {
		sections, err := s.sections.ListAll(ctx)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check department sections")
		}
		for _, section := range sections {
			if section.DepartmentID == id {
				return appErrors.Clone(appErrors.ErrConflict, "department still has sections")
			}
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete department")
	}
	return nil
}
