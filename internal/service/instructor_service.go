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

type instructorRepository interface {
	List(ctx context.Context, filter models.InstructorFilter) ([]models.Instructor, int, error)
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
	Create(ctx context.Context, instructor *models.Instructor) error
	Update(ctx context.Context, instructor *models.Instructor) error
	Delete(ctx context.Context, id string) error
}

// assignmentGuard answers whether stored assignments still reference an
// entity about to be deleted.
type assignmentGuard interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error)
}

func assignmentsReference(ctx context.Context, guard assignmentGuard, filter models.AssignmentFilter) (bool, error) {
	if guard == nil {
		return false, nil
	}
	filter.Page = 1
	filter.PageSize = 1
	_, total, err := guard.List(ctx, filter)
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

// InstructorService provides instructor management use cases.
type InstructorService struct {
	repo        instructorRepository
	assignments assignmentGuard
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewInstructorService constructs an InstructorService.
func NewInstructorService(repo instructorRepository, validate *validator.Validate, logger *zap.Logger) *InstructorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstructorService{repo: repo, validator: validate, logger: logger}
}

// WithAssignmentGuard makes Delete refuse instructors the timetable still
// references.
func (s *InstructorService) WithAssignmentGuard(guard assignmentGuard) *InstructorService {
	s.assignments = guard
	return s
}

// List returns instructors matching the query.
func (s *InstructorService) List(ctx context.Context, query dto.ListQuery) ([]models.Instructor, *models.Pagination, error) {
	filter := models.InstructorFilter{
		Search:    query.Search,
		Page:      query.Page,
		PageSize:  query.PageSize,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	}
	instructors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
	}
	return instructors, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get fetches a single instructor.
func (s *InstructorService) Get(ctx context.Context, id string) (*models.Instructor, error) {
	instructor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch instructor")
	}
	return instructor, nil
}

// Create registers an instructor. A zero MaxHours falls back to the
// designation's conventional weekly cap.
func (s *InstructorService) Create(ctx context.Context, req dto.CreateInstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor payload")
	}

	maxHours := req.MaxHours
	if maxHours == 0 {
		maxHours = models.DefaultMaxHours(req.Designation)
	}

	instructor := &models.Instructor{
		Name:        req.Name,
		Designation: req.Designation,
		MaxHours:    maxHours,
	}
	if err := s.repo.Create(ctx, instructor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create instructor")
	}
	return instructor, nil
}

// Update modifies an instructor's name, designation, and cap. The workload
// counter is untouched; it only moves with assignment writes.
func (s *InstructorService) Update(ctx context.Context, id string, req dto.UpdateInstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor payload")
	}

	instructor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	instructor.Name = req.Name
	instructor.Designation = req.Designation
	if req.MaxHours > 0 {
		instructor.MaxHours = req.MaxHours
	} else {
		instructor.MaxHours = models.DefaultMaxHours(req.Designation)
	}

	if err := s.repo.Update(ctx, instructor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update instructor")
	}
	return instructor, nil
}

// Delete removes an instructor. Instructors with scheduled assignments are
// refused; regenerate or clear the schedule first.
func (s *InstructorService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	referenced, err := assignmentsReference(ctx, s.assignments, models.AssignmentFilter{InstructorID: id})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check instructor assignments")
	}
	if referenced {
		return appErrors.Clone(appErrors.ErrConflict, "instructor has scheduled assignments")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete instructor")
	}
	return nil
}

func paginationFor(page, pageSize, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
}
