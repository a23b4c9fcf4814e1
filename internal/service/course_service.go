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

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type courseInstructorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
}

// CourseService provides course management use cases.
type CourseService struct {
	repo        courseRepository
	instructors courseInstructorRepository
	assignments assignmentGuard
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, instructors courseInstructorRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, instructors: instructors, validator: validate, logger: logger}
}

// WithAssignmentGuard makes Delete refuse courses the timetable still
// references.
func (s *CourseService) WithAssignmentGuard(guard assignmentGuard) *CourseService {
	s.assignments = guard
	return s
}

// List returns courses matching the query.
func (s *CourseService) List(ctx context.Context, query dto.ListQuery) ([]models.Course, *models.Pagination, error) {
	filter := models.CourseFilter{
		Search:    query.Search,
		Page:      query.Page,
		PageSize:  query.PageSize,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	}
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get fetches a single course.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch course")
	}
	return course, nil
}

func (s *CourseService) checkInstructor(ctx context.Context, id string) error {
	if _, err := s.instructors.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "instructor does not exist")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify instructor")
	}
	return nil
}

// Create registers a course offering bound to an existing instructor.
func (s *CourseService) Create(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if err := s.checkInstructor(ctx, req.InstructorID); err != nil {
		return nil, err
	}

	course := &models.Course{
		Code:         req.Code,
		Name:         req.Name,
		MaxStudents:  req.MaxStudents,
		InstructorID: req.InstructorID,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// Update modifies a course offering.
func (s *CourseService) Update(ctx context.Context, id string, req dto.UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkInstructor(ctx, req.InstructorID); err != nil {
		return nil, err
	}

	course.Code = req.Code
	course.Name = req.Name
	course.MaxStudents = req.MaxStudents
	course.InstructorID = req.InstructorID

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return course, nil
}

// Delete removes a course. Courses with scheduled assignments are refused.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	referenced, err := assignmentsReference(ctx, s.assignments, models.AssignmentFilter{CourseID: id})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course assignments")
	}
	if referenced {
		return appErrors.Clone(appErrors.ErrConflict, "course has scheduled assignments")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	return nil
}
