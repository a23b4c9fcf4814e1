package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/unisched/course-scheduler-api/internal/dto"
	"github.com/unisched/course-scheduler-api/internal/models"
	appErrors "github.com/unisched/course-scheduler-api/pkg/errors"
)

type sectionRepository interface {
	ListAll(ctx context.Context) ([]models.Section, error)
	FindByID(ctx context.Context, id string) (*models.Section, error)
	Create(ctx context.Context, section *models.Section) error
	Update(ctx context.Context, section *models.Section) error
	DeleteWithTx(ctx context.Context, tx *sqlx.Tx, id string) error
}

type sectionDepartmentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Department, error)
}

type sectionAssignmentRepository interface {
	ListAll(ctx context.Context) ([]models.Assignment, error)
	DeleteBySectionWithTx(ctx context.Context, tx *sqlx.Tx, sectionID string) error
}

type sectionInstructorRepository interface {
	IncrementHours(ctx context.Context, exec sqlx.ExtContext, id string, delta int) error
}

// SectionService provides section management use cases. Sections own their
// assignments: deleting a section removes them and gives the affected
// instructors their hours back.
type SectionService struct {
	db          *sqlx.DB
	repo        sectionRepository
	departments sectionDepartmentRepository
	assignments sectionAssignmentRepository
	instructors sectionInstructorRepository
	cache       gridCache
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSectionService constructs a SectionService.
func NewSectionService(db *sqlx.DB, repo sectionRepository, departments sectionDepartmentRepository, assignments sectionAssignmentRepository, instructors sectionInstructorRepository, cache gridCache, validate *validator.Validate, logger *zap.Logger) *SectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SectionService{
		db:          db,
		repo:        repo,
		departments: departments,
		assignments: assignments,
		instructors: instructors,
		cache:       cache,
		validator:   validate,
		logger:      logger,
	}
}

// List returns all sections.
func (s *SectionService) List(ctx context.Context) ([]models.Section, error) {
	sections, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}
	return sections, nil
}

// Get fetches a single section.
func (s *SectionService) Get(ctx context.Context, id string) (*models.Section, error) {
	section, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch section")
	}
	return section, nil
}

func (s *SectionService) checkDepartment(ctx context.Context, id string) error {
	if _, err := s.departments.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "department does not exist")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify department")
	}
	return nil
}

// Create registers a section under an existing department.
func (s *SectionService) Create(ctx context.Context, req dto.CreateSectionRequest) (*models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}

	section := &models.Section{Name: req.Name, DepartmentID: req.DepartmentID}
	if err := s.repo.Create(ctx, section); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create section")
	}
	return section, nil
}

// Update modifies a section.
func (s *SectionService) Update(ctx context.Context, id string, req dto.UpdateSectionRequest) (*models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}

	section, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}

	section.Name = req.Name
	section.DepartmentID = req.DepartmentID

	if err := s.repo.Update(ctx, section); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update section")
	}
	return section, nil
}

// Delete removes a section together with its assignments, returning each
// freed hour to the owning instructor's counter.
func (s *SectionService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	all, err := s.assignments.ListAll(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	freed := make(map[string]int)
	for _, assignment := range all {
		if assignment.SectionID == id {
			freed[assignment.InstructorID]++
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.assignments.DeleteBySectionWithTx(ctx, tx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete section assignments")
	}
	for instructorID, hours := range freed {
		if err := s.instructors.IncrementHours(ctx, tx, instructorID, -hours); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to return instructor hours")
		}
	}
	if err := s.repo.DeleteWithTx(ctx, tx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete section")
	}
	if err := tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit section delete")
	}

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, gridCachePrefix+"*"); err != nil {
			s.logger.Warn("grid cache invalidation failed", zap.Error(err))
		}
	}

	return nil
}
