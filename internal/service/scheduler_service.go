package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/unisched/course-scheduler-api/internal/dto"
	"github.com/unisched/course-scheduler-api/internal/engine"
	"github.com/unisched/course-scheduler-api/internal/models"
	appErrors "github.com/unisched/course-scheduler-api/pkg/errors"
)

type schedulerSectionRepository interface {
	ListAll(ctx context.Context) ([]models.Section, error)
	FindByID(ctx context.Context, id string) (*models.Section, error)
}

type schedulerDepartmentRepository interface {
	ListAll(ctx context.Context) ([]models.Department, error)
}

type schedulerInstructorRepository interface {
	ListAll(ctx context.Context) ([]models.Instructor, error)
	ResetAllHours(ctx context.Context, exec sqlx.ExtContext) error
	SetHours(ctx context.Context, exec sqlx.ExtContext, id string, hours int) error
	IncrementHours(ctx context.Context, exec sqlx.ExtContext, id string, delta int) error
}

type schedulerCourseRepository interface {
	ListAll(ctx context.Context) ([]models.Course, error)
}

type schedulerRoomRepository interface {
	ListAll(ctx context.Context) ([]models.Room, error)
}

type schedulerTimeSlotRepository interface {
	ListAll(ctx context.Context) ([]models.TimeSlot, error)
}

type schedulerAssignmentRepository interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error)
	ListAll(ctx context.Context) ([]models.Assignment, error)
	CreateWithTx(ctx context.Context, tx *sqlx.Tx, assignment *models.Assignment) error
	BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, assignments []models.Assignment) error
	DeleteAllWithTx(ctx context.Context, tx *sqlx.Tx) error
}

type gridCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

const gridCachePrefix = "schedule:grid:"

// SchedulerRepos bundles the repositories the scheduler orchestrates.
type SchedulerRepos struct {
	Sections    schedulerSectionRepository
	Departments schedulerDepartmentRepository
	Instructors schedulerInstructorRepository
	Courses     schedulerCourseRepository
	Rooms       schedulerRoomRepository
	TimeSlots   schedulerTimeSlotRepository
	Assignments schedulerAssignmentRepository
}

// SchedulerService orchestrates timetable generation, manual placement, grid
// projection, and schedule reset. All writes to the assignment collection are
// serialized through an internal mutex; the engine itself assumes a single
// writer.
type SchedulerService struct {
	db        *sqlx.DB
	repos     SchedulerRepos
	cache     gridCache
	validator *validator.Validate
	logger    *zap.Logger
	gridTTL   time.Duration
	metrics   *MetricsService

	mu sync.Mutex
}

// WithMetrics attaches generation instrumentation.
func (s *SchedulerService) WithMetrics(metrics *MetricsService) *SchedulerService {
	s.metrics = metrics
	return s
}

// NewSchedulerService constructs a SchedulerService.
func NewSchedulerService(db *sqlx.DB, repos SchedulerRepos, cache gridCache, validate *validator.Validate, logger *zap.Logger, gridTTL time.Duration) *SchedulerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if gridTTL <= 0 {
		gridTTL = 5 * time.Minute
	}
	return &SchedulerService{db: db, repos: repos, cache: cache, validator: validate, logger: logger, gridTTL: gridTTL}
}

func (s *SchedulerService) loadSnapshot(ctx context.Context) (engine.Snapshot, error) {
	var snap engine.Snapshot
	var err error

	if snap.Sections, err = s.repos.Sections.ListAll(ctx); err != nil {
		return snap, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sections")
	}
	if snap.Departments, err = s.repos.Departments.ListAll(ctx); err != nil {
		return snap, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load departments")
	}
	if snap.Instructors, err = s.repos.Instructors.ListAll(ctx); err != nil {
		return snap, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructors")
	}
	if snap.Courses, err = s.repos.Courses.ListAll(ctx); err != nil {
		return snap, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	if snap.Rooms, err = s.repos.Rooms.ListAll(ctx); err != nil {
		return snap, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	if snap.TimeSlots, err = s.repos.TimeSlots.ListAll(ctx); err != nil {
		return snap, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time slots")
	}
	return snap, nil
}

// Generate replaces the entire timetable with a freshly generated one. The
// previous assignment collection and all workload counters are wiped and
// rewritten in a single transaction, so a failed run leaves the stored
// schedule untouched.
func (s *SchedulerService) Generate(ctx context.Context) (*dto.GenerateScheduleResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	result, err := engine.Generate(snap)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ObserveGeneration("rejected", time.Since(start), 0)
		}
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.repos.Assignments.DeleteAllWithTx(ctx, tx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear previous schedule")
	}
	if err := s.repos.Assignments.BulkCreateWithTx(ctx, tx, result.Assignments); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store generated schedule")
	}
	if err := s.repos.Instructors.ResetAllHours(ctx, tx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset workload counters")
	}
	for instructorID, hours := range result.InstructorHours {
		if hours == 0 {
			continue
		}
		if err := s.repos.Instructors.SetHours(ctx, tx, instructorID, hours); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store workload counters")
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit schedule")
	}

	s.invalidateGrids(ctx)

	sections := make(map[string]struct{})
	for _, assignment := range result.Assignments {
		sections[assignment.SectionID] = struct{}{}
	}

	s.logger.Info("schedule generated",
		zap.Int("assignments", len(result.Assignments)),
		zap.Int("sections", len(sections)))

	if s.metrics != nil {
		s.metrics.ObserveGeneration("success", time.Since(start), len(result.Assignments))
	}

	return &dto.GenerateScheduleResponse{
		Assignments:     result.Assignments,
		AssignmentCount: len(result.Assignments),
		SectionCount:    len(sections),
		InstructorHours: result.InstructorHours,
	}, nil
}

// AddAssignment validates and stores one manually chosen assignment. Unlike
// generation, a manual placement may exceed room capacity and instructor
// workload caps; only double-booking is rejected.
func (s *SchedulerService) AddAssignment(ctx context.Context, req dto.ManualAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	existing, err := s.repos.Assignments.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}

	candidate := engine.Candidate{
		CourseID:     req.CourseID,
		InstructorID: req.InstructorID,
		RoomID:       req.RoomID,
		TimeSlotID:   req.TimeSlotID,
		SectionID:    req.SectionID,
	}
	created, err := engine.AddManual(candidate, existing, engine.BuildResolvers(snap))
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.repos.Assignments.CreateWithTx(ctx, tx, created); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store assignment")
	}
	if err := s.repos.Instructors.IncrementHours(ctx, tx, created.InstructorID, 1); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update workload counter")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit assignment")
	}

	s.invalidateGrids(ctx)

	return created, nil
}

// Grid projects one section's assignments onto the canonical weekly grid.
// Results are cached per section and invalidated on any schedule write.
func (s *SchedulerService) Grid(ctx context.Context, sectionID string) (*dto.SectionGridResponse, error) {
	if sectionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "section id is required")
	}

	if _, err := s.repos.Sections.FindByID(ctx, sectionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}

	cacheKey := gridCachePrefix + sectionID
	if s.cache != nil {
		var cached dto.SectionGridResponse
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("grid cache read failed", zap.String("section_id", sectionID), zap.Error(err))
		}
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := s.repos.Assignments.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}

	grid := engine.GridForSection(sectionID, assignments, engine.BuildResolvers(snap))
	resp := &dto.SectionGridResponse{
		SectionID: sectionID,
		Days:      models.Days,
		Periods:   models.DefaultPeriods,
		Grid:      grid,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, resp, s.gridTTL); err != nil {
			s.logger.Warn("grid cache write failed", zap.String("section_id", sectionID), zap.Error(err))
		}
	}

	return resp, nil
}

// ListAssignments returns the stored assignment collection with optional
// filtering and pagination.
func (s *SchedulerService) ListAssignments(ctx context.Context, query dto.AssignmentQuery) ([]models.Assignment, *models.Pagination, error) {
	filter := models.AssignmentFilter{
		SectionID:    query.SectionID,
		InstructorID: query.InstructorID,
		RoomID:       query.RoomID,
		CourseID:     query.CourseID,
		TimeSlotID:   query.TimeSlotID,
		Page:         query.Page,
		PageSize:     query.PageSize,
	}
	assignments, total, err := s.repos.Assignments.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}

	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return assignments, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Clear wipes every assignment and zeroes all workload counters in one
// transaction.
func (s *SchedulerService) Clear(ctx context.Context) (*dto.ClearScheduleResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repos.Assignments.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.repos.Assignments.DeleteAllWithTx(ctx, tx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear schedule")
	}
	if err := s.repos.Instructors.ResetAllHours(ctx, tx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset workload counters")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit reset")
	}

	s.invalidateGrids(ctx)

	s.logger.Info("schedule cleared", zap.Int("removed", len(existing)))
	return &dto.ClearScheduleResponse{RemovedCount: len(existing)}, nil
}

func (s *SchedulerService) invalidateGrids(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, gridCachePrefix+"*"); err != nil {
		s.logger.Warn("grid cache invalidation failed", zap.Error(err))
	}
}
