package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/unisched/course-scheduler-api/internal/dto"
	"github.com/unisched/course-scheduler-api/internal/models"
	appErrors "github.com/unisched/course-scheduler-api/pkg/errors"
)

type timeSlotRepository interface {
	ListAll(ctx context.Context) ([]models.TimeSlot, error)
	FindByID(ctx context.Context, id string) (*models.TimeSlot, error)
	Create(ctx context.Context, slot *models.TimeSlot) error
	Delete(ctx context.Context, id string) error
}

// TimeSlotService provides time slot management use cases.
type TimeSlotService struct {
	repo        timeSlotRepository
	assignments assignmentGuard
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewTimeSlotService constructs a TimeSlotService.
func NewTimeSlotService(repo timeSlotRepository, validate *validator.Validate, logger *zap.Logger) *TimeSlotService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeSlotService{repo: repo, validator: validate, logger: logger}
}

// WithAssignmentGuard makes Delete refuse time slots the timetable still
// references.
func (s *TimeSlotService) WithAssignmentGuard(guard assignmentGuard) *TimeSlotService {
	s.assignments = guard
	return s
}

// List returns all time slots in insertion order.
func (s *TimeSlotService) List(ctx context.Context) ([]models.TimeSlot, error) {
	slots, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list time slots")
	}
	return slots, nil
}

// Get fetches a single time slot.
func (s *TimeSlotService) Get(ctx context.Context, id string) (*models.TimeSlot, error) {
	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "time slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch time slot")
	}
	return slot, nil
}

// Create registers a schedulable period. The day must belong to the
// canonical teaching week; slots on other days would never surface in any
// section grid.
func (s *TimeSlotService) Create(ctx context.Context, req dto.CreateTimeSlotRequest) (*models.TimeSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time slot payload")
	}
	if !lo.Contains(models.Days, req.Day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "day must be a weekday between Monday and Friday")
	}

	slot := &models.TimeSlot{Day: req.Day, StartTime: req.StartTime, EndTime: req.EndTime}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create time slot")
	}
	return slot, nil
}

// Delete removes a time slot. Slots with scheduled assignments are refused.
func (s *TimeSlotService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	referenced, err := assignmentsReference(ctx, s.assignments, models.AssignmentFilter{TimeSlotID: id})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check time slot assignments")
	}
	if referenced {
		return appErrors.Clone(appErrors.ErrConflict, "time slot has scheduled assignments")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete time slot")
	}
	return nil
}
