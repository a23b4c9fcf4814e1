package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unisched/course-scheduler-api/internal/models"
)

// TimeSlotRepository manages persistence for time slots.
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository constructs a TimeSlotRepository.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

const timeSlotColumns = "id, day, start_time, end_time, created_at"

// ListAll returns every time slot in insertion order, the search order of the
// generation engine's outer loop.
func (r *TimeSlotRepository) ListAll(ctx context.Context) ([]models.TimeSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM time_slots ORDER BY created_at ASC, id ASC", timeSlotColumns)
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list all time slots: %w", err)
	}
	return slots, nil
}

// FindByID fetches a time slot by ID.
func (r *TimeSlotRepository) FindByID(ctx context.Context, id string) (*models.TimeSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM time_slots WHERE id = $1", timeSlotColumns)
	var slot models.TimeSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create inserts a new time slot record.
func (r *TimeSlotRepository) Create(ctx context.Context, slot *models.TimeSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO time_slots (id, day, start_time, end_time, created_at)
		VALUES (:id, :day, :start_time, :end_time, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create time slot: %w", err)
	}
	return nil
}

// Delete removes a time slot record.
func (r *TimeSlotRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM time_slots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete time slot: %w", err)
	}
	return nil
}
