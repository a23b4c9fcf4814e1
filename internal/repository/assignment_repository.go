package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unisched/course-scheduler-api/internal/models"
)

// AssignmentRepository provides persistence for timetable assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentColumns = "id, course_id, instructor_id, room_id, time_slot_id, section_id, created_at"

// List returns assignments with optional filtering and pagination.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error) {
	base := "FROM assignments WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.SectionID != "" {
		conditions = append(conditions, fmt.Sprintf("section_id = $%d", len(args)+1))
		args = append(args, filter.SectionID)
	}
	if filter.InstructorID != "" {
		conditions = append(conditions, fmt.Sprintf("instructor_id = $%d", len(args)+1))
		args = append(args, filter.InstructorID)
	}
	if filter.RoomID != "" {
		conditions = append(conditions, fmt.Sprintf("room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.TimeSlotID != "" {
		conditions = append(conditions, fmt.Sprintf("time_slot_id = $%d", len(args)+1))
		args = append(args, filter.TimeSlotID)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	limit, offset := pageBounds(filter.Page, filter.PageSize)
	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at ASC, id ASC LIMIT %d OFFSET %d", assignmentColumns, base, limit, offset)
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count assignments: %w", err)
	}

	return assignments, total, nil
}

// ListAll returns the full assignment collection in insertion order.
func (r *AssignmentRepository) ListAll(ctx context.Context) ([]models.Assignment, error) {
	query := fmt.Sprintf("SELECT %s FROM assignments ORDER BY created_at ASC, id ASC", assignmentColumns)
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query); err != nil {
		return nil, fmt.Errorf("list all assignments: %w", err)
	}
	return assignments, nil
}

// CreateWithTx inserts a single assignment using an existing transaction.
func (r *AssignmentRepository) CreateWithTx(ctx context.Context, tx *sqlx.Tx, assignment *models.Assignment) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	return r.bulkInsert(ctx, tx, []models.Assignment{*assignment})
}

// BulkCreateWithTx inserts assignments using an existing transaction.
func (r *AssignmentRepository) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, assignments []models.Assignment) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	return r.bulkInsert(ctx, tx, assignments)
}

func (r *AssignmentRepository) bulkInsert(ctx context.Context, exec sqlx.ExtContext, assignments []models.Assignment) error {
	now := time.Now().UTC()
	for i := range assignments {
		payload := assignments[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}

		if _, err := sqlx.NamedExecContext(ctx, exec, `INSERT INTO assignments (id, course_id, instructor_id, room_id, time_slot_id, section_id, created_at) VALUES (:id, :course_id, :instructor_id, :room_id, :time_slot_id, :section_id, :created_at)`, &payload); err != nil {
			return fmt.Errorf("bulk insert assignment: %w", err)
		}
		assignments[i] = payload
	}
	return nil
}

// DeleteAllWithTx removes the entire assignment collection.
func (r *AssignmentRepository) DeleteAllWithTx(ctx context.Context, tx *sqlx.Tx) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments`); err != nil {
		return fmt.Errorf("delete all assignments: %w", err)
	}
	return nil
}

// DeleteBySectionWithTx removes every assignment owned by one section.
func (r *AssignmentRepository) DeleteBySectionWithTx(ctx context.Context, tx *sqlx.Tx, sectionID string) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE section_id = $1`, sectionID); err != nil {
		return fmt.Errorf("delete section assignments: %w", err)
	}
	return nil
}
