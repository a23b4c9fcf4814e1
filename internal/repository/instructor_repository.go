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

// InstructorRepository manages persistence for instructors.
type InstructorRepository struct {
	db *sqlx.DB
}

// NewInstructorRepository constructs an InstructorRepository.
func NewInstructorRepository(db *sqlx.DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

const instructorColumns = "id, name, designation, max_hours, current_hours, created_at, updated_at"

// List returns instructors matching filters along with total count.
func (r *InstructorRepository) List(ctx context.Context, filter models.InstructorFilter) ([]models.Instructor, int, error) {
	base := "FROM instructors WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(designation) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	column := sortColumn(filter.SortBy, map[string]string{
		"name":        "name",
		"designation": "designation",
		"max_hours":   "max_hours",
		"created_at":  "created_at",
	}, "created_at")
	order := sortOrder(filter.SortOrder)
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", instructorColumns, base, column, order, limit, offset)
	var instructors []models.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list instructors: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count instructors: %w", err)
	}

	return instructors, total, nil
}

// ListAll returns every instructor in insertion order, the order the
// generation engine walks.
func (r *InstructorRepository) ListAll(ctx context.Context) ([]models.Instructor, error) {
	query := fmt.Sprintf("SELECT %s FROM instructors ORDER BY created_at ASC, id ASC", instructorColumns)
	var instructors []models.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query); err != nil {
		return nil, fmt.Errorf("list all instructors: %w", err)
	}
	return instructors, nil
}

// FindByID fetches an instructor by ID.
func (r *InstructorRepository) FindByID(ctx context.Context, id string) (*models.Instructor, error) {
	query := fmt.Sprintf("SELECT %s FROM instructors WHERE id = $1", instructorColumns)
	var instructor models.Instructor
	if err := r.db.GetContext(ctx, &instructor, query, id); err != nil {
		return nil, err
	}
	return &instructor, nil
}

// Create inserts a new instructor record.
func (r *InstructorRepository) Create(ctx context.Context, instructor *models.Instructor) error {
	if instructor.ID == "" {
		instructor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if instructor.CreatedAt.IsZero() {
		instructor.CreatedAt = now
	}
	instructor.UpdatedAt = now

	const query = `INSERT INTO instructors (id, name, designation, max_hours, current_hours, created_at, updated_at)
		VALUES (:id, :name, :designation, :max_hours, :current_hours, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, instructor); err != nil {
		return fmt.Errorf("create instructor: %w", err)
	}
	return nil
}

// Update modifies an existing instructor record.
func (r *InstructorRepository) Update(ctx context.Context, instructor *models.Instructor) error {
	instructor.UpdatedAt = time.Now().UTC()
	const query = `UPDATE instructors SET name = :name, designation = :designation, max_hours = :max_hours, current_hours = :current_hours, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, instructor); err != nil {
		return fmt.Errorf("update instructor: %w", err)
	}
	return nil
}

// Delete removes an instructor record.
func (r *InstructorRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM instructors WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete instructor: %w", err)
	}
	return nil
}

// ResetAllHours zeroes every instructor's workload counter.
func (r *InstructorRepository) ResetAllHours(ctx context.Context, exec sqlx.ExtContext) error {
	if _, err := exec.ExecContext(ctx, `UPDATE instructors SET current_hours = 0, updated_at = $1`, time.Now().UTC()); err != nil {
		return fmt.Errorf("reset instructor hours: %w", err)
	}
	return nil
}

// SetHours stores the authoritative post-run workload counter for one
// instructor.
func (r *InstructorRepository) SetHours(ctx context.Context, exec sqlx.ExtContext, id string, hours int) error {
	if _, err := exec.ExecContext(ctx, `UPDATE instructors SET current_hours = $2, updated_at = $3 WHERE id = $1`, id, hours, time.Now().UTC()); err != nil {
		return fmt.Errorf("set instructor hours: %w", err)
	}
	return nil
}

// IncrementHours bumps an instructor's workload counter in lockstep with an
// assignment insert or delete.
func (r *InstructorRepository) IncrementHours(ctx context.Context, exec sqlx.ExtContext, id string, delta int) error {
	if _, err := exec.ExecContext(ctx, `UPDATE instructors SET current_hours = current_hours + $2, updated_at = $3 WHERE id = $1`, id, delta, time.Now().UTC()); err != nil {
		return fmt.Errorf("increment instructor hours: %w", err)
	}
	return nil
}
