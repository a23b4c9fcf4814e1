package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unisched/course-scheduler-api/internal/models"
)

// DepartmentRepository manages persistence for departments and their ordered
// course membership. Course order is stored in department_courses.position and
// is the order the generation engine walks a department's offerings.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository constructs a DepartmentRepository.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

type departmentCourseRow struct {
	DepartmentID string `db:"department_id"`
	CourseID     string `db:"course_id"`
}

// ListAll returns every department in insertion order with course ids
// attached in stored position order.
func (r *DepartmentRepository) ListAll(ctx context.Context) ([]models.Department, error) {
	const query = `SELECT id, name, created_at, updated_at FROM departments ORDER BY created_at ASC, id ASC`
	var departments []models.Department
	if err := r.db.SelectContext(ctx, &departments, query); err != nil {
		return nil, fmt.Errorf("list all departments: %w", err)
	}

	const courseQuery = `SELECT department_id, course_id FROM department_courses ORDER BY department_id ASC, position ASC`
	var rows []departmentCourseRow
	if err := r.db.SelectContext(ctx, &rows, courseQuery); err != nil {
		return nil, fmt.Errorf("list department courses: %w", err)
	}

	byDepartment := make(map[string][]string, len(departments))
	for _, row := range rows {
		byDepartment[row.DepartmentID] = append(byDepartment[row.DepartmentID], row.CourseID)
	}
	for i := range departments {
		departments[i].CourseIDs = byDepartment[departments[i].ID]
	}
	return departments, nil
}

// FindByID fetches a department with its ordered course list.
func (r *DepartmentRepository) FindByID(ctx context.Context, id string) (*models.Department, error) {
	const query = `SELECT id, name, created_at, updated_at FROM departments WHERE id = $1`
	var department models.Department
	if err := r.db.GetContext(ctx, &department, query, id); err != nil {
		return nil, err
	}

	const courseQuery = `SELECT course_id FROM department_courses WHERE department_id = $1 ORDER BY position ASC`
	if err := r.db.SelectContext(ctx, &department.CourseIDs, courseQuery, id); err != nil {
		return nil, fmt.Errorf("list department courses: %w", err)
	}
	return &department, nil
}

// Create inserts a department and its course membership.
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	if department.ID == "" {
		department.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if department.CreatedAt.IsZero() {
		department.CreatedAt = now
	}
	department.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create department: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const query = `INSERT INTO departments (id, name, created_at, updated_at) VALUES (:id, :name, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, department); err != nil {
		return fmt.Errorf("create department: %w", err)
	}
	if err := r.replaceCourses(ctx, tx, department.ID, department.CourseIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// Update modifies a department and replaces its course membership.
func (r *DepartmentRepository) Update(ctx context.Context, department *models.Department) error {
	department.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update department: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const query = `UPDATE departments SET name = :name, updated_at = :updated_at WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, query, department); err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM department_courses WHERE department_id = $1`, department.ID); err != nil {
		return fmt.Errorf("clear department courses: %w", err)
	}
	if err := r.replaceCourses(ctx, tx, department.ID, department.CourseIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a department and its course membership.
func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete department: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM department_courses WHERE department_id = $1`, id); err != nil {
		return fmt.Errorf("clear department courses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM departments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	return tx.Commit()
}

func (r *DepartmentRepository) replaceCourses(ctx context.Context, tx *sqlx.Tx, departmentID string, courseIDs []string) error {
	for position, courseID := range courseIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO department_courses (department_id, course_id, position) VALUES ($1, $2, $3)`,
			departmentID, courseID, position,
		); err != nil {
			return fmt.Errorf("insert department course: %w", err)
		}
	}
	return nil
}
