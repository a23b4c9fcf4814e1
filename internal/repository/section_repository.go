package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unisched/course-scheduler-api/internal/models"
)

// SectionRepository manages persistence for sections.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository constructs a SectionRepository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

const sectionColumns = "id, name, department_id, created_at, updated_at"

// ListAll returns every section in insertion order.
func (r *SectionRepository) ListAll(ctx context.Context) ([]models.Section, error) {
	query := fmt.Sprintf("SELECT %s FROM sections ORDER BY created_at ASC, id ASC", sectionColumns)
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, query); err != nil {
		return nil, fmt.Errorf("list all sections: %w", err)
	}
	return sections, nil
}

// FindByID fetches a section by ID.
func (r *SectionRepository) FindByID(ctx context.Context, id string) (*models.Section, error) {
	query := fmt.Sprintf("SELECT %s FROM sections WHERE id = $1", sectionColumns)
	var section models.Section
	if err := r.db.GetContext(ctx, &section, query, id); err != nil {
		return nil, err
	}
	return &section, nil
}

// Create inserts a new section record.
func (r *SectionRepository) Create(ctx context.Context, section *models.Section) error {
	if section.ID == "" {
		section.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if section.CreatedAt.IsZero() {
		section.CreatedAt = now
	}
	section.UpdatedAt = now

	const query = `INSERT INTO sections (id, name, department_id, created_at, updated_at)
		VALUES (:id, :name, :department_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, section); err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	return nil
}

// Update modifies an existing section record.
func (r *SectionRepository) Update(ctx context.Context, section *models.Section) error {
	section.UpdatedAt = time.Now().UTC()
	const query = `UPDATE sections SET name = :name, department_id = :department_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, section); err != nil {
		return fmt.Errorf("update section: %w", err)
	}
	return nil
}

// DeleteWithTx removes a section inside an existing transaction. Callers pair
// this with AssignmentRepository.DeleteBySectionWithTx so a section never
// leaves orphaned assignments behind.
func (r *SectionRepository) DeleteWithTx(ctx context.Context, tx *sqlx.Tx, id string) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return nil
}
