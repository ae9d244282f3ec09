package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-seating-api/internal/models"
)

// ConditionRepository manages persistence for placement conditions.
type ConditionRepository struct {
	db *sqlx.DB
}

// NewConditionRepository constructs a ConditionRepository.
func NewConditionRepository(db *sqlx.DB) *ConditionRepository {
	return &ConditionRepository{db: db}
}

// ListByCourse returns conditions ordered by priority descending, creation
// order breaking ties. The solver relies on this ordering.
func (r *ConditionRepository) ListByCourse(ctx context.Context, courseID string) ([]models.PlacementCondition, error) {
	const query = `SELECT id, course_id, type, student_ids, priority, created_at
        FROM placement_conditions WHERE course_id = $1 ORDER BY priority DESC, created_at`
	var conditions []models.PlacementCondition
	if err := r.db.SelectContext(ctx, &conditions, query, courseID); err != nil {
		return nil, fmt.Errorf("list conditions: %w", err)
	}
	return conditions, nil
}

// Create stores a new placement condition.
func (r *ConditionRepository) Create(ctx context.Context, condition *models.PlacementCondition) error {
	if condition.ID == "" {
		condition.ID = uuid.NewString()
	}
	if condition.CreatedAt.IsZero() {
		condition.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO placement_conditions (id, course_id, type, student_ids, priority, created_at)
        VALUES (:id, :course_id, :type, :student_ids, :priority, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, condition); err != nil {
		return fmt.Errorf("create condition: %w", err)
	}
	return nil
}

// Delete removes a placement condition.
func (r *ConditionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM placement_conditions WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete condition: %w", err)
	}
	return nil
}
