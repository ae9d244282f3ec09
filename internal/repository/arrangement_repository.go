package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-seating-api/internal/models"
)

// ArrangementRepository manages persistence for arrangement events and their
// seating rows.
type ArrangementRepository struct {
	db *sqlx.DB
}

// NewArrangementRepository constructs an ArrangementRepository.
func NewArrangementRepository(db *sqlx.DB) *ArrangementRepository {
	return &ArrangementRepository{db: db}
}

// BeginTxx starts a transaction; services own commit and rollback.
func (r *ArrangementRepository) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, opts)
}

// ListByCourse returns active arrangements for a course with seating rows attached.
func (r *ArrangementRepository) ListByCourse(ctx context.Context, courseID string) ([]models.ArrangementDetail, error) {
	const query = `SELECT id, name, course_id, course_name, teacher_id, available_place_number, is_active, version, created_at, updated_at
        FROM arrangement_events WHERE course_id = $1 AND is_active = true ORDER BY created_at`
	var arrangements []models.Arrangement
	if err := r.db.SelectContext(ctx, &arrangements, query, courseID); err != nil {
		return nil, fmt.Errorf("list arrangements: %w", err)
	}

	details := make([]models.ArrangementDetail, 0, len(arrangements))
	for _, arrangement := range arrangements {
		seating, err := r.ListSeating(ctx, arrangement.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, models.ArrangementDetail{Arrangement: arrangement, SeatingData: seating})
	}
	return details, nil
}

// FindByID fetches one arrangement event.
func (r *ArrangementRepository) FindByID(ctx context.Context, id string) (*models.Arrangement, error) {
	const query = `SELECT id, name, course_id, course_name, teacher_id, available_place_number, is_active, version, created_at, updated_at
        FROM arrangement_events WHERE id = $1`
	var arrangement models.Arrangement
	if err := r.db.GetContext(ctx, &arrangement, query, id); err != nil {
		return nil, err
	}
	return &arrangement, nil
}

// Create inserts a new arrangement event.
func (r *ArrangementRepository) Create(ctx context.Context, arrangement *models.Arrangement) error {
	if arrangement.ID == "" {
		arrangement.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if arrangement.CreatedAt.IsZero() {
		arrangement.CreatedAt = now
	}
	arrangement.UpdatedAt = now
	arrangement.IsActive = true
	if arrangement.Version == 0 {
		arrangement.Version = 1
	}
	const query = `INSERT INTO arrangement_events (id, name, course_id, course_name, teacher_id, available_place_number, is_active, version, created_at, updated_at)
        VALUES (:id, :name, :course_id, :course_name, :teacher_id, :available_place_number, :is_active, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, arrangement); err != nil {
		return fmt.Errorf("create arrangement: %w", err)
	}
	return nil
}

// PopulateRoster seeds one unseated seating row per student enrolled in the course.
func (r *ArrangementRepository) PopulateRoster(ctx context.Context, arrangementID, courseID string) error {
	const query = `INSERT INTO seating_data (id, arrangement_id, student_id, site_number, created_at, updated_at)
        SELECT gen_random_uuid(), $1, e.student_id, NULL, $3, $3
        FROM enrollments e WHERE e.course_id = $2`
	if _, err := r.db.ExecContext(ctx, query, arrangementID, courseID, time.Now().UTC()); err != nil {
		return fmt.Errorf("populate roster: %w", err)
	}
	return nil
}

// ListSeating returns seating rows for an arrangement joined with student info.
func (r *ArrangementRepository) ListSeating(ctx context.Context, arrangementID string) ([]models.RosterEntry, error) {
	const query = `SELECT sd.id AS seating_id, sd.student_id, s.full_name, s.image_url, sd.site_number
        FROM seating_data sd JOIN students s ON s.id = sd.student_id
        WHERE sd.arrangement_id = $1 ORDER BY s.full_name`
	var entries []models.RosterEntry
	if err := r.db.SelectContext(ctx, &entries, query, arrangementID); err != nil {
		return nil, fmt.Errorf("list seating: %w", err)
	}
	return entries, nil
}

// UpdateSeats applies the provided seat numbers inside the caller's transaction.
func (r *ArrangementRepository) UpdateSeats(ctx context.Context, exec sqlx.ExtContext, updates []models.SeatUpdate) error {
	const query = `UPDATE seating_data SET site_number = $2, updated_at = $3 WHERE id = $1`
	now := time.Now().UTC()
	for _, update := range updates {
		if _, err := exec.ExecContext(ctx, query, update.SeatingID, update.SiteNumber, now); err != nil {
			return fmt.Errorf("update seat %s: %w", update.SeatingID, err)
		}
	}
	return nil
}

// BumpVersion advances the optimistic-concurrency stamp. It returns false when
// the expected version no longer matches.
func (r *ArrangementRepository) BumpVersion(ctx context.Context, exec sqlx.ExtContext, id string, expected int) (bool, error) {
	const query = `UPDATE arrangement_events SET version = version + 1, updated_at = $3 WHERE id = $1 AND version = $2`
	result, err := exec.ExecContext(ctx, query, id, expected, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("bump arrangement version: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("bump arrangement version: %w", err)
	}
	return affected == 1, nil
}

// Deactivate soft-deletes an arrangement event.
func (r *ArrangementRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE arrangement_events SET is_active = false, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate arrangement: %w", err)
	}
	return nil
}

// Reactivate restores a soft-deleted arrangement event.
func (r *ArrangementRepository) Reactivate(ctx context.Context, id string) error {
	const query = `UPDATE arrangement_events SET is_active = true, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("reactivate arrangement: %w", err)
	}
	return nil
}

// ListDeactivated returns soft-deleted events available for recovery.
func (r *ArrangementRepository) ListDeactivated(ctx context.Context) ([]models.DeactivatedEvent, error) {
	const query = `SELECT id, name FROM arrangement_events WHERE is_active = false ORDER BY updated_at DESC`
	var events []models.DeactivatedEvent
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("list deactivated events: %w", err)
	}
	return events, nil
}
