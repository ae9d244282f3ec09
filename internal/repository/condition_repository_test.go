package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-seating-api/internal/models"
)

func TestConditionRepositoryListByCourse(t *testing.T) {
	db, mock, cleanup := newArrangementMock(t)
	defer cleanup()
	repo := NewConditionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "course_id", "type", "student_ids", "priority", "created_at"}).
		AddRow("cond-1", "course-1", "separate", pq.StringArray{"alice", "bob"}, 9, time.Now()).
		AddRow("cond-2", "course-1", "group", pq.StringArray{"cara", "dave"}, 3, time.Now())
	mock.ExpectQuery("SELECT id, course_id, type, student_ids, priority, created_at").
		WithArgs("course-1").
		WillReturnRows(rows)

	conditions, err := repo.ListByCourse(context.Background(), "course-1")
	require.NoError(t, err)
	require.Len(t, conditions, 2)
	assert.Equal(t, models.ConditionSeparate, conditions[0].Type)
	assert.Equal(t, pq.StringArray{"alice", "bob"}, conditions[0].StudentIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConditionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newArrangementMock(t)
	defer cleanup()
	repo := NewConditionRepository(db)

	mock.ExpectExec("INSERT INTO placement_conditions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	condition := &models.PlacementCondition{
		CourseID:   "course-1",
		Type:       models.ConditionFront,
		StudentIDs: pq.StringArray{"alice"},
		Priority:   5,
	}
	err := repo.Create(context.Background(), condition)
	require.NoError(t, err)
	assert.NotEmpty(t, condition.ID)
	assert.False(t, condition.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConditionRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newArrangementMock(t)
	defer cleanup()
	repo := NewConditionRepository(db)

	mock.ExpectExec("DELETE FROM placement_conditions").
		WithArgs("cond-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), "cond-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
