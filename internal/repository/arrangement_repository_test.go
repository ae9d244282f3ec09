package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-seating-api/internal/models"
)

func newArrangementMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestArrangementRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newArrangementMock(t)
	defer cleanup()
	repo := NewArrangementRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "course_id", "course_name", "teacher_id", "available_place_number", "is_active", "version", "created_at", "updated_at"}).
		AddRow("arr-1", "window arrangement", "course-1", "Mathematics", "teacher-1", 32, true, 2, time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, name, course_id, course_name, teacher_id, available_place_number, is_active, version, created_at, updated_at").
		WithArgs("arr-1").
		WillReturnRows(rows)

	arrangement, err := repo.FindByID(context.Background(), "arr-1")
	require.NoError(t, err)
	assert.Equal(t, "window arrangement", arrangement.Name)
	assert.Equal(t, 32, arrangement.SeatCount)
	assert.Equal(t, 2, arrangement.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArrangementRepositoryCreateDefaults(t *testing.T) {
	db, mock, cleanup := newArrangementMock(t)
	defer cleanup()
	repo := NewArrangementRepository(db)

	mock.ExpectExec("INSERT INTO arrangement_events").
		WillReturnResult(sqlmock.NewResult(1, 1))

	arrangement := &models.Arrangement{Name: "window arrangement", CourseID: "course-1", SeatCount: 32}
	err := repo.Create(context.Background(), arrangement)
	require.NoError(t, err)
	assert.NotEmpty(t, arrangement.ID)
	assert.True(t, arrangement.IsActive)
	assert.Equal(t, 1, arrangement.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArrangementRepositoryPopulateRoster(t *testing.T) {
	db, mock, cleanup := newArrangementMock(t)
	defer cleanup()
	repo := NewArrangementRepository(db)

	mock.ExpectExec("INSERT INTO seating_data").
		WithArgs("arr-1", "course-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 12))

	err := repo.PopulateRoster(context.Background(), "arr-1", "course-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArrangementRepositoryListSeating(t *testing.T) {
	db, mock, cleanup := newArrangementMock(t)
	defer cleanup()
	repo := NewArrangementRepository(db)

	seat := 3
	rows := sqlmock.NewRows([]string{"seating_id", "student_id", "full_name", "image_url", "site_number"}).
		AddRow("row-1", "alice", "Alice", "https://img.example/a.png", seat).
		AddRow("row-2", "bob", "Bob", "", nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT sd.id AS seating_id, sd.student_id, s.full_name, s.image_url, sd.site_number")).
		WithArgs("arr-1").
		WillReturnRows(rows)

	entries, err := repo.ListSeating(context.Background(), "arr-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.NotNil(t, entries[0].SeatNumber)
	assert.Equal(t, 3, *entries[0].SeatNumber)
	assert.Nil(t, entries[1].SeatNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArrangementRepositoryUpdateSeats(t *testing.T) {
	db, mock, cleanup := newArrangementMock(t)
	defer cleanup()
	repo := NewArrangementRepository(db)

	seat := 5
	mock.ExpectExec("UPDATE seating_data SET site_number").
		WithArgs("row-1", &seat, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE seating_data SET site_number").
		WithArgs("row-2", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateSeats(context.Background(), db, []models.SeatUpdate{
		{SeatingID: "row-1", SiteNumber: &seat},
		{SeatingID: "row-2", SiteNumber: nil},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArrangementRepositoryBumpVersion(t *testing.T) {
	db, mock, cleanup := newArrangementMock(t)
	defer cleanup()
	repo := NewArrangementRepository(db)

	mock.ExpectExec("UPDATE arrangement_events SET version").
		WithArgs("arr-1", 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.BumpVersion(context.Background(), db, "arr-1", 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArrangementRepositoryBumpVersionStale(t *testing.T) {
	db, mock, cleanup := newArrangementMock(t)
	defer cleanup()
	repo := NewArrangementRepository(db)

	mock.ExpectExec("UPDATE arrangement_events SET version").
		WithArgs("arr-1", 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.BumpVersion(context.Background(), db, "arr-1", 2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArrangementRepositoryDeactivate(t *testing.T) {
	db, mock, cleanup := newArrangementMock(t)
	defer cleanup()
	repo := NewArrangementRepository(db)

	mock.ExpectExec("UPDATE arrangement_events SET is_active = false").
		WithArgs("arr-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Deactivate(context.Background(), "arr-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArrangementRepositoryListDeactivated(t *testing.T) {
	db, mock, cleanup := newArrangementMock(t)
	defer cleanup()
	repo := NewArrangementRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow("arr-9", "old arrangement")
	mock.ExpectQuery("SELECT id, name FROM arrangement_events WHERE is_active = false").
		WillReturnRows(rows)

	events, err := repo.ListDeactivated(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "old arrangement", events[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
