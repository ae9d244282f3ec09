package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-seating-api/internal/dto"
	"github.com/noah-isme/sma-seating-api/internal/models"
	appErrors "github.com/noah-isme/sma-seating-api/pkg/errors"
)

type arrangementRepoStub struct {
	arrangement   *models.Arrangement
	details       []models.ArrangementDetail
	deactivated   []models.DeactivatedEvent
	created       *models.Arrangement
	rosterCourse  string
	deactivatedID string
	reactivatedID string
}

func (s *arrangementRepoStub) ListByCourse(ctx context.Context, courseID string) ([]models.ArrangementDetail, error) {
	return s.details, nil
}

func (s *arrangementRepoStub) FindByID(ctx context.Context, id string) (*models.Arrangement, error) {
	return s.arrangement, nil
}

func (s *arrangementRepoStub) Create(ctx context.Context, arrangement *models.Arrangement) error {
	arrangement.ID = "arr-new"
	s.created = arrangement
	return nil
}

func (s *arrangementRepoStub) PopulateRoster(ctx context.Context, arrangementID, courseID string) error {
	s.rosterCourse = courseID
	return nil
}

func (s *arrangementRepoStub) Deactivate(ctx context.Context, id string) error {
	s.deactivatedID = id
	return nil
}

func (s *arrangementRepoStub) Reactivate(ctx context.Context, id string) error {
	s.reactivatedID = id
	return nil
}

func (s *arrangementRepoStub) ListDeactivated(ctx context.Context) ([]models.DeactivatedEvent, error) {
	return s.deactivated, nil
}

type conditionRepoStub struct {
	conditions []models.PlacementCondition
	created    *models.PlacementCondition
	deletedID  string
}

func (s *conditionRepoStub) ListByCourse(ctx context.Context, courseID string) ([]models.PlacementCondition, error) {
	return s.conditions, nil
}

func (s *conditionRepoStub) Create(ctx context.Context, condition *models.PlacementCondition) error {
	condition.ID = "cond-new"
	s.created = condition
	return nil
}

func (s *conditionRepoStub) Delete(ctx context.Context, id string) error {
	s.deletedID = id
	return nil
}

type studentRepoStub struct {
	students []models.Student
}

func (s *studentRepoStub) ListByCourse(ctx context.Context, courseID string) ([]models.Student, error) {
	return s.students, nil
}

type evictorStub struct {
	evicted []string
}

func (s *evictorStub) Evict(arrangementID string) {
	s.evicted = append(s.evicted, arrangementID)
}

type arrangementFixture struct {
	service    *ArrangementService
	repo       *arrangementRepoStub
	conditions *conditionRepoStub
	evictor    *evictorStub
}

func newArrangementFixture(t *testing.T) arrangementFixture {
	t.Helper()
	repo := &arrangementRepoStub{
		arrangement: &models.Arrangement{ID: "arr-1", CourseID: "course-1", IsActive: true},
		details: []models.ArrangementDetail{
			{Arrangement: models.Arrangement{ID: "arr-1", Name: "window arrangement", CourseName: "Mathematics"}},
			{Arrangement: models.Arrangement{ID: "arr-2", Name: "exam arrangement", CourseName: "Mathematics"}},
		},
	}
	conditions := &conditionRepoStub{}
	students := &studentRepoStub{students: []models.Student{{ID: "alice", FullName: "Alice"}}}
	evictor := &evictorStub{}
	cache := NewCacheService(nil, nil, 0, nil, false)
	service := NewArrangementService(repo, conditions, students, cache, evictor, nil, nil, ArrangementConfig{DefaultSeatCount: 40, MaxSeatCount: 64})
	return arrangementFixture{service: service, repo: repo, conditions: conditions, evictor: evictor}
}

func TestArrangementListGroupsByCourseAndEvent(t *testing.T) {
	fixture := newArrangementFixture(t)

	grouped, err := fixture.service.ListByCourse(context.Background(), "course-1")
	require.NoError(t, err)

	events, ok := grouped["Mathematics"]
	require.True(t, ok)
	assert.Len(t, events, 2)
	assert.Equal(t, "arr-1", events["window arrangement"].ID)
	assert.Equal(t, "arr-2", events["exam arrangement"].ID)
}

func TestArrangementCreateAppliesSeatDefaults(t *testing.T) {
	fixture := newArrangementFixture(t)

	arrangement, err := fixture.service.Create(context.Background(), dto.CreateArrangementRequest{
		Name:    "window arrangement",
		Course:  "course-1",
		Teacher: "teacher-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 40, arrangement.SeatCount)
	assert.Equal(t, "course-1", fixture.repo.rosterCourse)
}

func TestArrangementCreateRejectsOversizedGrid(t *testing.T) {
	fixture := newArrangementFixture(t)

	_, err := fixture.service.Create(context.Background(), dto.CreateArrangementRequest{
		Name:                 "window arrangement",
		Course:               "course-1",
		Teacher:              "teacher-1",
		AvailablePlaceNumber: 128,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestArrangementDeactivateEvictsSession(t *testing.T) {
	fixture := newArrangementFixture(t)

	err := fixture.service.Deactivate(context.Background(), "arr-1")
	require.NoError(t, err)
	assert.Equal(t, "arr-1", fixture.repo.deactivatedID)
	assert.Equal(t, []string{"arr-1"}, fixture.evictor.evicted)
}

func TestArrangementCreateConditionValidatesType(t *testing.T) {
	fixture := newArrangementFixture(t)

	_, err := fixture.service.CreateCondition(context.Background(), "course-1", dto.CreateConditionRequest{
		Type:       "diagonal",
		StudentIDs: []string{"alice"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestArrangementCreateConditionStoresRule(t *testing.T) {
	fixture := newArrangementFixture(t)

	condition, err := fixture.service.CreateCondition(context.Background(), "course-1", dto.CreateConditionRequest{
		Type:       models.ConditionSeparate,
		StudentIDs: []string{"alice", "bob"},
		Priority:   7,
	})
	require.NoError(t, err)
	assert.Equal(t, "cond-new", condition.ID)
	assert.Equal(t, "course-1", condition.CourseID)
	require.NotNil(t, fixture.conditions.created)
	assert.Equal(t, models.ConditionSeparate, fixture.conditions.created.Type)
}

func TestArrangementListStudents(t *testing.T) {
	fixture := newArrangementFixture(t)

	students, err := fixture.service.ListStudents(context.Background(), "course-1")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Alice", students[0].FullName)
}
