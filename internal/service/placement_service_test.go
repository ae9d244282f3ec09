package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-seating-api/internal/dto"
	"github.com/noah-isme/sma-seating-api/internal/models"
	appErrors "github.com/noah-isme/sma-seating-api/pkg/errors"
)

type placementRepoStub struct {
	arrangement *models.Arrangement
	roster      []models.RosterEntry
	conditions  []models.PlacementCondition
}

func (s *placementRepoStub) FindByID(ctx context.Context, id string) (*models.Arrangement, error) {
	return s.arrangement, nil
}

func (s *placementRepoStub) ListSeating(ctx context.Context, arrangementID string) ([]models.RosterEntry, error) {
	return s.roster, nil
}

func (s *placementRepoStub) ListByCourse(ctx context.Context, courseID string) ([]models.PlacementCondition, error) {
	return s.conditions, nil
}

type gridApplierStub struct {
	arrangementID string
	seats         []dto.PlacementSeat
}

func (s *gridApplierStub) ApplyAssignment(ctx context.Context, arrangementID string, seats []dto.PlacementSeat) (*dto.GridSnapshot, error) {
	s.arrangementID = arrangementID
	s.seats = seats
	return &dto.GridSnapshot{ArrangementID: arrangementID, IsModified: true}, nil
}

func newPlacementFixture(t *testing.T) (*PlacementService, *placementRepoStub, *gridApplierStub) {
	t.Helper()
	repo := &placementRepoStub{
		arrangement: &models.Arrangement{
			ID:        "arr-1",
			CourseID:  "course-1",
			SeatCount: 16,
			IsActive:  true,
			Version:   1,
		},
		roster: []models.RosterEntry{
			{StudentID: "alice", FullName: "Alice"},
			{StudentID: "bob", FullName: "Bob"},
			{StudentID: "cara", FullName: "Cara"},
			{StudentID: "dave", FullName: "Dave"},
		},
	}
	grids := &gridApplierStub{}
	service := NewPlacementService(repo, repo, grids, nil, nil, nil, PlacementConfig{})
	return service, repo, grids
}

func seedPtr(v int64) *int64 { return &v }

func TestPlacementGenerateSeatsWholeRoster(t *testing.T) {
	service, _, _ := newPlacementFixture(t)

	resp, err := service.Generate(context.Background(), dto.GeneratePlacementRequest{
		ArrangementID: "arr-1",
		Seed:          seedPtr(99),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ProposalID)
	assert.Len(t, resp.Seats, 4)
	assert.Empty(t, resp.Unplaced)
	assert.Equal(t, 4, resp.Stats.RandomlyPlaced)
}

func TestPlacementGenerateDeterministicWithSeed(t *testing.T) {
	service, _, _ := newPlacementFixture(t)
	req := dto.GeneratePlacementRequest{ArrangementID: "arr-1", Seed: seedPtr(7)}

	first, err := service.Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := service.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Seats, second.Seats)
	assert.NotEqual(t, first.ProposalID, second.ProposalID)
}

func TestPlacementGenerateInactiveArrangement(t *testing.T) {
	service, repo, _ := newPlacementFixture(t)
	repo.arrangement.IsActive = false

	_, err := service.Generate(context.Background(), dto.GeneratePlacementRequest{ArrangementID: "arr-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrArrangementLocked.Code, appErrors.FromError(err).Code)
}

func TestPlacementGenerateInlineConditionsOverrideStored(t *testing.T) {
	service, repo, _ := newPlacementFixture(t)
	// Stored condition would pin alice to the back; the inline one wins.
	repo.conditions = []models.PlacementCondition{
		{Type: models.ConditionBack, StudentIDs: []string{"alice"}, Priority: 9},
	}

	resp, err := service.Generate(context.Background(), dto.GeneratePlacementRequest{
		ArrangementID: "arr-1",
		Seed:          seedPtr(5),
		Conditions: []dto.ConditionInput{
			{Type: models.ConditionFront, StudentIDs: []string{"alice"}, Priority: 1},
		},
	})
	require.NoError(t, err)

	for _, seat := range resp.Seats {
		if seat.StudentID == "alice" {
			assert.LessOrEqual(t, seat.SeatNumber, 8)
		}
	}
	assert.Equal(t, 1, resp.Stats.ConditionsApplied)
}

func TestPlacementGenerateRejectsUnknownConditionType(t *testing.T) {
	service, _, _ := newPlacementFixture(t)

	_, err := service.Generate(context.Background(), dto.GeneratePlacementRequest{
		ArrangementID: "arr-1",
		Conditions: []dto.ConditionInput{
			{Type: "diagonal", StudentIDs: []string{"alice"}},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPlacementApplyConsumesProposal(t *testing.T) {
	service, _, grids := newPlacementFixture(t)

	resp, err := service.Generate(context.Background(), dto.GeneratePlacementRequest{
		ArrangementID: "arr-1",
		Seed:          seedPtr(11),
	})
	require.NoError(t, err)

	snapshot, err := service.Apply(context.Background(), dto.ApplyPlacementRequest{ProposalID: resp.ProposalID})
	require.NoError(t, err)
	assert.True(t, snapshot.IsModified)
	assert.Equal(t, "arr-1", grids.arrangementID)
	assert.Equal(t, resp.Seats, grids.seats)

	_, err = service.Apply(context.Background(), dto.ApplyPlacementRequest{ProposalID: resp.ProposalID})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPlacementProposalExpires(t *testing.T) {
	store := newPlacementProposalStore(10 * time.Millisecond)
	store.Save(placementProposal{
		ProposalID:  "p-1",
		RequestedAt: time.Now().Add(-time.Minute),
	})

	_, ok := store.Get("p-1")
	assert.False(t, ok)
}
