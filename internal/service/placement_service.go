package service

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-seating-api/internal/dto"
	"github.com/noah-isme/sma-seating-api/internal/models"
	appErrors "github.com/noah-isme/sma-seating-api/pkg/errors"
)

type placementArrangementReader interface {
	FindByID(ctx context.Context, id string) (*models.Arrangement, error)
	ListSeating(ctx context.Context, arrangementID string) ([]models.RosterEntry, error)
}

type placementConditionReader interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.PlacementCondition, error)
}

type gridApplier interface {
	ApplyAssignment(ctx context.Context, arrangementID string, seats []dto.PlacementSeat) (*dto.GridSnapshot, error)
}

// PlacementService runs the auto-placement solver and stages results as
// proposals until the caller applies them to the grid session.
type PlacementService struct {
	arrangements placementArrangementReader
	conditions   placementConditionReader
	grids        gridApplier
	validator    *validator.Validate
	logger       *zap.Logger
	metrics      *MetricsService
	store        *placementProposalStore
	frontSeats   int
	backSeats    int
}

// PlacementConfig governs solver behaviour.
type PlacementConfig struct {
	ProposalTTL time.Duration
	FrontSeats  int
	BackSeats   int
}

// NewPlacementService wires solver dependencies.
func NewPlacementService(
	arrangements placementArrangementReader,
	conditions placementConditionReader,
	grids gridApplier,
	validate *validator.Validate,
	logger *zap.Logger,
	metrics *MetricsService,
	cfg PlacementConfig,
) *PlacementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ProposalTTL <= 0 {
		cfg.ProposalTTL = 30 * time.Minute
	}
	if cfg.FrontSeats <= 0 {
		cfg.FrontSeats = 8
	}
	if cfg.BackSeats <= 0 {
		cfg.BackSeats = 8
	}
	return &PlacementService{
		arrangements: arrangements,
		conditions:   conditions,
		grids:        grids,
		validator:    validate,
		logger:       logger,
		metrics:      metrics,
		store:        newPlacementProposalStore(cfg.ProposalTTL),
		frontSeats:   cfg.FrontSeats,
		backSeats:    cfg.BackSeats,
	}
}

// Generate runs the solver against the arrangement's full roster and stages
// the result as a proposal. Students the solver cannot seat are reported in
// Unplaced rather than dropped.
func (s *PlacementService) Generate(ctx context.Context, req dto.GeneratePlacementRequest) (*dto.GeneratePlacementResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid placement payload")
	}

	arrangement, err := s.arrangements.FindByID(ctx, req.ArrangementID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "arrangement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load arrangement")
	}
	if !arrangement.IsActive {
		return nil, appErrors.Clone(appErrors.ErrArrangementLocked, "")
	}

	roster, err := s.arrangements.ListSeating(ctx, req.ArrangementID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	conditions, err := s.resolveConditions(ctx, arrangement.CourseID, req.Conditions)
	if err != nil {
		return nil, err
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}
	result := solvePlacement(roster, arrangement.SeatCount, conditions, solverOptions{
		FrontSeats: s.frontSeats,
		BackSeats:  s.backSeats,
		RNG:        rand.New(rand.NewSource(seed)),
	})

	proposal := placementProposal{
		ProposalID:    uuid.NewString(),
		ArrangementID: req.ArrangementID,
		Seats:         result.Seats,
		Unplaced:      result.Unplaced,
		Stats:         result.Stats,
		RequestedAt:   time.Now().UTC(),
	}
	s.store.Save(proposal)
	s.metrics.RecordPlacement(len(result.Unplaced))

	if len(result.Unplaced) > 0 {
		s.logger.Warn("placement left students without seats",
			zap.String("arrangement_id", req.ArrangementID),
			zap.Int("unplaced", len(result.Unplaced)))
	}

	return &dto.GeneratePlacementResponse{
		ProposalID: proposal.ProposalID,
		Seats:      proposal.Seats,
		Unplaced:   proposal.Unplaced,
		Stats:      proposal.Stats,
	}, nil
}

// Apply loads a previewed proposal into the arrangement's grid session.
func (s *PlacementService) Apply(ctx context.Context, req dto.ApplyPlacementRequest) (*dto.GridSnapshot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid apply payload")
	}
	proposal, ok := s.store.Get(req.ProposalID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}
	snapshot, err := s.grids.ApplyAssignment(ctx, proposal.ArrangementID, proposal.Seats)
	if err != nil {
		return nil, err
	}
	s.store.Delete(req.ProposalID)
	return snapshot, nil
}

func (s *PlacementService) resolveConditions(ctx context.Context, courseID string, inline []dto.ConditionInput) ([]models.PlacementCondition, error) {
	if len(inline) > 0 {
		conditions := make([]models.PlacementCondition, 0, len(inline))
		for _, input := range inline {
			if !input.Type.Valid() {
				return nil, appErrors.Clone(appErrors.ErrValidation, "unknown condition type "+string(input.Type))
			}
			conditions = append(conditions, models.PlacementCondition{
				Type:       input.Type,
				StudentIDs: input.StudentIDs,
				Priority:   input.Priority,
			})
		}
		sortConditions(conditions)
		return conditions, nil
	}
	conditions, err := s.conditions.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load placement conditions")
	}
	sortConditions(conditions)
	return conditions, nil
}

// sortConditions orders by priority descending keeping original order for ties.
func sortConditions(conditions []models.PlacementCondition) {
	sort.SliceStable(conditions, func(i, j int) bool {
		return conditions[i].Priority > conditions[j].Priority
	})
}

// --- Proposal cache ---

type placementProposal struct {
	ProposalID    string
	ArrangementID string
	Seats         []dto.PlacementSeat
	Unplaced      []string
	Stats         dto.PlacementStats
	RequestedAt   time.Time
}

type placementProposalStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]placementProposal
}

func newPlacementProposalStore(ttl time.Duration) *placementProposalStore {
	return &placementProposalStore{
		ttl:   ttl,
		items: make(map[string]placementProposal),
	}
}

func (s *placementProposalStore) Save(proposal placementProposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[proposal.ProposalID] = proposal
}

func (s *placementProposalStore) Get(id string) (placementProposal, bool) {
	s.mu.RLock()
	proposal, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return placementProposal{}, false
	}
	if time.Since(proposal.RequestedAt) > s.ttl {
		s.Delete(id)
		return placementProposal{}, false
	}
	return proposal, true
}

func (s *placementProposalStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
