package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-seating-api/internal/dto"
	"github.com/noah-isme/sma-seating-api/internal/models"
	appErrors "github.com/noah-isme/sma-seating-api/pkg/errors"
)

type arrangementRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.ArrangementDetail, error)
	FindByID(ctx context.Context, id string) (*models.Arrangement, error)
	Create(ctx context.Context, arrangement *models.Arrangement) error
	PopulateRoster(ctx context.Context, arrangementID, courseID string) error
	Deactivate(ctx context.Context, id string) error
	Reactivate(ctx context.Context, id string) error
	ListDeactivated(ctx context.Context) ([]models.DeactivatedEvent, error)
}

type conditionRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.PlacementCondition, error)
	Create(ctx context.Context, condition *models.PlacementCondition) error
	Delete(ctx context.Context, id string) error
}

type studentReader interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Student, error)
}

type sessionEvictor interface {
	Evict(arrangementID string)
}

// ArrangementService handles arrangement lifecycle and placement condition
// authoring.
type ArrangementService struct {
	repo             arrangementRepository
	conditions       conditionRepository
	students         studentReader
	cache            *CacheService
	sessions         sessionEvictor
	validator        *validator.Validate
	logger           *zap.Logger
	defaultSeatCount int
	maxSeatCount     int
}

// ArrangementConfig governs defaults applied at creation time.
type ArrangementConfig struct {
	DefaultSeatCount int
	MaxSeatCount     int
}

// NewArrangementService constructs the arrangement service.
func NewArrangementService(
	repo arrangementRepository,
	conditions conditionRepository,
	students studentReader,
	cache *CacheService,
	sessions sessionEvictor,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ArrangementConfig,
) *ArrangementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultSeatCount <= 0 {
		cfg.DefaultSeatCount = 64
	}
	if cfg.MaxSeatCount <= 0 {
		cfg.MaxSeatCount = 256
	}
	return &ArrangementService{
		repo:             repo,
		conditions:       conditions,
		students:         students,
		cache:            cache,
		sessions:         sessions,
		validator:        validate,
		logger:           logger,
		defaultSeatCount: cfg.DefaultSeatCount,
		maxSeatCount:     cfg.MaxSeatCount,
	}
}

// ListByCourse returns active arrangements grouped course name → event name.
func (s *ArrangementService) ListByCourse(ctx context.Context, courseID string) (dto.ArrangementsByCourse, error) {
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course is required")
	}

	cacheKey := arrangementsCacheKey(courseID)
	var cached dto.ArrangementsByCourse
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	details, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list arrangements")
	}

	grouped := make(dto.ArrangementsByCourse)
	for _, detail := range details {
		events, ok := grouped[detail.CourseName]
		if !ok {
			events = make(map[string]models.ArrangementDetail)
			grouped[detail.CourseName] = events
		}
		events[detail.Name] = detail
	}

	s.cache.Set(ctx, cacheKey, grouped)
	return grouped, nil
}

// Create registers a new arrangement event and seeds its roster unseated.
func (s *ArrangementService) Create(ctx context.Context, req dto.CreateArrangementRequest) (*models.Arrangement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid arrangement payload")
	}
	seatCount := req.AvailablePlaceNumber
	if seatCount == 0 {
		seatCount = s.defaultSeatCount
	}
	if seatCount > s.maxSeatCount {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("available_place_number exceeds maximum of %d", s.maxSeatCount))
	}

	arrangement := &models.Arrangement{
		Name:      req.Name,
		CourseID:  req.Course,
		TeacherID: req.Teacher,
		SeatCount: seatCount,
	}
	if err := s.repo.Create(ctx, arrangement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create arrangement")
	}
	if err := s.repo.PopulateRoster(ctx, arrangement.ID, req.Course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed roster")
	}

	s.invalidateCourse(ctx, req.Course)
	return arrangement, nil
}

// Deactivate soft-deletes an arrangement event. The confirmation gate lives
// in the UI; the API applies the change directly.
func (s *ArrangementService) Deactivate(ctx context.Context, id string) error {
	arrangement, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate arrangement")
	}
	s.sessions.Evict(id)
	s.invalidateCourse(ctx, arrangement.CourseID)
	return nil
}

// Reactivate restores a deactivated arrangement event.
func (s *ArrangementService) Reactivate(ctx context.Context, id string) error {
	arrangement, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Reactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reactivate arrangement")
	}
	s.invalidateCourse(ctx, arrangement.CourseID)
	return nil
}

// ListDeactivated returns events recoverable via Reactivate.
func (s *ArrangementService) ListDeactivated(ctx context.Context) ([]models.DeactivatedEvent, error) {
	events, err := s.repo.ListDeactivated(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list deactivated events")
	}
	return events, nil
}

// ListStudents returns the active students enrolled in a course.
func (s *ArrangementService) ListStudents(ctx context.Context, courseID string) ([]models.Student, error) {
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course is required")
	}
	students, err := s.students.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// ListConditions returns a course's saved placement conditions.
func (s *ArrangementService) ListConditions(ctx context.Context, courseID string) ([]models.PlacementCondition, error) {
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course is required")
	}
	conditions, err := s.conditions.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list conditions")
	}
	return conditions, nil
}

// CreateCondition stores a placement rule for a course.
func (s *ArrangementService) CreateCondition(ctx context.Context, courseID string, req dto.CreateConditionRequest) (*models.PlacementCondition, error) {
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid condition payload")
	}
	if !req.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown condition type "+string(req.Type))
	}
	condition := &models.PlacementCondition{
		CourseID:   courseID,
		Type:       req.Type,
		StudentIDs: req.StudentIDs,
		Priority:   req.Priority,
	}
	if err := s.conditions.Create(ctx, condition); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create condition")
	}
	return condition, nil
}

// DeleteCondition removes a placement rule.
func (s *ArrangementService) DeleteCondition(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "condition id is required")
	}
	if err := s.conditions.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete condition")
	}
	return nil
}

func (s *ArrangementService) find(ctx context.Context, id string) (*models.Arrangement, error) {
	arrangement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "arrangement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load arrangement")
	}
	return arrangement, nil
}

func (s *ArrangementService) invalidateCourse(ctx context.Context, courseID string) {
	if err := s.cache.Invalidate(ctx, arrangementsCacheKey(courseID)); err != nil {
		s.logger.Warn("failed to invalidate arrangements cache", zap.String("course_id", courseID), zap.Error(err))
	}
}

func arrangementsCacheKey(courseID string) string {
	return "arrangements:course:" + courseID
}
