package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-seating-api/internal/dto"
	"github.com/noah-isme/sma-seating-api/internal/models"
	appErrors "github.com/noah-isme/sma-seating-api/pkg/errors"
)

const noSeatSelected = -1

type seatingArrangementRepository interface {
	FindByID(ctx context.Context, id string) (*models.Arrangement, error)
	ListSeating(ctx context.Context, arrangementID string) ([]models.RosterEntry, error)
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	UpdateSeats(ctx context.Context, exec sqlx.ExtContext, updates []models.SeatUpdate) error
	BumpVersion(ctx context.Context, exec sqlx.ExtContext, id string, expected int) (bool, error)
}

// SeatingService owns the per-arrangement grid editing sessions and the
// manual seat interaction state machine.
type SeatingService struct {
	arrangements seatingArrangementRepository
	logger       *zap.Logger
	metrics      *MetricsService
	sessions     *gridSessionStore
}

// SeatingConfig governs session behaviour.
type SeatingConfig struct {
	SessionTTL time.Duration
}

// NewSeatingService constructs the seating service.
func NewSeatingService(arrangements seatingArrangementRepository, logger *zap.Logger, metrics *MetricsService, cfg SeatingConfig) *SeatingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	return &SeatingService{
		arrangements: arrangements,
		logger:       logger,
		metrics:      metrics,
		sessions:     newGridSessionStore(cfg.SessionTTL),
	}
}

// Grid returns the current editing state, loading a session from storage on
// first access.
func (s *SeatingService) Grid(ctx context.Context, arrangementID string) (*dto.GridSnapshot, error) {
	session, err := s.session(ctx, arrangementID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.snapshot(), nil
}

// ClickSeat advances the interaction state machine for a seat-cell click.
func (s *SeatingService) ClickSeat(ctx context.Context, arrangementID string, req dto.SeatClickRequest) (*dto.GridSnapshot, error) {
	session, err := s.session(ctx, arrangementID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if req.Seat < 1 || req.Seat > session.seatCount {
		return nil, appErrors.Clone(appErrors.ErrSeatOutOfRange, "")
	}
	session.clickSeat(req.Seat)
	return session.snapshot(), nil
}

// ClickRoster selects an unseated student from the side roster list.
func (s *SeatingService) ClickRoster(ctx context.Context, arrangementID string, req dto.RosterClickRequest) (*dto.GridSnapshot, error) {
	session, err := s.session(ctx, arrangementID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	student, ok := session.students[req.StudentID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not on roster")
	}
	if student.seat != 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student is already seated")
	}
	session.firstSelectedSeat = noSeatSelected
	session.selectedStudentID = req.StudentID
	return session.snapshot(), nil
}

// DragDrop places a currently-unseated student on a seat, displacing any
// occupant to the unseated list. Equivalent to roster-select then seat-click.
func (s *SeatingService) DragDrop(ctx context.Context, arrangementID string, req dto.DragDropRequest) (*dto.GridSnapshot, error) {
	session, err := s.session(ctx, arrangementID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if req.Seat < 1 || req.Seat > session.seatCount {
		return nil, appErrors.Clone(appErrors.ErrSeatOutOfRange, "")
	}
	student, ok := session.students[req.StudentID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not on roster")
	}
	if student.seat != 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "only unseated students are draggable")
	}
	session.placeStudent(req.StudentID, req.Seat)
	session.resetSelection()
	session.modified = true
	return session.snapshot(), nil
}

// ClearAll unseats every student and returns the machine to idle.
func (s *SeatingService) ClearAll(ctx context.Context, arrangementID string) (*dto.GridSnapshot, error) {
	session, err := s.session(ctx, arrangementID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	for id, student := range session.students {
		student.seat = 0
		session.students[id] = student
	}
	session.seats = make(map[int]string)
	session.resetSelection()
	session.modified = true
	return session.snapshot(), nil
}

// ApplyAssignment replaces the whole assignment with a solver result and
// marks the session modified.
func (s *SeatingService) ApplyAssignment(ctx context.Context, arrangementID string, seats []dto.PlacementSeat) (*dto.GridSnapshot, error) {
	session, err := s.session(ctx, arrangementID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	for id, student := range session.students {
		student.seat = 0
		session.students[id] = student
	}
	session.seats = make(map[int]string)
	for _, placed := range seats {
		if placed.SeatNumber < 1 || placed.SeatNumber > session.seatCount {
			continue
		}
		if _, ok := session.students[placed.StudentID]; !ok {
			continue
		}
		session.placeStudent(placed.StudentID, placed.SeatNumber)
	}
	session.resetSelection()
	session.modified = true
	return session.snapshot(), nil
}

// Save persists the session's assignment. Saves for the same arrangement are
// serialized by the session lock and guarded by the version stamp; the
// modified flag is cleared only after a successful commit.
func (s *SeatingService) Save(ctx context.Context, arrangementID string, req dto.SaveSeatingRequest) (*dto.GridSnapshot, error) {
	session, err := s.session(ctx, arrangementID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if req.Version != 0 && req.Version != session.version {
		s.metrics.RecordSave("stale")
		return nil, appErrors.Clone(appErrors.ErrStaleVersion, "")
	}

	updates := make([]models.SeatUpdate, 0, len(session.students))
	for _, student := range session.students {
		var site *int
		if student.seat != 0 {
			seat := student.seat
			site = &seat
		}
		updates = append(updates, models.SeatUpdate{SeatingID: student.seatingID, SiteNumber: site})
	}
	sort.Slice(updates, func(i, j int) bool { return updates[i].SeatingID < updates[j].SeatingID })

	tx, err := s.arrangements.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin save transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.arrangements.UpdateSeats(ctx, tx, updates); err != nil {
		s.metrics.RecordSave("error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist seat updates")
	}
	ok, bumpErr := s.arrangements.BumpVersion(ctx, tx, arrangementID, session.version)
	if bumpErr != nil {
		err = bumpErr
		s.metrics.RecordSave("error")
		return nil, appErrors.Wrap(bumpErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stamp arrangement version")
	}
	if !ok {
		err = appErrors.Clone(appErrors.ErrStaleVersion, "")
		s.metrics.RecordSave("stale")
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		s.metrics.RecordSave("error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit seat updates")
	}

	session.version++
	session.modified = false
	s.metrics.RecordSave("success")
	return session.snapshot(), nil
}

// Evict drops the in-memory session, forcing a reload on next access.
func (s *SeatingService) Evict(arrangementID string) {
	s.sessions.Delete(arrangementID)
}

func (s *SeatingService) session(ctx context.Context, arrangementID string) (*gridSession, error) {
	if session, ok := s.sessions.Get(arrangementID); ok {
		return session, nil
	}

	arrangement, err := s.arrangements.FindByID(ctx, arrangementID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "arrangement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load arrangement")
	}
	if !arrangement.IsActive {
		return nil, appErrors.Clone(appErrors.ErrArrangementLocked, "")
	}
	roster, err := s.arrangements.ListSeating(ctx, arrangementID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load seating rows")
	}

	session := newGridSession(arrangement, roster)
	s.sessions.Put(arrangementID, session)
	return session, nil
}

// --- Grid session & state machine ---

type gridStudentState struct {
	seatingID string
	fullName  string
	imageURL  string
	seat      int // 0 = unseated
}

type gridSession struct {
	mu sync.Mutex

	arrangementID string
	seatCount     int
	version       int

	seats    map[int]string // seat number -> student id
	students map[string]gridStudentState

	firstSelectedSeat int
	selectedStudentID string
	modified          bool
	loadedAt          time.Time
}

func newGridSession(arrangement *models.Arrangement, roster []models.RosterEntry) *gridSession {
	session := &gridSession{
		arrangementID:     arrangement.ID,
		seatCount:         arrangement.SeatCount,
		version:           arrangement.Version,
		seats:             make(map[int]string, len(roster)),
		students:          make(map[string]gridStudentState, len(roster)),
		firstSelectedSeat: noSeatSelected,
		loadedAt:          time.Now(),
	}
	for _, entry := range roster {
		seat := 0
		if entry.SeatNumber != nil && *entry.SeatNumber >= 1 && *entry.SeatNumber <= arrangement.SeatCount {
			seat = *entry.SeatNumber
		}
		session.students[entry.StudentID] = gridStudentState{
			seatingID: entry.SeatingID,
			fullName:  entry.FullName,
			imageURL:  entry.ImageURL,
			seat:      seat,
		}
		if seat != 0 {
			session.seats[seat] = entry.StudentID
		}
	}
	return session
}

// clickSeat implements the three-mode transition table. The caller holds the
// session lock and has range-checked the seat.
func (session *gridSession) clickSeat(seat int) {
	switch {
	case session.selectedStudentID != "":
		// Roster student takes the seat; any occupant becomes unseated.
		if occupant, occupied := session.seats[seat]; occupied {
			session.unseatStudent(occupant)
		}
		session.placeStudent(session.selectedStudentID, seat)
		session.resetSelection()
		session.modified = true

	case session.firstSelectedSeat != noSeatSelected:
		first := session.firstSelectedSeat
		if seat == first {
			session.resetSelection()
			return
		}
		moving := session.seats[first]
		if occupant, occupied := session.seats[seat]; occupied {
			// Swap the two occupants.
			session.seats[first] = occupant
			session.seats[seat] = moving
			session.setSeat(occupant, first)
			session.setSeat(moving, seat)
		} else {
			delete(session.seats, first)
			session.seats[seat] = moving
			session.setSeat(moving, seat)
		}
		session.resetSelection()
		session.modified = true

	default:
		// Idle: only an occupied seat starts a selection.
		if _, occupied := session.seats[seat]; occupied {
			session.firstSelectedSeat = seat
		}
	}
}

func (session *gridSession) placeStudent(studentID string, seat int) {
	if previous := session.students[studentID].seat; previous != 0 {
		delete(session.seats, previous)
	}
	session.seats[seat] = studentID
	session.setSeat(studentID, seat)
}

func (session *gridSession) unseatStudent(studentID string) {
	if seat := session.students[studentID].seat; seat != 0 {
		delete(session.seats, seat)
	}
	session.setSeat(studentID, 0)
}

func (session *gridSession) setSeat(studentID string, seat int) {
	student := session.students[studentID]
	student.seat = seat
	session.students[studentID] = student
}

func (session *gridSession) resetSelection() {
	session.firstSelectedSeat = noSeatSelected
	session.selectedStudentID = ""
}

func (session *gridSession) snapshot() *dto.GridSnapshot {
	snapshot := &dto.GridSnapshot{
		ArrangementID: session.arrangementID,
		SeatCount:     session.seatCount,
		Version:       session.version,
		Selection: dto.GridSelection{
			FirstSelectedSeat: session.firstSelectedSeat,
			SelectedStudentID: session.selectedStudentID,
		},
		IsModified: session.modified,
	}
	for seat := 1; seat <= session.seatCount; seat++ {
		cell := dto.GridSeat{Seat: seat}
		if studentID, occupied := session.seats[seat]; occupied {
			cell.StudentID = studentID
			cell.FullName = session.students[studentID].fullName
		}
		snapshot.Seats = append(snapshot.Seats, cell)
	}
	for studentID, student := range session.students {
		if student.seat != 0 {
			continue
		}
		snapshot.Unseated = append(snapshot.Unseated, dto.GridStudent{
			StudentID: studentID,
			FullName:  student.fullName,
			ImageURL:  student.imageURL,
		})
	}
	sort.Slice(snapshot.Unseated, func(i, j int) bool {
		return snapshot.Unseated[i].FullName < snapshot.Unseated[j].FullName
	})
	return snapshot
}

// --- Session store ---

type gridSessionStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]*gridSession
}

func newGridSessionStore(ttl time.Duration) *gridSessionStore {
	return &gridSessionStore{
		ttl:   ttl,
		items: make(map[string]*gridSession),
	}
}

func (s *gridSessionStore) Get(id string) (*gridSession, bool) {
	s.mu.RLock()
	session, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Since(session.loadedAt) > s.ttl {
		s.Delete(id)
		return nil, false
	}
	return session, true
}

func (s *gridSessionStore) Put(id string, session *gridSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = session
}

func (s *gridSessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
