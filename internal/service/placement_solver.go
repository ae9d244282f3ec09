package service

import (
	"math/rand"
	"sort"

	"github.com/noah-isme/sma-seating-api/internal/dto"
	"github.com/noah-isme/sma-seating-api/internal/models"
)

// solverOptions tunes one solver run. RNG must not be shared across runs.
type solverOptions struct {
	FrontSeats int
	BackSeats  int
	RNG        *rand.Rand
}

type solveResult struct {
	Seats    []dto.PlacementSeat
	Unplaced []string
	Stats    dto.PlacementStats
}

// solvePlacement computes a full seat assignment for the roster. Conditions
// are expected pre-sorted by priority; each student is consumed by the first
// condition that seats it. Seat numbers are treated as a 1-D sequence: the
// separate rule only avoids numeric neighbors, not the physical row layout
// of the rendered 8-column grid. Infeasible conditions degrade to random
// placement and seat exhaustion surfaces in Unplaced; the solver never fails.
func solvePlacement(roster []models.RosterEntry, seatCount int, conditions []models.PlacementCondition, opts solverOptions) solveResult {
	state := &placementState{
		available: make([]int, 0, seatCount),
		blocked:   make(map[int]bool),
		names:     make(map[string]string, len(roster)),
		consumed:  make(map[string]bool, len(roster)),
		rng:       opts.RNG,
	}
	for seat := 1; seat <= seatCount; seat++ {
		state.available = append(state.available, seat)
	}
	order := make([]string, 0, len(roster))
	for _, entry := range roster {
		order = append(order, entry.StudentID)
		state.names[entry.StudentID] = entry.FullName
	}

	for _, condition := range conditions {
		members := state.pendingMembers(condition.StudentIDs)
		if len(members) == 0 {
			continue
		}
		before := len(state.placed)
		switch condition.Type {
		case models.ConditionSeparate:
			state.placeSeparate(members)
		case models.ConditionGroup:
			state.placeGroup(members)
		case models.ConditionFront:
			state.placeRestricted(members, func(seat int) bool { return seat <= opts.FrontSeats })
		case models.ConditionBack:
			state.placeRestricted(members, func(seat int) bool { return seat >= seatCount-opts.BackSeats })
		}
		if len(state.placed) > before {
			state.stats.ConditionsApplied++
		}
	}

	// Unconstrained students, and constrained ones whose rule could not seat
	// them, take uniform random remaining seats.
	var unplaced []string
	for _, studentID := range order {
		if state.consumed[studentID] {
			continue
		}
		if seat, ok := state.takeRandom(); ok {
			state.assign(studentID, seat)
			state.stats.RandomlyPlaced++
		} else {
			unplaced = append(unplaced, studentID)
		}
	}

	sort.Slice(state.placed, func(i, j int) bool {
		return state.placed[i].SeatNumber < state.placed[j].SeatNumber
	})
	return solveResult{Seats: state.placed, Unplaced: unplaced, Stats: state.stats}
}

type placementState struct {
	available []int        // sorted ascending
	blocked   map[int]bool // neighbor seats of separate members; only separate avoids these
	placed    []dto.PlacementSeat
	names     map[string]string
	consumed  map[string]bool
	stats     dto.PlacementStats
	rng       *rand.Rand
}

// pendingMembers filters a condition's student list down to roster members not
// yet consumed by a higher-priority condition, keeping the condition's order.
func (s *placementState) pendingMembers(studentIDs []string) []string {
	var members []string
	for _, id := range studentIDs {
		if _, onRoster := s.names[id]; !onRoster {
			continue
		}
		if s.consumed[id] {
			continue
		}
		members = append(members, id)
	}
	return members
}

func (s *placementState) assign(studentID string, seat int) {
	s.placed = append(s.placed, dto.PlacementSeat{
		StudentID:  studentID,
		FullName:   s.names[studentID],
		SeatNumber: seat,
	})
	s.consumed[studentID] = true
}

// placeSeparate seats each member on a random seat whose numeric neighbors
// hold no earlier separate member. Chosen seats' neighbors are only blocked
// for later separate members; they stay available to other conditions and to
// the default fill. Members with no unblocked seat left fall through to the
// default step.
func (s *placementState) placeSeparate(members []string) {
	for _, studentID := range members {
		var candidates []int
		for _, seat := range s.available {
			if !s.blocked[seat] {
				candidates = append(candidates, seat)
			}
		}
		if len(candidates) == 0 {
			return
		}
		seat := candidates[s.rng.Intn(len(candidates))]
		s.assign(studentID, seat)
		s.removeSeat(seat)
		s.blocked[seat-1] = true
		s.blocked[seat+1] = true
	}
}

// placeGroup looks for a contiguous run large enough for the whole group and
// assigns members in order; without such a run every member falls back to an
// independent random seat.
func (s *placementState) placeGroup(members []string) {
	if block, ok := s.findContiguous(len(members)); ok {
		for i, studentID := range members {
			seat := block + i
			s.assign(studentID, seat)
			s.removeSeat(seat)
		}
		return
	}
	s.stats.GroupFallbacks++
	for _, studentID := range members {
		seat, ok := s.takeRandom()
		if !ok {
			return
		}
		s.assign(studentID, seat)
	}
}

// placeRestricted seats members on random seats matching the predicate.
// Members beyond the restricted set's capacity stay pending and fall through
// to the final default step.
func (s *placementState) placeRestricted(members []string, allowed func(int) bool) {
	for _, studentID := range members {
		var candidates []int
		for _, seat := range s.available {
			if allowed(seat) {
				candidates = append(candidates, seat)
			}
		}
		if len(candidates) == 0 {
			return
		}
		seat := candidates[s.rng.Intn(len(candidates))]
		s.assign(studentID, seat)
		s.removeSeat(seat)
	}
}

// findContiguous returns the first seat of a run of at least size consecutive
// available seat numbers.
func (s *placementState) findContiguous(size int) (int, bool) {
	if size <= 0 || len(s.available) < size {
		return 0, false
	}
	runStart := 0
	for i := 1; i <= len(s.available); i++ {
		if i < len(s.available) && s.available[i] == s.available[i-1]+1 {
			continue
		}
		if i-runStart >= size {
			return s.available[runStart], true
		}
		runStart = i
	}
	return 0, false
}

// takeRandom removes and returns a uniformly random available seat.
func (s *placementState) takeRandom() (int, bool) {
	if len(s.available) == 0 {
		return 0, false
	}
	idx := s.rng.Intn(len(s.available))
	seat := s.available[idx]
	s.available = append(s.available[:idx], s.available[idx+1:]...)
	return seat, true
}

func (s *placementState) removeSeat(seat int) {
	idx := sort.SearchInts(s.available, seat)
	if idx < len(s.available) && s.available[idx] == seat {
		s.available = append(s.available[:idx], s.available[idx+1:]...)
	}
}
