package dto

import "github.com/noah-isme/sma-seating-api/internal/models"

// ConditionInput is an inline placement rule supplied with a generate request.
type ConditionInput struct {
	Type       models.ConditionType `json:"type" validate:"required"`
	StudentIDs []string             `json:"studentIds" validate:"required,min=1"`
	Priority   int                  `json:"priority"`
}

// GeneratePlacementRequest asks the solver for a full seat assignment.
// When Conditions is empty the course's saved conditions are used.
// Seed pins the random source for reproducible output.
type GeneratePlacementRequest struct {
	ArrangementID string           `json:"arrangementId" validate:"required"`
	Conditions    []ConditionInput `json:"conditions" validate:"omitempty,max=64,dive"`
	Seed          *int64           `json:"seed"`
}

// PlacementSeat is one assigned student-seat pair.
type PlacementSeat struct {
	StudentID  string `json:"studentId"`
	FullName   string `json:"fullName,omitempty"`
	SeatNumber int    `json:"seatNumber"`
}

// PlacementStats summarises solver behaviour for the proposal.
type PlacementStats struct {
	ConditionsApplied int `json:"conditionsApplied"`
	GroupFallbacks    int `json:"groupFallbacks"`
	RandomlyPlaced    int `json:"randomlyPlaced"`
}

// GeneratePlacementResponse previews a solver run. Unplaced lists students the
// solver could not seat instead of dropping them silently.
type GeneratePlacementResponse struct {
	ProposalID string          `json:"proposalId"`
	Seats      []PlacementSeat `json:"seats"`
	Unplaced   []string        `json:"unplaced"`
	Stats      PlacementStats  `json:"stats"`
}

// ApplyPlacementRequest loads a previewed proposal into the grid session.
type ApplyPlacementRequest struct {
	ProposalID string `json:"proposalId" validate:"required"`
}
