package dto

import "github.com/noah-isme/sma-seating-api/internal/models"

// CreateArrangementRequest creates a new arrangement event for a course.
// AvailablePlaceNumber falls back to the configured default when omitted.
type CreateArrangementRequest struct {
	Name                 string `json:"name" validate:"required"`
	Course               string `json:"course" validate:"required"`
	Teacher              string `json:"teacher" validate:"required"`
	AvailablePlaceNumber int    `json:"available_place_number" validate:"omitempty,min=1"`
}

// ArrangementsByCourse groups arrangements course name → event name, matching
// the contract the dashboard UI consumes.
type ArrangementsByCourse map[string]map[string]models.ArrangementDetail

// CreateConditionRequest stores a placement rule for a course.
type CreateConditionRequest struct {
	Type       models.ConditionType `json:"type" validate:"required"`
	StudentIDs []string             `json:"studentIds" validate:"required,min=1"`
	Priority   int                  `json:"priority"`
}
