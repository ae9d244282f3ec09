package models

import (
	"time"

	"github.com/lib/pq"
)

// ConditionType enumerates supported placement rules.
type ConditionType string

const (
	ConditionSeparate ConditionType = "separate"
	ConditionGroup    ConditionType = "group"
	ConditionFront    ConditionType = "front"
	ConditionBack     ConditionType = "back"
)

// Valid reports whether the type is one of the known rules.
func (t ConditionType) Valid() bool {
	switch t {
	case ConditionSeparate, ConditionGroup, ConditionFront, ConditionBack:
		return true
	}
	return false
}

// PlacementCondition is a user-authored rule guiding automatic seat
// assignment. Higher priority conditions are applied first; student IDs
// not present on the roster are ignored.
type PlacementCondition struct {
	ID         string         `db:"id" json:"id"`
	CourseID   string         `db:"course_id" json:"course_id"`
	Type       ConditionType  `db:"type" json:"type"`
	StudentIDs pq.StringArray `db:"student_ids" json:"student_ids"`
	Priority   int            `db:"priority" json:"priority"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}
