package models

import "time"

// Arrangement is a named seating layout tied to one course. Seats are numbered
// 1..SeatCount and rendered by clients as an 8-column grid.
type Arrangement struct {
	ID         string    `db:"id" json:"arrangement_event_id"`
	Name       string    `db:"name" json:"name"`
	CourseID   string    `db:"course_id" json:"course_id"`
	CourseName string    `db:"course_name" json:"course_name"`
	TeacherID  string    `db:"teacher_id" json:"teacher_id"`
	SeatCount  int       `db:"available_place_number" json:"available_place_number"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	Version    int       `db:"version" json:"version"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// ArrangementDetail bundles an arrangement with its seating rows.
type ArrangementDetail struct {
	Arrangement
	SeatingData []RosterEntry `json:"seating_data"`
}

// SeatUpdate carries one persisted seat change (nil SiteNumber unseats).
type SeatUpdate struct {
	SeatingID  string `db:"seating_id" json:"seating_id" validate:"required"`
	SiteNumber *int   `db:"site_number" json:"site_number"`
}

// DeactivatedEvent is a soft-deleted arrangement event available for recovery.
type DeactivatedEvent struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
