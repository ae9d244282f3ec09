package models

import "time"

// Student represents a learner registered in the institution.
type Student struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	ImageURL  string    `db:"image_url" json:"image_url"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RosterEntry is a student eligible for an arrangement together with the
// current seat assignment (nil seat = unseated).
type RosterEntry struct {
	StudentID  string `db:"student_id" json:"student_id"`
	FullName   string `db:"full_name" json:"full_name"`
	ImageURL   string `db:"image_url" json:"student_profile_picture"`
	SeatingID  string `db:"seating_id" json:"seating_arrangement_id"`
	SeatNumber *int   `db:"site_number" json:"site_number"`
}
