package dto

// SeatClickRequest reports a click on a seat cell.
type SeatClickRequest struct {
	Seat int `json:"seat" validate:"required,min=1"`
}

// RosterClickRequest reports a click on an unseated student in the roster list.
type RosterClickRequest struct {
	StudentID string `json:"studentId" validate:"required"`
}

// DragDropRequest reports an unseated student dropped onto a seat cell.
type DragDropRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	Seat      int    `json:"seat" validate:"required,min=1"`
}

// SaveSeatingRequest persists the session's assignment. Version must match the
// arrangement's stored version; stale saves are rejected.
type SaveSeatingRequest struct {
	Version int `json:"version"`
}

// GridSeat is one cell of the rendered grid.
type GridSeat struct {
	Seat      int    `json:"seat"`
	StudentID string `json:"studentId,omitempty"`
	FullName  string `json:"fullName,omitempty"`
}

// GridSelection mirrors the interaction state machine: FirstSelectedSeat is -1
// and SelectedStudentID empty when idle; the two are mutually exclusive.
type GridSelection struct {
	FirstSelectedSeat int    `json:"firstSelectedSeat"`
	SelectedStudentID string `json:"selectedStudentId"`
}

// GridSnapshot is the full editing state for one arrangement session.
type GridSnapshot struct {
	ArrangementID string        `json:"arrangementId"`
	SeatCount     int           `json:"seatCount"`
	Version       int           `json:"version"`
	Seats         []GridSeat    `json:"seats"`
	Unseated      []GridStudent `json:"unseated"`
	Selection     GridSelection `json:"selection"`
	IsModified    bool          `json:"isModified"`
}

// GridStudent is a roster member shown in the unseated side list.
type GridStudent struct {
	StudentID string `json:"studentId"`
	FullName  string `json:"fullName"`
	ImageURL  string `json:"imageUrl,omitempty"`
}
