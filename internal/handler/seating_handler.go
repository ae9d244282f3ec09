package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-seating-api/internal/dto"
	"github.com/noah-isme/sma-seating-api/internal/service"
	appErrors "github.com/noah-isme/sma-seating-api/pkg/errors"
	"github.com/noah-isme/sma-seating-api/pkg/response"
)

type seatingGrid interface {
	Grid(ctx context.Context, arrangementID string) (*dto.GridSnapshot, error)
	ClickSeat(ctx context.Context, arrangementID string, req dto.SeatClickRequest) (*dto.GridSnapshot, error)
	ClickRoster(ctx context.Context, arrangementID string, req dto.RosterClickRequest) (*dto.GridSnapshot, error)
	DragDrop(ctx context.Context, arrangementID string, req dto.DragDropRequest) (*dto.GridSnapshot, error)
	ClearAll(ctx context.Context, arrangementID string) (*dto.GridSnapshot, error)
	Save(ctx context.Context, arrangementID string, req dto.SaveSeatingRequest) (*dto.GridSnapshot, error)
}

// SeatingHandler exposes the interactive grid endpoints.
type SeatingHandler struct {
	service seatingGrid
}

// NewSeatingHandler constructs the handler.
func NewSeatingHandler(svc *service.SeatingService) *SeatingHandler {
	return &SeatingHandler{service: svc}
}

// Grid godoc
// @Summary Get the current grid snapshot for an arrangement
// @Tags Seating
// @Produce json
// @Param id path string true "Arrangement event ID"
// @Success 200 {object} response.Envelope
// @Router /arrangements/{id}/grid [get]
func (h *SeatingHandler) Grid(c *gin.Context) {
	snapshot, err := h.service.Grid(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// SeatClick godoc
// @Summary Handle a click on a seat cell
// @Tags Seating
// @Accept json
// @Produce json
// @Param id path string true "Arrangement event ID"
// @Param payload body dto.SeatClickRequest true "Seat click payload"
// @Success 200 {object} response.Envelope
// @Router /arrangements/{id}/grid/seat-click [post]
func (h *SeatingHandler) SeatClick(c *gin.Context) {
	var req dto.SeatClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid seat click payload"))
		return
	}
	snapshot, err := h.service.ClickSeat(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// RosterClick godoc
// @Summary Handle a click on an unseated roster entry
// @Tags Seating
// @Accept json
// @Produce json
// @Param id path string true "Arrangement event ID"
// @Param payload body dto.RosterClickRequest true "Roster click payload"
// @Success 200 {object} response.Envelope
// @Router /arrangements/{id}/grid/roster-click [post]
func (h *SeatingHandler) RosterClick(c *gin.Context) {
	var req dto.RosterClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid roster click payload"))
		return
	}
	snapshot, err := h.service.ClickRoster(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// DragDrop godoc
// @Summary Drop an unseated student onto a seat
// @Tags Seating
// @Accept json
// @Produce json
// @Param id path string true "Arrangement event ID"
// @Param payload body dto.DragDropRequest true "Drag drop payload"
// @Success 200 {object} response.Envelope
// @Router /arrangements/{id}/grid/drag-drop [post]
func (h *SeatingHandler) DragDrop(c *gin.Context) {
	var req dto.DragDropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid drag drop payload"))
		return
	}
	snapshot, err := h.service.DragDrop(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// Clear godoc
// @Summary Unseat every student in the session
// @Tags Seating
// @Produce json
// @Param id path string true "Arrangement event ID"
// @Success 200 {object} response.Envelope
// @Router /arrangements/{id}/grid/clear [post]
func (h *SeatingHandler) Clear(c *gin.Context) {
	snapshot, err := h.service.ClearAll(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// Save godoc
// @Summary Persist the session's seat assignment
// @Tags Seating
// @Accept json
// @Produce json
// @Param id path string true "Arrangement event ID"
// @Param payload body dto.SaveSeatingRequest true "Save payload"
// @Success 200 {object} response.Envelope
// @Router /arrangements/{id}/grid/save [post]
func (h *SeatingHandler) Save(c *gin.Context) {
	var req dto.SaveSeatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid save payload"))
		return
	}
	snapshot, err := h.service.Save(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}
