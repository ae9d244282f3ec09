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

const maxInlineConditions = 64

type placementPreviewResponse struct {
	Mode     string                         `json:"mode"`
	Proposal *dto.GeneratePlacementResponse `json:"proposal"`
}

type placementGenerator interface {
	Generate(ctx context.Context, req dto.GeneratePlacementRequest) (*dto.GeneratePlacementResponse, error)
	Apply(ctx context.Context, req dto.ApplyPlacementRequest) (*dto.GridSnapshot, error)
}

// PlacementHandler exposes auto-placement endpoints.
type PlacementHandler struct {
	service placementGenerator
}

// NewPlacementHandler constructs the handler.
func NewPlacementHandler(svc *service.PlacementService) *PlacementHandler {
	return &PlacementHandler{service: svc}
}

// Generate godoc
// @Summary Generate an auto-placement proposal
// @Description Returns a preview assignment. Nothing is written until the proposal is applied.
// @Tags Placement
// @Accept json
// @Produce json
// @Param payload body dto.GeneratePlacementRequest true "Generate placement payload"
// @Success 200 {object} response.Envelope
// @Router /placements/generate [post]
func (h *PlacementHandler) Generate(c *gin.Context) {
	var req dto.GeneratePlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	if len(req.Conditions) > maxInlineConditions {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "conditions exceeds supported limit"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	payload := placementPreviewResponse{
		Mode:     "preview",
		Proposal: result,
	}
	response.JSON(c, http.StatusOK, payload, nil)
}

// Apply godoc
// @Summary Apply a generated proposal to the grid session
// @Tags Placement
// @Accept json
// @Produce json
// @Param payload body dto.ApplyPlacementRequest true "Apply placement payload"
// @Success 200 {object} response.Envelope
// @Router /placements/apply [post]
func (h *PlacementHandler) Apply(c *gin.Context) {
	var req dto.ApplyPlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid apply payload"))
		return
	}
	snapshot, err := h.service.Apply(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}
