package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-seating-api/internal/dto"
	"github.com/noah-isme/sma-seating-api/internal/models"
	"github.com/noah-isme/sma-seating-api/internal/service"
	appErrors "github.com/noah-isme/sma-seating-api/pkg/errors"
	"github.com/noah-isme/sma-seating-api/pkg/response"
)

type arrangementManager interface {
	ListByCourse(ctx context.Context, courseID string) (dto.ArrangementsByCourse, error)
	Create(ctx context.Context, req dto.CreateArrangementRequest) (*models.Arrangement, error)
	Deactivate(ctx context.Context, id string) error
	Reactivate(ctx context.Context, id string) error
	ListDeactivated(ctx context.Context) ([]models.DeactivatedEvent, error)
	ListStudents(ctx context.Context, courseID string) ([]models.Student, error)
	ListConditions(ctx context.Context, courseID string) ([]models.PlacementCondition, error)
	CreateCondition(ctx context.Context, courseID string, req dto.CreateConditionRequest) (*models.PlacementCondition, error)
	DeleteCondition(ctx context.Context, id string) error
}

// ArrangementHandler exposes arrangement lifecycle endpoints.
type ArrangementHandler struct {
	service arrangementManager
}

// NewArrangementHandler constructs the handler.
func NewArrangementHandler(svc *service.ArrangementService) *ArrangementHandler {
	return &ArrangementHandler{service: svc}
}

// List godoc
// @Summary List active arrangement events grouped by course
// @Tags Arrangements
// @Produce json
// @Param course query string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /arrangements [get]
func (h *ArrangementHandler) List(c *gin.Context) {
	courseID := c.Query("course")
	if courseID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "course query parameter is required"))
		return
	}
	result, err := h.service.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Create godoc
// @Summary Create an arrangement event and populate its roster
// @Tags Arrangements
// @Accept json
// @Produce json
// @Param payload body dto.CreateArrangementRequest true "Create arrangement payload"
// @Success 201 {object} response.Envelope
// @Router /arrangement-events [post]
func (h *ArrangementHandler) Create(c *gin.Context) {
	var req dto.CreateArrangementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid arrangement payload"))
		return
	}
	if req.Teacher == "" {
		if claims := claimsFromContext(c); claims != nil && claims.Role == models.RoleTeacher {
			req.Teacher = claims.UserID
		}
	}
	arrangement, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, arrangement)
}

// Deactivate godoc
// @Summary Deactivate an arrangement event
// @Tags Arrangements
// @Param id path string true "Arrangement event ID"
// @Success 204
// @Router /arrangement-events/{id}/deactivate [post]
func (h *ArrangementHandler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Reactivate godoc
// @Summary Reactivate a previously deactivated arrangement event
// @Tags Arrangements
// @Param id path string true "Arrangement event ID"
// @Success 204
// @Router /arrangement-events/{id}/reactivate [post]
func (h *ArrangementHandler) Reactivate(c *gin.Context) {
	if err := h.service.Reactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Deactivated godoc
// @Summary List deactivated arrangement events
// @Tags Arrangements
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /arrangement-events/deactivated [get]
func (h *ArrangementHandler) Deactivated(c *gin.Context) {
	events, err := h.service.ListDeactivated(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// Students godoc
// @Summary List active students enrolled in a course
// @Tags Arrangements
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/students [get]
func (h *ArrangementHandler) Students(c *gin.Context) {
	students, err := h.service.ListStudents(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// Conditions godoc
// @Summary List placement conditions for a course
// @Tags Conditions
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/conditions [get]
func (h *ArrangementHandler) Conditions(c *gin.Context) {
	conditions, err := h.service.ListConditions(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conditions, nil)
}

// CreateCondition godoc
// @Summary Create a placement condition for a course
// @Tags Conditions
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param payload body dto.CreateConditionRequest true "Condition payload"
// @Success 201 {object} response.Envelope
// @Router /courses/{courseId}/conditions [post]
func (h *ArrangementHandler) CreateCondition(c *gin.Context) {
	var req dto.CreateConditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid condition payload"))
		return
	}
	condition, err := h.service.CreateCondition(c.Request.Context(), c.Param("courseId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, condition)
}

// DeleteCondition godoc
// @Summary Delete a placement condition
// @Tags Conditions
// @Param id path string true "Condition ID"
// @Success 204
// @Router /conditions/{id} [delete]
func (h *ArrangementHandler) DeleteCondition(c *gin.Context) {
	if err := h.service.DeleteCondition(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
