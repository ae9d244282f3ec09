package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-seating-api/internal/dto"
	internalmiddleware "github.com/noah-isme/sma-seating-api/internal/middleware"
	"github.com/noah-isme/sma-seating-api/internal/models"
)

type arrangementManagerMock struct {
	capturedCreate dto.CreateArrangementRequest
	listedCourse   string
}

func (m *arrangementManagerMock) ListByCourse(ctx context.Context, courseID string) (dto.ArrangementsByCourse, error) {
	m.listedCourse = courseID
	return dto.ArrangementsByCourse{}, nil
}

func (m *arrangementManagerMock) Create(ctx context.Context, req dto.CreateArrangementRequest) (*models.Arrangement, error) {
	m.capturedCreate = req
	return &models.Arrangement{ID: "arr-1", Name: req.Name}, nil
}

func (m *arrangementManagerMock) Deactivate(ctx context.Context, id string) error {
	return nil
}

func (m *arrangementManagerMock) Reactivate(ctx context.Context, id string) error {
	return nil
}

func (m *arrangementManagerMock) ListDeactivated(ctx context.Context) ([]models.DeactivatedEvent, error) {
	return nil, nil
}

func (m *arrangementManagerMock) ListStudents(ctx context.Context, courseID string) ([]models.Student, error) {
	return nil, nil
}

func (m *arrangementManagerMock) ListConditions(ctx context.Context, courseID string) ([]models.PlacementCondition, error) {
	return nil, nil
}

func (m *arrangementManagerMock) CreateCondition(ctx context.Context, courseID string, req dto.CreateConditionRequest) (*models.PlacementCondition, error) {
	return nil, nil
}

func (m *arrangementManagerMock) DeleteCondition(ctx context.Context, id string) error {
	return nil
}

func TestArrangementHandlerListRequiresCourse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &ArrangementHandler{service: &arrangementManagerMock{}}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/arrangements", nil)
	c.Request = req

	handler.List(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestArrangementHandlerListPassesCourse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &arrangementManagerMock{}
	handler := &ArrangementHandler{service: mockSvc}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/arrangements?course=course-1", nil)
	c.Request = req

	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "course-1", mockSvc.listedCourse)
}

func TestArrangementHandlerCreateDefaultsTeacherFromClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &arrangementManagerMock{}
	handler := &ArrangementHandler{service: mockSvc}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := []byte(`{"name":"window arrangement","course":"course-1","available_place_number":32}`)
	req, _ := http.NewRequest(http.MethodPost, "/arrangement-events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(internalmiddleware.ContextUserKey, &models.JWTClaims{UserID: "teacher-7", Role: models.RoleTeacher})

	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "teacher-7", mockSvc.capturedCreate.Teacher)
}

func TestArrangementHandlerCreateForbiddenForParent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &ArrangementHandler{service: &arrangementManagerMock{}}
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(internalmiddleware.ContextUserKey, &models.JWTClaims{UserID: "parent-1", Role: models.RoleParent})
		c.Next()
	})
	router.POST("/arrangement-events", internalmiddleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), handler.Create)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/arrangement-events", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestArrangementHandlerCreateUnauthorizedWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &ArrangementHandler{service: &arrangementManagerMock{}}
	router := gin.New()
	router.POST("/arrangement-events", internalmiddleware.RequireRoles(models.RoleAdmin), handler.Create)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/arrangement-events", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
