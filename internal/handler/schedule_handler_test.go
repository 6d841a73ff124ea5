package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhive/tutorplan-api/internal/dto"
	"github.com/tutorhive/tutorplan-api/internal/models"
	"github.com/tutorhive/tutorplan-api/internal/service"
	appErrors "github.com/tutorhive/tutorplan-api/pkg/errors"
)

type scheduleGeneratorMock struct {
	captured dto.GenerateScheduleRequest
}

func (m *scheduleGeneratorMock) Generate(_ context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	m.captured = req
	return &dto.GenerateScheduleResponse{
		ProposalID: "proposal-1",
		Success:    true,
		Message:    "All requirements met",
	}, nil
}

type scheduleStoreMock struct {
	saved    *models.SavedSchedule
	archived string
	deleted  string
	notFound bool
}

func (m *scheduleStoreMock) Save(_ context.Context, req dto.SaveScheduleRequest) (*models.SavedSchedule, error) {
	if m.notFound {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}
	m.saved = &models.SavedSchedule{ID: "sched-1", Name: req.Name, Version: 1}
	return m.saved, nil
}

func (m *scheduleStoreMock) List(_ context.Context, _ dto.SavedScheduleQuery) ([]models.SavedSchedule, error) {
	return []models.SavedSchedule{{ID: "sched-1", Name: "spring-week"}}, nil
}

func (m *scheduleStoreMock) Get(_ context.Context, id string) (*models.SavedSchedule, error) {
	if m.notFound {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "saved schedule not found")
	}
	return &models.SavedSchedule{ID: id, Name: "spring-week"}, nil
}

func (m *scheduleStoreMock) Archive(_ context.Context, id string) (*models.SavedSchedule, error) {
	if m.notFound {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "saved schedule not found")
	}
	m.archived = id
	return &models.SavedSchedule{ID: id, Name: "spring-week", Status: models.SavedScheduleStatusArchived}, nil
}

func (m *scheduleStoreMock) Delete(_ context.Context, id string) error {
	m.deleted = id
	return nil
}

type exporterMock struct{}

func (m *exporterMock) Export(_ context.Context, _, format string) (*service.ExportFile, error) {
	if format == "xlsx" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	return &service.ExportFile{Filename: "spring-week-v1.csv", ContentType: "text/csv", Data: []byte("Day\n")}, nil
}

func validGeneratePayload(t *testing.T) []byte {
	t.Helper()
	payload, err := json.Marshal(dto.GenerateScheduleRequest{
		WorkingHours: dto.WorkingHoursRequest{Days: []string{"Monday"}, StartTime: "09:00", EndTime: "17:00"},
		LunchTime:    "12:00",
		Students: []dto.StudentConfigRequest{
			{Name: "Alice", Subjects: []dto.SubjectRequirementRequest{{Name: "Math", ConstraintType: "daily", DailyMinutes: 60}}},
		},
	})
	require.NoError(t, err)
	return payload
}

func performRequest(handler gin.HandlerFunc, method, target string, body []byte) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	handler(c)
	return w
}

func TestScheduleHandlerGenerate(t *testing.T) {
	mockSvc := &scheduleGeneratorMock{}
	handler := &ScheduleHandler{generator: mockSvc}

	w := performRequest(handler.Generate, http.MethodPost, "/schedule/generate", validGeneratePayload(t))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alice", mockSvc.captured.Students[0].Name)
	assert.Contains(t, w.Body.String(), "proposal-1")
}

func TestScheduleHandlerGenerateMalformedBody(t *testing.T) {
	handler := &ScheduleHandler{generator: &scheduleGeneratorMock{}}

	w := performRequest(handler.Generate, http.MethodPost, "/schedule/generate", []byte(`{"workingHours":`))

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerGenerateTooManyStudents(t *testing.T) {
	handler := &ScheduleHandler{generator: &scheduleGeneratorMock{}}

	req := dto.GenerateScheduleRequest{
		WorkingHours: dto.WorkingHoursRequest{Days: []string{"Monday"}, StartTime: "09:00", EndTime: "17:00"},
		LunchTime:    "12:00",
	}
	for i := 0; i <= maxStudentsPerRequest; i++ {
		req.Students = append(req.Students, dto.StudentConfigRequest{Name: "s"})
	}
	payload, err := json.Marshal(req)
	require.NoError(t, err)

	w := performRequest(handler.Generate, http.MethodPost, "/schedule/generate", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerSave(t *testing.T) {
	mockStore := &scheduleStoreMock{}
	handler := &ScheduleHandler{store: mockStore}

	payload := []byte(`{"proposalId": "proposal-1", "name": "spring-week"}`)
	w := performRequest(handler.Save, http.MethodPost, "/schedule/save", payload)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, mockStore.saved)
	assert.Equal(t, "spring-week", mockStore.saved.Name)
}

func TestScheduleHandlerSaveProposalExpired(t *testing.T) {
	handler := &ScheduleHandler{store: &scheduleStoreMock{notFound: true}}

	payload := []byte(`{"proposalId": "gone", "name": "spring-week"}`)
	w := performRequest(handler.Save, http.MethodPost, "/schedule/save", payload)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleHandlerListAndDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockStore := &scheduleStoreMock{}
	handler := &ScheduleHandler{store: mockStore}
	router := gin.New()
	router.GET("/schedules", handler.List)
	router.DELETE("/schedules/:id", handler.Delete)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/schedules", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "spring-week")

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodDelete, "/schedules/sched-1", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "sched-1", mockStore.deleted)
}

func TestScheduleHandlerArchive(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockStore := &scheduleStoreMock{}
	handler := &ScheduleHandler{store: mockStore}
	router := gin.New()
	router.POST("/schedules/:id/archive", handler.Archive)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/schedules/sched-1/archive", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sched-1", mockStore.archived)
	assert.Contains(t, w.Body.String(), string(models.SavedScheduleStatusArchived))

	handler = &ScheduleHandler{store: &scheduleStoreMock{notFound: true}}
	router = gin.New()
	router.POST("/schedules/:id/archive", handler.Archive)
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/schedules/missing/archive", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &ScheduleHandler{exporter: &exporterMock{}}
	router := gin.New()
	router.GET("/schedules/:id/export", handler.Export)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/schedules/sched-1/export", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "spring-week-v1.csv")

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/schedules/sched-1/export?format=xlsx", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
