package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorhive/tutorplan-api/internal/dto"
	"github.com/tutorhive/tutorplan-api/internal/models"
	"github.com/tutorhive/tutorplan-api/internal/service"
	appErrors "github.com/tutorhive/tutorplan-api/pkg/errors"
	"github.com/tutorhive/tutorplan-api/pkg/response"
)

const maxStudentsPerRequest = 64

type scheduleGenerator interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
}

type scheduleStore interface {
	Save(ctx context.Context, req dto.SaveScheduleRequest) (*models.SavedSchedule, error)
	List(ctx context.Context, query dto.SavedScheduleQuery) ([]models.SavedSchedule, error)
	Get(ctx context.Context, id string) (*models.SavedSchedule, error)
	Archive(ctx context.Context, id string) (*models.SavedSchedule, error)
	Delete(ctx context.Context, id string) error
}

type scheduleExporter interface {
	Export(ctx context.Context, id, format string) (*service.ExportFile, error)
}

// ScheduleHandler exposes schedule generation, persistence and export endpoints.
type ScheduleHandler struct {
	generator scheduleGenerator
	store     scheduleStore
	exporter  scheduleExporter
}

// NewScheduleHandler constructs the handler. Store and exporter may be nil
// when persistence is disabled.
func NewScheduleHandler(generator *service.ScheduleGeneratorService, store *service.ScheduleStoreService, exporter *service.ExportService) *ScheduleHandler {
	h := &ScheduleHandler{generator: generator}
	if store != nil {
		h.store = store
	}
	if exporter != nil {
		h.exporter = exporter
	}
	return h
}

// Generate godoc
// @Summary Generate a weekly tutoring schedule proposal
// @Description Places every subject requirement into the working week, reporting unmet requirements as conflicts instead of failing.
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Generate schedule payload"
// @Success 200 {object} response.Envelope
// @Router /schedule/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	if len(req.Students) > maxStudentsPerRequest {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("students exceeds supported limit of %d", maxStudentsPerRequest)))
		return
	}
	result, err := h.generator.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Save godoc
// @Summary Save a generated proposal as a named schedule
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.SaveScheduleRequest true "Save schedule payload"
// @Success 201 {object} response.Envelope
// @Router /schedule/save [post]
func (h *ScheduleHandler) Save(c *gin.Context) {
	var req dto.SaveScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid save payload"))
		return
	}
	record, err := h.store.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// List godoc
// @Summary List saved schedules
// @Tags Scheduler
// @Produce json
// @Param name query string false "Filter by schedule name"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	query := dto.SavedScheduleQuery{Name: c.Query("name")}
	result, err := h.store.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Get godoc
// @Summary Get one saved schedule
// @Tags Scheduler
// @Produce json
// @Param id path string true "Saved schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	record, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Archive godoc
// @Summary Archive a saved schedule
// @Tags Scheduler
// @Produce json
// @Param id path string true "Saved schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/archive [post]
func (h *ScheduleHandler) Archive(c *gin.Context) {
	record, err := h.store.Archive(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Delete godoc
// @Summary Delete a saved schedule
// @Tags Scheduler
// @Param id path string true "Saved schedule ID"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export a saved schedule
// @Tags Scheduler
// @Produce json
// @Param id path string true "Saved schedule ID"
// @Param format query string false "Export format: csv, pdf or json" default(csv)
// @Success 200 {file} file
// @Router /schedules/{id}/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	file, err := h.exporter.Export(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
