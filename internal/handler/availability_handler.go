package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorhive/tutorplan-api/internal/dto"
	"github.com/tutorhive/tutorplan-api/internal/service"
	appErrors "github.com/tutorhive/tutorplan-api/pkg/errors"
	"github.com/tutorhive/tutorplan-api/pkg/response"
	"github.com/tutorhive/tutorplan-api/pkg/storage"
)

// uploads are full availability documents, not media; 1 MiB is plenty.
const maxUploadBytes = 1 << 20

type availabilityManager interface {
	ParseUpload(payload []byte) (map[string]dto.StudentAvailability, error)
	StoreUpload(ctx context.Context, upload map[string]dto.StudentAvailability) ([]string, error)
	ListFiles(ctx context.Context) ([]storage.FileInfo, error)
	LoadStudent(ctx context.Context, student string) (*dto.StudentAvailability, error)
	DeleteStudent(ctx context.Context, student string) error
}

// AvailabilityHandler exposes the availability file endpoints.
type AvailabilityHandler struct {
	service availabilityManager
}

// NewAvailabilityHandler constructs the handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// Upload godoc
// @Summary Upload per-student availability
// @Description Accepts a JSON map of student name to blocked intervals and stores one file per student.
// @Tags Availability
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /availability/upload [post]
func (h *AvailabilityHandler) Upload(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUploadBytes+1))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read upload body"))
		return
	}
	if len(payload) > maxUploadBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "availability upload exceeds size limit"))
		return
	}

	upload, err := h.service.ParseUpload(payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	stored, err := h.service.StoreUpload(c.Request.Context(), upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.UploadAvailabilityResponse{Students: upload, Stored: stored}, nil)
}

// ListFiles godoc
// @Summary List stored availability files
// @Tags Availability
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /availability/files [get]
func (h *AvailabilityHandler) ListFiles(c *gin.Context) {
	files, err := h.service.ListFiles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, files, nil)
}

// GetStudent godoc
// @Summary Get one student's stored availability
// @Tags Availability
// @Produce json
// @Param student path string true "Student name"
// @Success 200 {object} response.Envelope
// @Router /availability/files/{student} [get]
func (h *AvailabilityHandler) GetStudent(c *gin.Context) {
	availability, err := h.service.LoadStudent(c.Request.Context(), c.Param("student"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, availability, nil)
}

// DeleteStudent godoc
// @Summary Delete one student's stored availability
// @Tags Availability
// @Param student path string true "Student name"
// @Success 204
// @Router /availability/files/{student} [delete]
func (h *AvailabilityHandler) DeleteStudent(c *gin.Context) {
	if err := h.service.DeleteStudent(c.Request.Context(), c.Param("student")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
