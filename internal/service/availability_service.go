package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/tutorhive/tutorplan-api/internal/dto"
	appErrors "github.com/tutorhive/tutorplan-api/pkg/errors"
	"github.com/tutorhive/tutorplan-api/pkg/storage"
)

// AvailabilityService manages per-student availability files so blocked
// times can be uploaded once and reused across generation requests.
type AvailabilityService struct {
	storage *storage.LocalStorage
	logger  *zap.Logger
}

// NewAvailabilityService wires the availability file store.
func NewAvailabilityService(store *storage.LocalStorage, logger *zap.Logger) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{storage: store, logger: logger}
}

// ParseUpload decodes and validates an availability upload: a map of student
// name to blocked intervals. Every interval must carry a known weekday and a
// well-formed HH:MM range.
func (s *AvailabilityService) ParseUpload(payload []byte) (map[string]dto.StudentAvailability, error) {
	var upload map[string]dto.StudentAvailability
	if err := json.Unmarshal(payload, &upload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "availability upload is not valid JSON")
	}
	if len(upload) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "availability upload contains no students")
	}
	for name, availability := range upload {
		if strings.TrimSpace(name) == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "student name must not be empty")
		}
		for _, blocked := range availability.BlockedTimes {
			if _, ok := canonicalDay(blocked.Day); !ok {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student %s: unknown weekday %q", name, blocked.Day))
			}
			start, err := ParseClock(blocked.Start)
			if err != nil {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student %s: %v", name, err))
			}
			end, err := ParseClock(blocked.End)
			if err != nil {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student %s: %v", name, err))
			}
			if start >= end {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student %s: blocked interval %s-%s is empty", name, blocked.Start, blocked.End))
			}
		}
	}
	return upload, nil
}

// StoreUpload writes one JSON file per student, replacing prior files.
// Returns the stored filenames.
func (s *AvailabilityService) StoreUpload(_ context.Context, upload map[string]dto.StudentAvailability) ([]string, error) {
	stored := make([]string, 0, len(upload))
	for name, availability := range upload {
		payload, err := json.MarshalIndent(availability, "", "  ")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode availability")
		}
		filename := storage.SanitizeName(name) + ".json"
		if _, err := s.storage.Save(filename, payload); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store availability file")
		}
		stored = append(stored, filename)
	}
	sort.Strings(stored)
	s.logger.Info("availability files stored", zap.Int("count", len(stored)))
	return stored, nil
}

// ListFiles returns the stored availability files sorted by name.
func (s *AvailabilityService) ListFiles(_ context.Context) ([]storage.FileInfo, error) {
	files, err := s.storage.List(".json")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list availability files")
	}
	return files, nil
}

// LoadStudent reads one student's stored availability.
func (s *AvailabilityService) LoadStudent(_ context.Context, student string) (*dto.StudentAvailability, error) {
	filename := storage.SanitizeName(student) + ".json"
	if !s.storage.Exists(filename) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no availability stored for student %q", student))
	}
	payload, err := s.storage.Load(filename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability file")
	}
	var availability dto.StudentAvailability
	if err := json.Unmarshal(payload, &availability); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored availability file is corrupt")
	}
	return &availability, nil
}

// DeleteStudent removes one student's stored availability.
func (s *AvailabilityService) DeleteStudent(_ context.Context, student string) error {
	filename := storage.SanitizeName(student) + ".json"
	if !s.storage.Exists(filename) {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no availability stored for student %q", student))
	}
	if err := s.storage.Delete(filename); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete availability file")
	}
	return nil
}
