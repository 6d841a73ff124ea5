package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tutorhive/tutorplan-api/internal/models"
	appErrors "github.com/tutorhive/tutorplan-api/pkg/errors"
	"github.com/tutorhive/tutorplan-api/pkg/export"
	"github.com/tutorhive/tutorplan-api/pkg/storage"
)

var exportHeaders = []string{"Day", "Start", "End", "Type", "Students", "Subject", "Label"}

type savedScheduleReader interface {
	Get(ctx context.Context, id string) (*models.SavedSchedule, error)
}

// ExportFile is a rendered schedule ready to stream to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders stored schedules as CSV, PDF or raw JSON. When a
// storage backend is configured a copy of each export is kept on disk.
type ExportService struct {
	schedules savedScheduleReader
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	storage   *storage.LocalStorage
	logger    *zap.Logger
}

// NewExportService wires export dependencies. Storage may be nil.
func NewExportService(schedules savedScheduleReader, store *storage.LocalStorage, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		schedules: schedules,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		storage:   store,
		logger:    logger,
	}
}

// Export renders the stored schedule in the requested format.
func (s *ExportService) Export(ctx context.Context, id, format string) (*ExportFile, error) {
	record, err := s.schedules.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var result models.ScheduleResult
	if err := json.Unmarshal(record.Result, &result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode stored schedule")
	}

	base := fmt.Sprintf("%s-v%d", storage.SanitizeName(record.Name), record.Version)
	var file *ExportFile
	switch strings.ToLower(format) {
	case "csv":
		data, err := s.csv.Render(buildScheduleDataset(result))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		file = &ExportFile{Filename: base + ".csv", ContentType: "text/csv", Data: data}
	case "pdf":
		title := fmt.Sprintf("Weekly Schedule: %s (v%d)", record.Name, record.Version)
		data, err := s.pdf.Render(buildScheduleDataset(result), title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		file = &ExportFile{Filename: base + ".pdf", ContentType: "application/pdf", Data: data}
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render json export")
		}
		file = &ExportFile{Filename: base + ".json", ContentType: "application/json", Data: data}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	if s.storage != nil {
		if _, err := s.storage.Save(file.Filename, file.Data); err != nil {
			s.logger.Warn("failed to persist export copy", zap.String("filename", file.Filename), zap.Error(err))
		}
	}
	return file, nil
}

// PruneStaleCopies removes on-disk export copies older than ttl. Called at
// startup so the exports directory does not grow without bound.
func (s *ExportService) PruneStaleCopies(ttl time.Duration) {
	if s.storage == nil || ttl <= 0 {
		return
	}
	deleted, err := s.storage.CleanupOlderThan(ttl)
	if err != nil {
		s.logger.Warn("failed to prune export copies", zap.Error(err))
		return
	}
	if len(deleted) > 0 {
		s.logger.Info("pruned stale export copies", zap.Int("count", len(deleted)))
	}
}

func buildScheduleDataset(result models.ScheduleResult) export.Dataset {
	rows := make([]map[string]string, 0, len(result.Schedule))
	for _, entry := range result.Schedule {
		rows = append(rows, map[string]string{
			"Day":      entry.Day,
			"Start":    entry.Start,
			"End":      entry.End,
			"Type":     string(entry.Type),
			"Students": strings.Join(entry.Students, ", "),
			"Subject":  entry.Subject,
			"Label":    entry.Label,
		})
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}
}
