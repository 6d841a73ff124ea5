package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/tutorhive/tutorplan-api/internal/dto"
	"github.com/tutorhive/tutorplan-api/internal/models"
	appErrors "github.com/tutorhive/tutorplan-api/pkg/errors"
)

type savedScheduleRepository interface {
	CreateVersioned(ctx context.Context, schedule *models.SavedSchedule) error
	List(ctx context.Context, name string) ([]models.SavedSchedule, error)
	FindByID(ctx context.Context, id string) (*models.SavedSchedule, error)
	UpdateStatus(ctx context.Context, id string, status models.SavedScheduleStatus) error
	Delete(ctx context.Context, id string) error
}

type proposalSource interface {
	Proposal(ctx context.Context, id string) (*ScheduleProposal, error)
	Discard(ctx context.Context, id string)
}

// ScheduleStoreService persists generated proposals as named, versioned
// schedules. Partial schedules are savable: the success flag and conflict
// count travel with the record so callers can tell them apart.
type ScheduleStoreService struct {
	repo      savedScheduleRepository
	proposals proposalSource
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleStoreService wires persistence dependencies.
func NewScheduleStoreService(repo savedScheduleRepository, proposals proposalSource, validate *validator.Validate, logger *zap.Logger) *ScheduleStoreService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleStoreService{repo: repo, proposals: proposals, validator: validate, logger: logger}
}

// Save materializes a proposal under the given name, assigning the next
// version for that name. The proposal is discarded once stored.
func (s *ScheduleStoreService) Save(ctx context.Context, req dto.SaveScheduleRequest) (*models.SavedSchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid save schedule payload")
	}
	proposal, err := s.proposals.Proposal(ctx, req.ProposalID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(proposal.Result)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode schedule result")
	}

	record := &models.SavedSchedule{
		Name:      req.Name,
		Status:    models.SavedScheduleStatusDraft,
		Success:   proposal.Result.Success,
		Conflicts: len(proposal.Result.Conflicts),
		Result:    types.JSONText(payload),
	}
	if err := s.repo.CreateVersioned(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule")
	}

	s.proposals.Discard(ctx, req.ProposalID)
	s.logger.Info("schedule saved",
		zap.String("scheduleId", record.ID),
		zap.String("name", record.Name),
		zap.Int("version", record.Version),
	)
	return record, nil
}

// List returns stored schedules, optionally filtered by name.
func (s *ScheduleStoreService) List(ctx context.Context, query dto.SavedScheduleQuery) ([]models.SavedSchedule, error) {
	list, err := s.repo.List(ctx, query.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list saved schedules")
	}
	return list, nil
}

// Get loads a stored schedule by id.
func (s *ScheduleStoreService) Get(ctx context.Context, id string) (*models.SavedSchedule, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schedule id is required")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "saved schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load saved schedule")
	}
	return record, nil
}

// Archive moves a stored schedule from DRAFT to ARCHIVED and returns the
// updated record. Archiving an already archived schedule is a no-op.
func (s *ScheduleStoreService) Archive(ctx context.Context, id string) (*models.SavedSchedule, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schedule id is required")
	}
	if err := s.repo.UpdateStatus(ctx, id, models.SavedScheduleStatusArchived); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "saved schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive saved schedule")
	}
	s.logger.Info("schedule archived", zap.String("scheduleId", id))
	return s.Get(ctx, id)
}

// Delete removes a stored schedule version.
func (s *ScheduleStoreService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "schedule id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "saved schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete saved schedule")
	}
	return nil
}
