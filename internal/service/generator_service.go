package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhive/tutorplan-api/internal/dto"
	appErrors "github.com/tutorhive/tutorplan-api/pkg/errors"
)

// ScheduleGeneratorService builds weekly tutoring timetable proposals.
type ScheduleGeneratorService struct {
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	store     ProposalStore
}

// NewScheduleGeneratorService wires generator dependencies.
func NewScheduleGeneratorService(validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, store ProposalStore) *ScheduleGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = NewMemoryProposalStore(30 * time.Minute)
	}
	return &ScheduleGeneratorService{
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		store:     store,
	}
}

// Generate runs the full pipeline: validate, resolve availability, normalize
// requirements into demand units, allocate, assemble. Unmet requirements come
// back as conflicts on a partial schedule, never as an error.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}

	cfg, err := buildScheduleConfig(req)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	units := normalize(cfg)
	engine := newAllocationEngine(cfg)
	if err := engine.run(units); err != nil {
		return nil, err
	}
	result := assemble(cfg, engine)
	elapsed := time.Since(started)

	proposal := &ScheduleProposal{
		ID:          uuid.NewString(),
		Result:      result,
		RequestedAt: time.Now().UTC(),
	}
	if err := s.store.Save(ctx, proposal); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store schedule proposal")
	}

	s.metrics.ObserveGeneration(result.Success, len(result.Conflicts), elapsed)
	s.logger.Info("schedule generated",
		zap.String("proposalId", proposal.ID),
		zap.Int("students", len(cfg.students)),
		zap.Int("entries", len(result.Schedule)),
		zap.Int("conflicts", len(result.Conflicts)),
		zap.Duration("elapsed", elapsed),
	)

	return &dto.GenerateScheduleResponse{
		ProposalID: proposal.ID,
		Schedule:   result.Schedule,
		Success:    result.Success,
		Message:    result.Message,
		Conflicts:  result.Conflicts,
	}, nil
}

// Proposal returns a previously generated proposal if it has not expired.
func (s *ScheduleGeneratorService) Proposal(ctx context.Context, id string) (*ScheduleProposal, error) {
	proposal, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule proposal")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}
	return proposal, nil
}

// Discard drops a proposal once it has been persisted.
func (s *ScheduleGeneratorService) Discard(ctx context.Context, id string) {
	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.Warn("failed to discard schedule proposal", zap.String("proposalId", id), zap.Error(err))
	}
}
