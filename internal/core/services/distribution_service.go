package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/document_distribution_app/internal/apperrors"
	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	portsrepo "github.com/SscSPs/document_distribution_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/document_distribution_app/internal/core/ports/services"
	"github.com/SscSPs/document_distribution_app/internal/dto"
	"github.com/google/uuid"
)

const defaultListLimit = 20

// distributionService implements the distribution lifecycle: drafting, the
// two-sided verification protocol, relocation on receive and the audit log.
type distributionService struct {
	BaseService
	distributionRepo portsrepo.DistributionRepositoryWithTx
	documentRepo     portsrepo.DocumentRepositoryFacade
	historyRepo      portsrepo.HistoryRepository
	departmentRepo   portsrepo.DepartmentRepository
	typeRepo         portsrepo.DistributionTypeRepository
	outbox           portsrepo.OutboxWriter

	bundler bundler
	numbers numberGenerator
	ledger  locationLedger

	trigger portssvc.DispatchTrigger
	cache   portssvc.LocationCache
}

// DistributionOption is a functional option for configuring the distribution service
type DistributionOption func(*distributionService)

// WithDispatchTrigger wakes the outbox dispatcher after each committed state change.
func WithDispatchTrigger(trigger portssvc.DispatchTrigger) DistributionOption {
	return func(s *distributionService) {
		s.trigger = trigger
	}
}

// WithDistributionLocationCache invalidates cached locations of relocated documents.
func WithDistributionLocationCache(cache portssvc.LocationCache) DistributionOption {
	return func(s *distributionService) {
		s.cache = cache
	}
}

// WithDistributionClock overrides the service clock.
func WithDistributionClock(clock func() time.Time) DistributionOption {
	return func(s *distributionService) {
		s.Clock = clock
	}
}

// NewDistributionService creates a new distribution service.
func NewDistributionService(repos portsrepo.RepositoryProvider, options ...DistributionOption) portssvc.DistributionSvcFacade {
	svc := &distributionService{
		distributionRepo: repos.DistributionRepo,
		documentRepo:     repos.DocumentRepo,
		historyRepo:      repos.HistoryRepo,
		departmentRepo:   repos.DepartmentRepo,
		typeRepo:         repos.DistributionTypeRepo,
		outbox:           repos.OutboxRepo,
		bundler:          bundler{documents: repos.DocumentRepo, locations: repos.LocationRepo},
		numbers:          numberGenerator{repo: repos.DistributionRepo},
		ledger:           locationLedger{records: repos.LocationRepo, documents: repos.DocumentRepo},
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure distributionService implements the DistributionSvcFacade interface
var _ portssvc.DistributionSvcFacade = (*distributionService)(nil)

func (s *distributionService) GetDistribution(ctx context.Context, distributionID string) (*domain.DistributionDetail, error) {
	d, err := s.distributionRepo.FindDistributionByID(ctx, distributionID)
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to get distribution", distributionID)
	}
	docs, err := s.distributionRepo.FindDistributionDocuments(ctx, distributionID)
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to get distribution documents", distributionID)
	}
	return &domain.DistributionDetail{Distribution: *d, Documents: docs}, nil
}

func (s *distributionService) ListDistributions(ctx context.Context, actor domain.Actor, params dto.ListDistributionsParams) ([]domain.Distribution, *string, error) {
	filter := domain.DistributionFilter{
		DepartmentID: params.DepartmentID,
		Status:       domain.DistributionStatus(params.Status),
		Role:         domain.DistributionRole(params.Role),
		UserID:       actor.UserID,
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, params.Status)
	}
	if filter.Role != "" && !filter.Role.IsValid() {
		return nil, nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, params.Role)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	distributions, nextToken, err := s.distributionRepo.ListDistributions(ctx, filter, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list distributions",
			slog.String("user_id", actor.UserID),
			slog.String("department_id", params.DepartmentID))
		return nil, nil, err
	}
	return distributions, nextToken, nil
}

func (s *distributionService) GetHistory(ctx context.Context, distributionID string) ([]domain.HistoryEntry, error) {
	if _, err := s.distributionRepo.FindDistributionByID(ctx, distributionID); err != nil {
		return nil, s.fail(ctx, err, "Failed to get distribution for history", distributionID)
	}
	entries, err := s.historyRepo.ListHistory(ctx, distributionID)
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to list distribution history", distributionID)
	}
	return entries, nil
}

// fail logs err at a level matching its kind and returns it unchanged.
func (s *distributionService) fail(ctx context.Context, err error, msg, distributionID string) error {
	if isCallerError(err) {
		s.LogDebug(ctx, msg, slog.String("distribution_id", distributionID), slog.String("reason", err.Error()))
		return err
	}
	s.LogError(ctx, err, msg, slog.String("distribution_id", distributionID))
	return err
}

// isCallerError reports whether err is a user-correctable failure rather than a fault.
func isCallerError(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrInvalidState) ||
		errors.Is(err, apperrors.ErrDiscrepancyPending) ||
		errors.Is(err, apperrors.ErrDuplicate)
}

// afterCommit runs the post-commit side effects. Nothing here can fail the operation.
func (s *distributionService) afterCommit(ctx context.Context, notified bool, moved []domain.DocumentRef) {
	if len(moved) > 0 && s.cache != nil {
		if err := s.cache.InvalidateLocations(ctx, moved...); err != nil {
			s.GetLogger(ctx).Warn("Failed to invalidate cached document locations",
				slog.String("error", err.Error()), slog.Int("documents", len(moved)))
		}
	}
	if notified && s.trigger != nil {
		s.trigger.Trigger()
	}
}

// departmentLocation resolves a department's location code. A missing
// department surfaces as ErrNotFound.
func (s *distributionService) departmentLocation(ctx context.Context, departmentID string) (string, error) {
	dept, err := s.departmentRepo.FindDepartmentByID(ctx, departmentID)
	if err != nil {
		return "", err
	}
	return dept.LocationCode, nil
}

// asValidation turns a missing reference into a validation failure.
func asValidation(err error, format string, args ...any) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: "+format, append([]any{apperrors.ErrValidation}, args...)...)
	}
	return err
}

func newHistoryEntry(d *domain.Distribution, action domain.HistoryAction, userID, notes string, metadata map[string]any, at time.Time) domain.HistoryEntry {
	return domain.HistoryEntry{
		DistributionID: d.DistributionID,
		Action:         action,
		UserID:         userID,
		Notes:          notes,
		Metadata:       metadata,
		CreatedAt:      at,
	}
}

func newOutboxMessage(d *domain.Distribution, event domain.NotificationEvent, payload map[string]any, at time.Time) domain.OutboxMessage {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["distribution_number"] = d.DistributionNumber
	payload["status"] = string(d.Status)
	payload["recipient_department_id"] = event.RecipientDepartment(*d)
	return domain.OutboxMessage{
		MessageID:      uuid.NewString(),
		DistributionID: d.DistributionID,
		Event:          event,
		Payload:        payload,
		Status:         domain.OutboxPending,
		CreatedAt:      at,
	}
}

func refSet(docs []domain.DistributionDocument) map[domain.DocumentRef]bool {
	set := make(map[domain.DocumentRef]bool, len(docs))
	for _, d := range docs {
		set[d.DocumentRef] = true
	}
	return set
}
