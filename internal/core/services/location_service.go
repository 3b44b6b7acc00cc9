package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/document_distribution_app/internal/apperrors"
	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	portsrepo "github.com/SscSPs/document_distribution_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/document_distribution_app/internal/core/ports/services"
	"github.com/SscSPs/document_distribution_app/internal/dto"
	"github.com/jackc/pgx/v5"
)

// locationService answers location queries and performs manual relocations.
type locationService struct {
	BaseService
	locationRepo portsrepo.LocationRepositoryWithTx
	documentRepo portsrepo.DocumentRepositoryFacade
	ledger       locationLedger
	cache        portssvc.LocationCache
}

// LocationOption is a functional option for configuring the location service
type LocationOption func(*locationService)

// WithLocationCache serves current locations through cache.
func WithLocationCache(cache portssvc.LocationCache) LocationOption {
	return func(s *locationService) {
		s.cache = cache
	}
}

// NewLocationService creates a new location service.
func NewLocationService(locationRepo portsrepo.LocationRepositoryWithTx, documentRepo portsrepo.DocumentRepositoryFacade, options ...LocationOption) portssvc.LocationSvcFacade {
	svc := &locationService{
		locationRepo: locationRepo,
		documentRepo: documentRepo,
		ledger:       locationLedger{records: locationRepo, documents: documentRepo},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LocationSvcFacade = (*locationService)(nil)

func (s *locationService) GetCurrentLocation(ctx context.Context, ref domain.DocumentRef) (*domain.CurrentLocation, error) {
	if s.cache != nil {
		cached, err := s.cache.GetLocation(ctx, ref)
		if err != nil {
			s.GetLogger(ctx).Warn("Location cache read failed", slog.String("error", err.Error()), slog.String("document", ref.String()))
		} else if cached != nil {
			return cached, nil
		}
	}

	doc, err := s.documentRepo.FindDocument(ctx, ref)
	if err != nil {
		return nil, err
	}
	latest, err := s.locationRepo.FindLatestLocation(ctx, ref)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to read location ledger", slog.String("document", ref.String()))
			return nil, err
		}
		latest = nil
	}
	current := domain.ResolveCurrentLocation(*doc, latest)

	if s.cache != nil {
		if err := s.cache.SetLocation(ctx, current); err != nil {
			s.GetLogger(ctx).Warn("Location cache write failed", slog.String("error", err.Error()), slog.String("document", ref.String()))
		}
	}
	return &current, nil
}

func (s *locationService) ListLocationHistory(ctx context.Context, ref domain.DocumentRef) ([]domain.LocationRecord, error) {
	if _, err := s.documentRepo.FindDocument(ctx, ref); err != nil {
		return nil, err
	}
	return s.locationRepo.ListLocations(ctx, ref)
}

// RelocateDocument appends a corrective ledger record outside any distribution.
func (s *locationService) RelocateDocument(ctx context.Context, actor domain.Actor, ref domain.DocumentRef, req dto.RelocateDocumentRequest) (*domain.LocationRecord, error) {
	code := strings.TrimSpace(req.LocationCode)
	if code == "" {
		return nil, fmt.Errorf("%w: location code is required", apperrors.ErrValidation)
	}
	if !ref.Kind.IsValid() {
		return nil, fmt.Errorf("%w: document kind %q is not supported", apperrors.ErrValidation, ref.Kind)
	}
	if _, err := s.documentRepo.FindDocument(ctx, ref); err != nil {
		return nil, err
	}

	mover := actor.UserID
	record := domain.LocationRecord{
		DocumentRef:  ref,
		LocationCode: code,
		MovedBy:      &mover,
		MovedAt:      s.Now(),
		Reason:       req.Reason,
	}
	err := withTx(ctx, s.locationRepo, func(tx pgx.Tx) error {
		return s.ledger.Move(ctx, tx, []domain.LocationRecord{record})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to relocate document", slog.String("document", ref.String()))
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateLocations(ctx, ref); err != nil {
			s.GetLogger(ctx).Warn("Failed to invalidate cached location", slog.String("error", err.Error()), slog.String("document", ref.String()))
		}
	}
	s.LogInfo(ctx, "Document relocated",
		slog.String("document", ref.String()),
		slog.String("location_code", code),
		slog.String("user_id", actor.UserID))
	return &record, nil
}
