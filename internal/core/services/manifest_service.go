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
)

// ErrManifestsDisabled is returned when no manifest store is configured.
var ErrManifestsDisabled = errors.New("manifest archiving is not configured")

type manifestService struct {
	BaseService
	distributionRepo portsrepo.DistributionReader
	store            portssvc.ManifestStore
	expiry           time.Duration
}

// NewManifestService creates a manifest service. store may be nil.
func NewManifestService(distributionRepo portsrepo.DistributionReader, store portssvc.ManifestStore, expiry time.Duration) portssvc.ManifestSvc {
	return &manifestService{distributionRepo: distributionRepo, store: store, expiry: expiry}
}

// GetManifestURL presigns the manifest archived when the distribution reached event.
func (s *manifestService) GetManifestURL(ctx context.Context, distributionID string, event domain.NotificationEvent) (string, time.Time, error) {
	if !domain.ManifestEvents[event] {
		return "", time.Time{}, fmt.Errorf("%w: no manifest is archived for event %q", apperrors.ErrValidation, event)
	}
	if s.store == nil {
		return "", time.Time{}, ErrManifestsDisabled
	}

	d, err := s.distributionRepo.FindDistributionByID(ctx, distributionID)
	if err != nil {
		return "", time.Time{}, err
	}
	reached := (event == domain.EventSent && d.SentAt != nil) || (event == domain.EventCompleted && d.CompletedAt != nil)
	if !reached {
		return "", time.Time{}, fmt.Errorf("%w: distribution %s has not been %s", apperrors.ErrInvalidState, d.DistributionNumber, event)
	}

	expiresAt := s.Now().Add(s.expiry)
	url, err := s.store.PresignManifest(ctx, domain.ManifestKey(d.DistributionID, event), s.expiry)
	if err != nil {
		s.LogError(ctx, err, "Failed to presign manifest",
			slog.String("distribution_id", distributionID), slog.String("event", string(event)))
		return "", time.Time{}, err
	}
	return url, expiresAt, nil
}
