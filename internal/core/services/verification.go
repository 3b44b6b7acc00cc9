package services

import (
	"fmt"

	"github.com/SscSPs/document_distribution_app/internal/apperrors"
	"github.com/SscSPs/document_distribution_app/internal/core/domain"
)

// checkVerifications normalises verifications against the bundle. Every entry
// must name a bundled document exactly once and carry a known status; an
// empty status counts as verified.
func checkVerifications(bundled []domain.DistributionDocument, verifications []domain.DocumentVerification) ([]domain.DocumentVerification, error) {
	if len(verifications) == 0 {
		return nil, fmt.Errorf("%w: at least one document verification is required", apperrors.ErrValidation)
	}

	inBundle := make(map[domain.DocumentRef]bool, len(bundled))
	for _, d := range bundled {
		inBundle[d.DocumentRef] = true
	}

	seen := make(map[domain.DocumentRef]bool, len(verifications))
	out := make([]domain.DocumentVerification, 0, len(verifications))
	for _, v := range verifications {
		if v.Status == "" {
			v.Status = domain.VerificationVerified
		}
		if !v.Status.IsValid() {
			return nil, fmt.Errorf("%w: unknown verification status %q for %s", apperrors.ErrValidation, v.Status, v.DocumentRef)
		}
		if !inBundle[v.DocumentRef] {
			return nil, fmt.Errorf("%w: document %s is not part of this distribution", apperrors.ErrValidation, v.DocumentRef)
		}
		if seen[v.DocumentRef] {
			return nil, fmt.Errorf("%w: document %s is verified more than once", apperrors.ErrValidation, v.DocumentRef)
		}
		seen[v.DocumentRef] = true
		out = append(out, v)
	}
	return out, nil
}

// receiverDiscrepancies returns the discrepancies among verifications. Unless
// force is set, any discrepancy aborts with a *domain.DiscrepancyPendingError.
func receiverDiscrepancies(distributionID string, verifications []domain.DocumentVerification, force bool) ([]domain.Discrepancy, error) {
	found := domain.CollectDiscrepancies(verifications)
	if len(found) > 0 && !force {
		return nil, &domain.DiscrepancyPendingError{DistributionID: distributionID, Discrepancies: found}
	}
	return found, nil
}
