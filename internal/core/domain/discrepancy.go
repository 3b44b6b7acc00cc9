package domain

import (
	"fmt"

	"github.com/SscSPs/document_distribution_app/internal/apperrors"
)

// Discrepancy is a document verified as missing or damaged.
type Discrepancy struct {
	DocumentRef
	Status VerificationStatus `json:"status"`
	Notes  string             `json:"notes"`
}

// DiscrepancyPendingError aborts receiver verification until the caller
// confirms the listed discrepancies with the force flag.
type DiscrepancyPendingError struct {
	DistributionID string
	Discrepancies  []Discrepancy
}

func (e *DiscrepancyPendingError) Error() string {
	return fmt.Sprintf("%s: %d document(s) missing or damaged on distribution %s",
		apperrors.ErrDiscrepancyPending.Error(), len(e.Discrepancies), e.DistributionID)
}

// Is makes errors.Is(err, apperrors.ErrDiscrepancyPending) match.
func (e *DiscrepancyPendingError) Is(target error) bool {
	return target == apperrors.ErrDiscrepancyPending
}

// CollectDiscrepancies returns the verifications that mark a document missing or damaged.
func CollectDiscrepancies(verifications []DocumentVerification) []Discrepancy {
	var out []Discrepancy
	for _, v := range verifications {
		if v.Status.IsDiscrepancy() {
			out = append(out, Discrepancy{DocumentRef: v.DocumentRef, Status: v.Status, Notes: v.Notes})
		}
	}
	return out
}
