package dto

import (
	"time"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
)

// RelocateDocumentRequest is a manual, corrective relocation outside any distribution.
type RelocateDocumentRequest struct {
	LocationCode string `json:"locationCode" binding:"required,max=20"`
	Reason       string `json:"reason" binding:"required,max=500"`
}

// CurrentLocationResponse is a document's derived current location.
type CurrentLocationResponse struct {
	DocumentKind string     `json:"documentKind"`
	DocumentID   string     `json:"documentID"`
	LocationCode string     `json:"locationCode"`
	Source       string     `json:"source"`
	AsOf         *time.Time `json:"asOf,omitempty"`
}

// LocationRecordResponse is one ledger entry.
type LocationRecordResponse struct {
	LocationCode   string    `json:"locationCode"`
	MovedBy        *string   `json:"movedBy,omitempty"`
	MovedAt        time.Time `json:"movedAt"`
	DistributionID *string   `json:"distributionID,omitempty"`
	Reason         string    `json:"reason"`
}

func ToCurrentLocationResponse(loc *domain.CurrentLocation) CurrentLocationResponse {
	return CurrentLocationResponse{
		DocumentKind: string(loc.Kind),
		DocumentID:   loc.ID,
		LocationCode: loc.LocationCode,
		Source:       string(loc.Source),
		AsOf:         loc.AsOf,
	}
}

func ToLocationRecordResponse(r *domain.LocationRecord) LocationRecordResponse {
	return LocationRecordResponse{
		LocationCode:   r.LocationCode,
		MovedBy:        r.MovedBy,
		MovedAt:        r.MovedAt,
		DistributionID: r.DistributionID,
		Reason:         r.Reason,
	}
}

func ToLocationRecordResponses(records []domain.LocationRecord) []LocationRecordResponse {
	responses := make([]LocationRecordResponse, len(records))
	for i := range records {
		responses[i] = ToLocationRecordResponse(&records[i])
	}
	return responses
}
