package services

import (
	"context"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	"github.com/SscSPs/document_distribution_app/internal/dto"
)

// LocationReaderSvc answers where a document is.
type LocationReaderSvc interface {
	// GetCurrentLocation returns the latest ledger location, falling back to the document's own field.
	GetCurrentLocation(ctx context.Context, ref domain.DocumentRef) (*domain.CurrentLocation, error)

	// ListLocationHistory returns the document's ledger, newest first.
	ListLocationHistory(ctx context.Context, ref domain.DocumentRef) ([]domain.LocationRecord, error)
}

// LocationWriterSvc performs corrective relocations outside any distribution.
type LocationWriterSvc interface {
	RelocateDocument(ctx context.Context, actor domain.Actor, ref domain.DocumentRef, req dto.RelocateDocumentRequest) (*domain.LocationRecord, error)
}

// LocationSvcFacade combines the location service interfaces
type LocationSvcFacade interface {
	LocationReaderSvc
	LocationWriterSvc
}

// LocationCache caches derived current locations. A nil result with a nil error is a miss.
type LocationCache interface {
	GetLocation(ctx context.Context, ref domain.DocumentRef) (*domain.CurrentLocation, error)
	SetLocation(ctx context.Context, loc domain.CurrentLocation) error
	InvalidateLocations(ctx context.Context, refs ...domain.DocumentRef) error
}
