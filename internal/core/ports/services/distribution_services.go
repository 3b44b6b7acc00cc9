package services

import (
	"context"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	"github.com/SscSPs/document_distribution_app/internal/dto"
)

// DistributionReaderSvc defines read operations for distributions
type DistributionReaderSvc interface {
	// GetDistribution retrieves a distribution with its bundled documents.
	GetDistribution(ctx context.Context, distributionID string) (*domain.DistributionDetail, error)

	// ListDistributions retrieves distributions visible to the actor, newest first.
	// It returns the page and a token for the next page.
	ListDistributions(ctx context.Context, actor domain.Actor, params dto.ListDistributionsParams) ([]domain.Distribution, *string, error)
}

// DistributionWriterSvc defines the draft-stage operations
type DistributionWriterSvc interface {
	// CreateDistribution bundles the requested documents into a new draft.
	CreateDistribution(ctx context.Context, actor domain.Actor, req dto.CreateDistributionRequest) (*domain.CreateDistributionResult, error)

	// UpdateDistribution applies a partial update to a draft.
	UpdateDistribution(ctx context.Context, actor domain.Actor, distributionID string, req dto.UpdateDistributionRequest) (*domain.Distribution, error)

	// DeleteDistribution soft-deletes a draft. It returns false without error for any other status.
	DeleteDistribution(ctx context.Context, actor domain.Actor, distributionID string) (bool, error)

	// AttachDocuments bundles more documents into a draft.
	AttachDocuments(ctx context.Context, actor domain.Actor, distributionID string, req dto.AttachDocumentsRequest) (*domain.CreateDistributionResult, error)

	// DetachDocument removes a document, and anything auto-included through it, from a draft.
	DetachDocument(ctx context.Context, actor domain.Actor, distributionID string, ref domain.DocumentRef) (*domain.DistributionDetail, error)
}

// DistributionWorkflowSvc moves a distribution along its lifecycle
type DistributionWorkflowSvc interface {
	VerifySender(ctx context.Context, actor domain.Actor, distributionID string, req dto.VerifySenderRequest) (*domain.Distribution, error)
	Send(ctx context.Context, actor domain.Actor, distributionID string) (*domain.Distribution, error)
	Receive(ctx context.Context, actor domain.Actor, distributionID string) (*domain.Distribution, error)

	// VerifyReceiver returns a *domain.DiscrepancyPendingError when discrepancies are found
	// and the request does not force completion.
	VerifyReceiver(ctx context.Context, actor domain.Actor, distributionID string, req dto.VerifyReceiverRequest) (*domain.Distribution, error)
	Complete(ctx context.Context, actor domain.Actor, distributionID string) (*domain.Distribution, error)
}

// DistributionHistorySvc exposes the audit log
type DistributionHistorySvc interface {
	// GetHistory returns the distribution's entries in reverse-chronological order.
	GetHistory(ctx context.Context, distributionID string) ([]domain.HistoryEntry, error)
}

// DistributionSvcFacade combines all distribution-related service interfaces
type DistributionSvcFacade interface {
	DistributionReaderSvc
	DistributionWriterSvc
	DistributionWorkflowSvc
	DistributionHistorySvc
}
