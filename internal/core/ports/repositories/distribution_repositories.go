package repositories

import (
	"context"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// DistributionReader defines read operations for distribution data
type DistributionReader interface {
	// FindDistributionByID retrieves a live (not soft-deleted) distribution.
	FindDistributionByID(ctx context.Context, distributionID string) (*domain.Distribution, error)

	// ListDistributions retrieves distributions matching filter, newest first, using token-based pagination.
	// It returns the distributions, a token for the next page, and an error.
	ListDistributions(ctx context.Context, filter domain.DistributionFilter, limit int, nextToken *string) ([]domain.Distribution, *string, error)

	// FindDistributionDocuments retrieves the bundle of a distribution.
	FindDistributionDocuments(ctx context.Context, distributionID string) ([]domain.DistributionDocument, error)
}

// DistributionWriter defines write operations for distribution data. Every method runs
// inside the caller's transaction.
type DistributionWriter interface {
	// LockDistribution loads a live distribution with a row lock held until tx ends.
	LockDistribution(ctx context.Context, tx pgx.Tx, distributionID string) (*domain.Distribution, error)

	// FindDistributionDocumentsInTx reads the bundle under the caller's transaction.
	FindDistributionDocumentsInTx(ctx context.Context, tx pgx.Tx, distributionID string) ([]domain.DistributionDocument, error)

	// SaveDistribution inserts a new distribution.
	SaveDistribution(ctx context.Context, tx pgx.Tx, distribution domain.Distribution) error

	// UpdateDistribution writes every mutable column of a distribution.
	UpdateDistribution(ctx context.Context, tx pgx.Tx, distribution domain.Distribution) error

	// AddDistributionDocuments inserts bundle rows.
	AddDistributionDocuments(ctx context.Context, tx pgx.Tx, documents []domain.DistributionDocument) error

	// RemoveDistributionDocuments deletes bundle rows and returns how many were removed.
	RemoveDistributionDocuments(ctx context.Context, tx pgx.Tx, distributionID string, refs []domain.DocumentRef) (int64, error)

	// SaveVerifications records one side's verification outcome on bundle rows.
	SaveVerifications(ctx context.Context, tx pgx.Tx, distributionID string, side domain.VerificationSide, verifications []domain.DocumentVerification) error
}

// DistributionNumberer serialises number allocation per prefix.
type DistributionNumberer interface {
	// LockNumberPrefix takes a transaction-scoped lock on a number prefix.
	LockNumberPrefix(ctx context.Context, tx pgx.Tx, prefix string) error

	// MaxNumberSequence returns the highest sequence already used under prefix, 0 if none.
	MaxNumberSequence(ctx context.Context, tx pgx.Tx, prefix string) (int, error)
}

// DistributionRepositoryFacade combines all distribution-related repository interfaces
type DistributionRepositoryFacade interface {
	DistributionReader
	DistributionWriter
	DistributionNumberer
}

// DistributionRepositoryWithTx extends DistributionRepositoryFacade with transaction capabilities
type DistributionRepositoryWithTx interface {
	DistributionRepositoryFacade
	TransactionManager
}
