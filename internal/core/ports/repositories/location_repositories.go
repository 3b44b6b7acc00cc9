package repositories

import (
	"context"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// LocationReader reads the append-only location ledger.
type LocationReader interface {
	// FindLatestLocation returns the most recent record for a document, or ErrNotFound.
	FindLatestLocation(ctx context.Context, ref domain.DocumentRef) (*domain.LocationRecord, error)

	// ListLocations returns a document's records, newest first.
	ListLocations(ctx context.Context, ref domain.DocumentRef) ([]domain.LocationRecord, error)
}

// LocationWriter appends to the ledger.
type LocationWriter interface {
	AppendLocations(ctx context.Context, tx pgx.Tx, records []domain.LocationRecord) error
}

// LocationRepositoryFacade combines ledger reads and writes.
type LocationRepositoryFacade interface {
	LocationReader
	LocationWriter
}

// LocationRepositoryWithTx lets the manual relocation run its own transaction.
type LocationRepositoryWithTx interface {
	LocationRepositoryFacade
	TransactionManager
}
