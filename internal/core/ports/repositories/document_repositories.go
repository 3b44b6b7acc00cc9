package repositories

import (
	"context"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// DocumentReader reads invoices and additional documents from the document store.
type DocumentReader interface {
	// FindDocument resolves a reference to its document. Returns ErrNotFound if absent.
	FindDocument(ctx context.Context, ref domain.DocumentRef) (*domain.Document, error)

	// FindLinkedAdditionalDocuments lists the additional documents linked to an invoice.
	FindLinkedAdditionalDocuments(ctx context.Context, invoiceID string) ([]domain.Document, error)
}

// DocumentLocationWriter updates a document's denormalised location field.
type DocumentLocationWriter interface {
	SetDocumentLocation(ctx context.Context, tx pgx.Tx, ref domain.DocumentRef, locationCode string) error
}

// DocumentRepositoryFacade is the document provider consumed by the core.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentLocationWriter
}
