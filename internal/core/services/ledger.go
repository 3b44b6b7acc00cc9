package services

import (
	"context"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	portsrepo "github.com/SscSPs/document_distribution_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

// locationLedger records document movements. Appending to the ledger and
// updating the document's own location field always happen together.
type locationLedger struct {
	records   portsrepo.LocationWriter
	documents portsrepo.DocumentLocationWriter
}

func (l locationLedger) Move(ctx context.Context, tx pgx.Tx, records []domain.LocationRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := l.records.AppendLocations(ctx, tx, records); err != nil {
		return err
	}
	for _, r := range records {
		if err := l.documents.SetDocumentLocation(ctx, tx, r.DocumentRef, r.LocationCode); err != nil {
			return err
		}
	}
	return nil
}

func refsOf(records []domain.LocationRecord) []domain.DocumentRef {
	refs := make([]domain.DocumentRef, len(records))
	for i, r := range records {
		refs[i] = r.DocumentRef
	}
	return refs
}
