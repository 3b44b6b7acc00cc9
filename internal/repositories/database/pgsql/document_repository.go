package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/document_distribution_app/internal/apperrors"
	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	portsrepo "github.com/SscSPs/document_distribution_app/internal/core/ports/repositories"
	"github.com/SscSPs/document_distribution_app/internal/models"
	"github.com/SscSPs/document_distribution_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

// documentTable describes where one document kind is stored.
type documentTable struct {
	table     string
	idColumn  string
	numberCol string
	amountCol string
}

var documentTables = map[domain.DocumentKind]documentTable{
	domain.KindInvoice: {
		table:     "invoices",
		idColumn:  "invoice_id",
		numberCol: "invoice_number",
		amountCol: "amount",
	},
	domain.KindAdditionalDocument: {
		table:     "additional_documents",
		idColumn:  "document_id",
		numberCol: "document_number",
		amountCol: "0::numeric",
	},
}

func tableFor(kind domain.DocumentKind) (documentTable, error) {
	t, ok := documentTables[kind]
	if !ok {
		return documentTable{}, fmt.Errorf("%w: unknown document kind %q", apperrors.ErrValidation, kind)
	}
	return t, nil
}

// PgxDocumentRepository reads the invoice and additional document stores.
type PgxDocumentRepository struct {
	db PgxPool
}

func newPgxDocumentRepository(db PgxPool) portsrepo.DocumentRepositoryFacade {
	return &PgxDocumentRepository{db: db}
}

var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

// FindDocument resolves a document reference through the table for its kind.
func (r *PgxDocumentRepository) FindDocument(ctx context.Context, ref domain.DocumentRef) (*domain.Document, error) {
	t, err := tableFor(ref.Kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s, %s, current_location, %s FROM %s WHERE %s = $1;`,
		t.idColumn, t.numberCol, t.amountCol, t.table, t.idColumn)

	m := models.Document{DocumentKind: string(ref.Kind)}
	err = r.db.QueryRow(ctx, query, ref.ID).Scan(&m.DocumentID, &m.DocumentNumber, &m.CurrentLocation, &m.Amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, ref)
		}
		return nil, fmt.Errorf("failed to find %s: %w", ref, err)
	}
	doc := mapping.ToDomainDocument(m)
	return &doc, nil
}

// FindLinkedAdditionalDocuments lists the additional documents attached to an invoice.
func (r *PgxDocumentRepository) FindLinkedAdditionalDocuments(ctx context.Context, invoiceID string) ([]domain.Document, error) {
	query := `
		SELECT ad.document_id, ad.document_number, ad.current_location
		FROM invoice_additional_documents iad
		JOIN additional_documents ad ON ad.document_id = iad.additional_document_id
		WHERE iad.invoice_id = $1
		ORDER BY ad.document_number, ad.document_id;
	`
	rows, err := r.db.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents linked to invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		m := models.Document{DocumentKind: string(domain.KindAdditionalDocument)}
		if err := rows.Scan(&m.DocumentID, &m.DocumentNumber, &m.CurrentLocation); err != nil {
			return nil, fmt.Errorf("failed to scan linked document row: %w", err)
		}
		docs = append(docs, mapping.ToDomainDocument(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating linked document rows: %w", err)
	}
	return docs, nil
}

// SetDocumentLocation updates the document's denormalised current_location.
func (r *PgxDocumentRepository) SetDocumentLocation(ctx context.Context, tx pgx.Tx, ref domain.DocumentRef, locationCode string) error {
	t, err := tableFor(ref.Kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET current_location = $2 WHERE %s = $1;`, t.table, t.idColumn)
	cmdTag, err := tx.Exec(ctx, query, ref.ID, locationCode)
	if err != nil {
		return fmt.Errorf("failed to set location of %s: %w", ref, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, ref)
	}
	return nil
}
