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

const locationColumns = `record_id, document_kind, document_id, location_code, moved_by, moved_at, distribution_id, reason`

// PgxLocationRepository stores the append-only document location ledger.
type PgxLocationRepository struct {
	BaseRepository
}

func newPgxLocationRepository(pool PgxPool) portsrepo.LocationRepositoryWithTx {
	return &PgxLocationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LocationRepositoryWithTx = (*PgxLocationRepository)(nil)

func scanLocation(row pgx.Row) (models.LocationRecord, error) {
	var m models.LocationRecord
	err := row.Scan(&m.RecordID, &m.DocumentKind, &m.DocumentID, &m.LocationCode, &m.MovedBy, &m.MovedAt, &m.DistributionID, &m.Reason)
	return m, err
}

// FindLatestLocation returns the newest ledger record for a document. Ties on moved_at
// are broken by insertion order.
func (r *PgxLocationRepository) FindLatestLocation(ctx context.Context, ref domain.DocumentRef) (*domain.LocationRecord, error) {
	query := `SELECT ` + locationColumns + ` FROM document_locations
		WHERE document_kind = $1 AND document_id = $2
		ORDER BY moved_at DESC, record_id DESC
		LIMIT 1;`
	m, err := scanLocation(r.Pool.QueryRow(ctx, query, string(ref.Kind), ref.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest location of %s: %w", ref, err)
	}
	rec := mapping.ToDomainLocationRecord(m)
	return &rec, nil
}

// ListLocations returns every record of a document, newest first.
func (r *PgxLocationRepository) ListLocations(ctx context.Context, ref domain.DocumentRef) ([]domain.LocationRecord, error) {
	query := `SELECT ` + locationColumns + ` FROM document_locations
		WHERE document_kind = $1 AND document_id = $2
		ORDER BY moved_at DESC, record_id DESC;`
	rows, err := r.Pool.Query(ctx, query, string(ref.Kind), ref.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations of %s: %w", ref, err)
	}
	defer rows.Close()

	records := []domain.LocationRecord{}
	for rows.Next() {
		m, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		records = append(records, mapping.ToDomainLocationRecord(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating location rows: %w", err)
	}
	return records, nil
}

// AppendLocations inserts ledger records. Existing records are never modified.
func (r *PgxLocationRepository) AppendLocations(ctx context.Context, tx pgx.Tx, records []domain.LocationRecord) error {
	query := `
		INSERT INTO document_locations (document_kind, document_id, location_code, moved_by, moved_at, distribution_id, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, rec := range records {
		m := mapping.ToModelLocationRecord(rec)
		batch.Queue(query, m.DocumentKind, m.DocumentID, m.LocationCode, m.MovedBy, m.MovedAt, m.DistributionID, m.Reason)
	}
	if err := sendBatch(ctx, tx, batch); err != nil {
		return fmt.Errorf("failed to append location records: %w", err)
	}
	return nil
}
