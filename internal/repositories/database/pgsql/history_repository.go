package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	portsrepo "github.com/SscSPs/document_distribution_app/internal/core/ports/repositories"
	"github.com/SscSPs/document_distribution_app/internal/models"
	"github.com/SscSPs/document_distribution_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

// PgxHistoryRepository stores the distribution audit log.
type PgxHistoryRepository struct {
	db PgxPool
}

func newPgxHistoryRepository(db PgxPool) portsrepo.HistoryRepository {
	return &PgxHistoryRepository{db: db}
}

var _ portsrepo.HistoryRepository = (*PgxHistoryRepository)(nil)

// AppendHistory inserts entries in slice order; entry_id preserves that order.
func (r *PgxHistoryRepository) AppendHistory(ctx context.Context, tx pgx.Tx, entries []domain.HistoryEntry) error {
	query := `
		INSERT INTO distribution_history (distribution_id, action, user_id, notes, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	batch := &pgx.Batch{}
	for _, e := range entries {
		m := mapping.ToModelHistoryEntry(e)
		batch.Queue(query, m.DistributionID, m.Action, m.UserID, m.Notes, m.Metadata, m.CreatedAt)
	}
	if err := sendBatch(ctx, tx, batch); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// ListHistory returns entries newest first.
func (r *PgxHistoryRepository) ListHistory(ctx context.Context, distributionID string) ([]domain.HistoryEntry, error) {
	query := `
		SELECT entry_id, distribution_id, action, user_id, notes, metadata, created_at
		FROM distribution_history
		WHERE distribution_id = $1
		ORDER BY created_at DESC, entry_id DESC;
	`
	rows, err := r.db.Query(ctx, query, distributionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list history of distribution %s: %w", distributionID, err)
	}
	defer rows.Close()

	entries := []domain.HistoryEntry{}
	for rows.Next() {
		var m models.HistoryEntry
		if err := rows.Scan(&m.EntryID, &m.DistributionID, &m.Action, &m.UserID, &m.Notes, &m.Metadata, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, mapping.ToDomainHistoryEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}
	return entries, nil
}
