package repositories

import (
	"context"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// HistoryRepository persists the per-distribution audit log.
type HistoryRepository interface {
	// AppendHistory inserts entries in order.
	AppendHistory(ctx context.Context, tx pgx.Tx, entries []domain.HistoryEntry) error

	// ListHistory returns a distribution's entries in reverse-chronological order.
	ListHistory(ctx context.Context, distributionID string) ([]domain.HistoryEntry, error)
}
