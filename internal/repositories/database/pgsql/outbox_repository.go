package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/document_distribution_app/internal/apperrors"
	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	portsrepo "github.com/SscSPs/document_distribution_app/internal/core/ports/repositories"
	"github.com/SscSPs/document_distribution_app/internal/models"
	"github.com/SscSPs/document_distribution_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

// PgxOutboxRepository persists notifications committed alongside state changes.
type PgxOutboxRepository struct {
	BaseRepository
}

func newPgxOutboxRepository(pool PgxPool) portsrepo.OutboxRepositoryWithTx {
	return &PgxOutboxRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OutboxRepositoryWithTx = (*PgxOutboxRepository)(nil)

// EnqueueNotifications inserts pending messages inside the caller's transaction.
func (r *PgxOutboxRepository) EnqueueNotifications(ctx context.Context, tx pgx.Tx, messages []domain.OutboxMessage) error {
	query := `
		INSERT INTO notification_outbox (message_id, distribution_id, event, payload, status, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, msg := range messages {
		m := mapping.ToModelOutboxMessage(msg)
		batch.Queue(query, m.MessageID, m.DistributionID, m.Event, m.Payload, m.Status, m.Attempts, m.CreatedAt)
	}
	if err := sendBatch(ctx, tx, batch); err != nil {
		return fmt.Errorf("failed to enqueue notifications: %w", err)
	}
	return nil
}

// ClaimPendingNotifications locks the oldest pending messages. Rows already locked by
// another dispatcher are skipped rather than waited on.
func (r *PgxOutboxRepository) ClaimPendingNotifications(ctx context.Context, tx pgx.Tx, limit int) ([]domain.OutboxMessage, error) {
	query := `
		SELECT message_id, distribution_id, event, payload, status, attempts, last_error, created_at, dispatched_at
		FROM notification_outbox
		WHERE status = 'pending'
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED;
	`
	rows, err := tx.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to claim pending notifications: %w", err)
	}
	defer rows.Close()

	var out []domain.OutboxMessage
	for rows.Next() {
		var m models.OutboxMessage
		if err := rows.Scan(&m.MessageID, &m.DistributionID, &m.Event, &m.Payload, &m.Status, &m.Attempts, &m.LastError, &m.CreatedAt, &m.DispatchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox row: %w", err)
		}
		out = append(out, mapping.ToDomainOutboxMessage(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outbox rows: %w", err)
	}
	return out, nil
}

func (r *PgxOutboxRepository) MarkNotificationDispatched(ctx context.Context, tx pgx.Tx, messageID string, dispatchedAt time.Time) error {
	query := `
		UPDATE notification_outbox
		SET status = 'dispatched', attempts = attempts + 1, dispatched_at = $2, last_error = NULL
		WHERE message_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, messageID, dispatchedAt)
	if err != nil {
		return fmt.Errorf("failed to mark notification %s dispatched: %w", messageID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: notification %s", apperrors.ErrNotFound, messageID)
	}
	return nil
}

func (r *PgxOutboxRepository) MarkNotificationAttemptFailed(ctx context.Context, tx pgx.Tx, messageID string, lastError string, terminal bool) error {
	status := domain.OutboxPending
	if terminal {
		status = domain.OutboxFailed
	}
	query := `
		UPDATE notification_outbox
		SET status = $2, attempts = attempts + 1, last_error = $3
		WHERE message_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, messageID, string(status), lastError)
	if err != nil {
		return fmt.Errorf("failed to record failed attempt for notification %s: %w", messageID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: notification %s", apperrors.ErrNotFound, messageID)
	}
	return nil
}
