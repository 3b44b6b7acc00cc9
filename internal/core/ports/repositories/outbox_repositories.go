package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// OutboxWriter enqueues notifications inside the state change's transaction.
type OutboxWriter interface {
	EnqueueNotifications(ctx context.Context, tx pgx.Tx, messages []domain.OutboxMessage) error
}

// OutboxDispatchStore is used by the dispatcher to claim and settle messages.
type OutboxDispatchStore interface {
	// ClaimPendingNotifications locks up to limit pending messages, skipping rows locked by another dispatcher.
	ClaimPendingNotifications(ctx context.Context, tx pgx.Tx, limit int) ([]domain.OutboxMessage, error)

	MarkNotificationDispatched(ctx context.Context, tx pgx.Tx, messageID string, dispatchedAt time.Time) error

	// MarkNotificationAttemptFailed records a failed attempt; terminal moves the message to failed.
	MarkNotificationAttemptFailed(ctx context.Context, tx pgx.Tx, messageID string, lastError string, terminal bool) error
}

// OutboxRepositoryWithTx combines the outbox interfaces with transaction capabilities
type OutboxRepositoryWithTx interface {
	OutboxWriter
	OutboxDispatchStore
	TransactionManager
}
