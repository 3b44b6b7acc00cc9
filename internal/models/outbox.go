package models

import "time"

// OutboxMessage represents a row of the notification_outbox table.
type OutboxMessage struct {
	MessageID      string         `db:"message_id"`
	DistributionID string         `db:"distribution_id"`
	Event          string         `db:"event"`
	Payload        map[string]any `db:"payload"`
	Status         string         `db:"status"`
	Attempts       int            `db:"attempts"`
	LastError      *string        `db:"last_error"`
	CreatedAt      time.Time      `db:"created_at"`
	DispatchedAt   *time.Time     `db:"dispatched_at"`
}
