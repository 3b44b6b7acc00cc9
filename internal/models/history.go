package models

import "time"

// HistoryEntry represents a row of the distribution_history table.
// Metadata is stored as JSONB.
type HistoryEntry struct {
	EntryID        int64          `db:"entry_id"`
	DistributionID string         `db:"distribution_id"`
	Action         string         `db:"action"`
	UserID         string         `db:"user_id"`
	Notes          *string        `db:"notes"`
	Metadata       map[string]any `db:"metadata"`
	CreatedAt      time.Time      `db:"created_at"`
}
