package models

import "time"

// LocationRecord represents a row of the document_locations ledger.
type LocationRecord struct {
	RecordID       int64     `db:"record_id"`
	DocumentKind   string    `db:"document_kind"`
	DocumentID     string    `db:"document_id"`
	LocationCode   string    `db:"location_code"`
	MovedBy        *string   `db:"moved_by"`
	MovedAt        time.Time `db:"moved_at"`
	DistributionID *string   `db:"distribution_id"`
	Reason         string    `db:"reason"`
}
