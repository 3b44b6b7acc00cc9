package models

import "time"

// Distribution represents a row of the distributions table.
type Distribution struct {
	DistributionID          string     `db:"distribution_id"`
	DistributionNumber      string     `db:"distribution_number"`
	TypeID                  string     `db:"type_id"`
	OriginDepartmentID      string     `db:"origin_department_id"`
	DestinationDepartmentID string     `db:"destination_department_id"`
	DocumentKind            string     `db:"document_kind"`
	Status                  string     `db:"status"`
	Notes                   string     `db:"notes"`
	SenderVerifiedAt        *time.Time `db:"sender_verified_at"`
	SenderVerifiedBy        *string    `db:"sender_verified_by"`
	SenderNotes             string     `db:"sender_notes"`
	SentAt                  *time.Time `db:"sent_at"`
	ReceivedAt              *time.Time `db:"received_at"`
	ReceiverVerifiedAt      *time.Time `db:"receiver_verified_at"`
	ReceiverVerifiedBy      *string    `db:"receiver_verified_by"`
	ReceiverNotes           string     `db:"receiver_notes"`
	CompletedAt             *time.Time `db:"completed_at"`
	HasDiscrepancies        bool       `db:"has_discrepancies"`
	DeletedAt               *time.Time `db:"deleted_at"`
	AuditFields
}

// DistributionDocument represents a row of the distribution_documents table.
type DistributionDocument struct {
	DistributionID       string    `db:"distribution_id"`
	DocumentKind         string    `db:"document_kind"`
	DocumentID           string    `db:"document_id"`
	AutoIncluded         bool      `db:"auto_included"`
	IncludedViaInvoiceID *string   `db:"included_via_invoice_id"`
	SenderVerified       bool      `db:"sender_verified"`
	SenderStatus         *string   `db:"sender_verification_status"`
	SenderNotes          *string   `db:"sender_verification_notes"`
	ReceiverVerified     bool      `db:"receiver_verified"`
	ReceiverStatus       *string   `db:"receiver_verification_status"`
	ReceiverNotes        *string   `db:"receiver_verification_notes"`
	CreatedAt            time.Time `db:"created_at"`
}
