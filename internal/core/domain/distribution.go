package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/document_distribution_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// DistributionStatus is the lifecycle state of a distribution.
type DistributionStatus string

const (
	StatusDraft              DistributionStatus = "draft"
	StatusVerifiedBySender   DistributionStatus = "verified_by_sender"
	StatusSent               DistributionStatus = "sent"
	StatusReceived           DistributionStatus = "received"
	StatusVerifiedByReceiver DistributionStatus = "verified_by_receiver"
	StatusCompleted          DistributionStatus = "completed"
)

// statusOrder is the only path a distribution may take.
var statusOrder = []DistributionStatus{
	StatusDraft,
	StatusVerifiedBySender,
	StatusSent,
	StatusReceived,
	StatusVerifiedByReceiver,
	StatusCompleted,
}

func (s DistributionStatus) position() int {
	for i, st := range statusOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// IsValid reports whether s is one of the six lifecycle states.
func (s DistributionStatus) IsValid() bool {
	return s.position() >= 0
}

// Next returns the status that immediately follows s.
func (s DistributionStatus) Next() (DistributionStatus, bool) {
	pos := s.position()
	if pos < 0 || pos == len(statusOrder)-1 {
		return "", false
	}
	return statusOrder[pos+1], true
}

// IsTerminal reports whether no further transition is possible from s.
func (s DistributionStatus) IsTerminal() bool {
	return s == StatusCompleted
}

// CanTransition reports whether a distribution in status from may move to status to.
// Only the immediate successor is allowed.
func CanTransition(from, to DistributionStatus) bool {
	next, ok := from.Next()
	return ok && next == to
}

// Distribution is an envelope moving a set of documents from one department to another.
type Distribution struct {
	DistributionID          string             `json:"distributionID"`
	DistributionNumber      string             `json:"distributionNumber"`
	TypeID                  string             `json:"typeID"`
	OriginDepartmentID      string             `json:"originDepartmentID"`
	DestinationDepartmentID string             `json:"destinationDepartmentID"`
	DocumentKind            DocumentKind       `json:"documentKind"`
	Status                  DistributionStatus `json:"status"`
	Notes                   string             `json:"notes"`
	SenderVerifiedAt        *time.Time         `json:"senderVerifiedAt,omitempty"`
	SenderVerifiedBy        *string            `json:"senderVerifiedBy,omitempty"`
	SenderNotes             string             `json:"senderNotes"`
	SentAt                  *time.Time         `json:"sentAt,omitempty"`
	ReceivedAt              *time.Time         `json:"receivedAt,omitempty"`
	ReceiverVerifiedAt      *time.Time         `json:"receiverVerifiedAt,omitempty"`
	ReceiverVerifiedBy      *string            `json:"receiverVerifiedBy,omitempty"`
	ReceiverNotes           string             `json:"receiverNotes"`
	CompletedAt             *time.Time         `json:"completedAt,omitempty"`
	HasDiscrepancies        bool               `json:"hasDiscrepancies"`
	DeletedAt               *time.Time         `json:"deletedAt,omitempty"`
	AuditFields
}

// RequireStatus returns an ErrInvalidState error unless d is in status s.
func (d *Distribution) RequireStatus(s DistributionStatus) error {
	if d.Status != s {
		return fmt.Errorf("%w: distribution %s is %s, expected %s", apperrors.ErrInvalidState, d.DistributionNumber, d.Status, s)
	}
	return nil
}

// Transition advances d to status to and stamps the milestone for it.
func (d *Distribution) Transition(to DistributionStatus, userID string, at time.Time) error {
	if !CanTransition(d.Status, to) {
		return fmt.Errorf("%w: distribution %s cannot move from %s to %s", apperrors.ErrInvalidState, d.DistributionNumber, d.Status, to)
	}
	d.Status = to
	switch to {
	case StatusVerifiedBySender:
		d.SenderVerifiedAt = &at
		d.SenderVerifiedBy = &userID
	case StatusSent:
		d.SentAt = &at
	case StatusReceived:
		d.ReceivedAt = &at
	case StatusVerifiedByReceiver:
		d.ReceiverVerifiedAt = &at
		d.ReceiverVerifiedBy = &userID
	case StatusCompleted:
		d.CompletedAt = &at
	}
	d.LastUpdatedAt = at
	d.LastUpdatedBy = userID
	return nil
}

// VerificationStatus is the outcome recorded for one document at a verification step.
type VerificationStatus string

const (
	VerificationVerified VerificationStatus = "verified"
	VerificationMissing  VerificationStatus = "missing"
	VerificationDamaged  VerificationStatus = "damaged"
)

func (v VerificationStatus) IsValid() bool {
	return v == VerificationVerified || v == VerificationMissing || v == VerificationDamaged
}

// IsDiscrepancy reports whether v marks the document as missing or damaged.
func (v VerificationStatus) IsDiscrepancy() bool {
	return v == VerificationMissing || v == VerificationDamaged
}

// VerificationSide selects which half of a DistributionDocument a verification writes.
type VerificationSide string

const (
	SideSender   VerificationSide = "sender"
	SideReceiver VerificationSide = "receiver"
)

// DistributionDocument joins a distribution to one bundled document.
type DistributionDocument struct {
	DistributionID string `json:"distributionID"`
	DocumentRef
	// AutoIncluded is set for additional documents pulled in through an invoice.
	AutoIncluded         bool                `json:"autoIncluded"`
	IncludedViaInvoiceID *string             `json:"includedViaInvoiceID,omitempty"`
	SenderVerified       bool                `json:"senderVerified"`
	SenderStatus         *VerificationStatus `json:"senderStatus,omitempty"`
	SenderNotes          *string             `json:"senderNotes,omitempty"`
	ReceiverVerified     bool                `json:"receiverVerified"`
	ReceiverStatus       *VerificationStatus `json:"receiverStatus,omitempty"`
	ReceiverNotes        *string             `json:"receiverNotes,omitempty"`
	CreatedAt            time.Time           `json:"createdAt"`
}

// DocumentVerification is one per-document verification outcome.
type DocumentVerification struct {
	DocumentRef
	Status VerificationStatus `json:"status"`
	Notes  string             `json:"notes"`
}

// DistributionDetail is a distribution together with its bundled documents.
type DistributionDetail struct {
	Distribution
	Documents []DistributionDocument `json:"documents"`
}

// BundleWarning is a non-fatal bundling finding, raised when a document linked to a
// bundled invoice sits at another location and was left out.
type BundleWarning struct {
	Document         DocumentRef `json:"document"`
	DocumentNumber   string      `json:"documentNumber"`
	InvoiceID        string      `json:"invoiceID"`
	ExpectedLocation string      `json:"expectedLocation"`
	ActualLocation   string      `json:"actualLocation"`
	Message          string      `json:"message"`
}

// CreateDistributionResult is what create hands back: the draft, its bundle and any warnings.
type CreateDistributionResult struct {
	Distribution Distribution           `json:"distribution"`
	Documents    []DistributionDocument `json:"documents"`
	AutoIncluded []DocumentRef          `json:"autoIncluded"`
	Warnings     []BundleWarning        `json:"warnings"`
	InvoiceTotal decimal.Decimal        `json:"invoiceTotal"`
}
