package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ManifestEvents are the events for which a manifest is archived.
var ManifestEvents = map[NotificationEvent]bool{
	EventSent:      true,
	EventCompleted: true,
}

// ManifestKey is the object key of a distribution's manifest for event.
func ManifestKey(distributionID string, event NotificationEvent) string {
	return fmt.Sprintf("distributions/%s/%s.json", distributionID, event)
}

// ManifestLine is one document listed on a manifest.
type ManifestLine struct {
	DocumentRef
	Number         string              `json:"number"`
	Amount         decimal.Decimal     `json:"amount"`
	AutoIncluded   bool                `json:"autoIncluded"`
	SenderStatus   *VerificationStatus `json:"senderStatus,omitempty"`
	ReceiverStatus *VerificationStatus `json:"receiverStatus,omitempty"`
}

// Manifest is the transmittal (on send) or receipt (on completion) archived for a distribution.
type Manifest struct {
	DistributionID          string            `json:"distributionID"`
	DistributionNumber      string            `json:"distributionNumber"`
	Event                   NotificationEvent `json:"event"`
	OriginDepartmentID      string            `json:"originDepartmentID"`
	DestinationDepartmentID string            `json:"destinationDepartmentID"`
	DocumentKind            DocumentKind      `json:"documentKind"`
	HasDiscrepancies        bool              `json:"hasDiscrepancies"`
	Lines                   []ManifestLine    `json:"lines"`
	InvoiceTotal            decimal.Decimal   `json:"invoiceTotal"`
	GeneratedAt             time.Time         `json:"generatedAt"`
}

// AddLine appends a line and keeps the invoice total current.
func (m *Manifest) AddLine(line ManifestLine) {
	m.Lines = append(m.Lines, line)
	if line.Kind == KindInvoice {
		m.InvoiceTotal = m.InvoiceTotal.Add(line.Amount)
	}
}
