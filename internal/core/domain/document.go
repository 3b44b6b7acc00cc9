package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DocumentKind discriminates which document store a reference points to.
type DocumentKind string

const (
	KindInvoice            DocumentKind = "invoice"
	KindAdditionalDocument DocumentKind = "additional_document"
)

// IsValid reports whether k is a known document kind.
func (k DocumentKind) IsValid() bool {
	return k == KindInvoice || k == KindAdditionalDocument
}

// DocumentRef is a tagged reference to one concrete document.
type DocumentRef struct {
	Kind DocumentKind `json:"documentKind"`
	ID   string       `json:"documentID"`
}

func (r DocumentRef) String() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}

// Document is the slice of an invoice or additional document this service
// consumes. Location is the document's own stored location field, used as
// the fallback when the ledger has no record for it.
type Document struct {
	DocumentRef
	Number   string          `json:"number"`
	Location string          `json:"location"`
	Amount   decimal.Decimal `json:"amount"` // invoices only
}
