package models

import "github.com/shopspring/decimal"

// Document is the common projection of the invoices and additional_documents tables.
type Document struct {
	DocumentKind    string          `db:"document_kind"`
	DocumentID      string          `db:"document_id"`
	DocumentNumber  string          `db:"document_number"`
	CurrentLocation string          `db:"current_location"`
	Amount          decimal.Decimal `db:"amount"`
}
