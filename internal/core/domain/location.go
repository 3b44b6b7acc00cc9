package domain

import "time"

// LocationRecord is one append-only entry in a document's location ledger.
type LocationRecord struct {
	RecordID int64 `json:"recordID"`
	DocumentRef
	LocationCode   string    `json:"locationCode"`
	MovedBy        *string   `json:"movedBy,omitempty"` // nil for system-initiated moves
	MovedAt        time.Time `json:"movedAt"`
	DistributionID *string   `json:"distributionID,omitempty"`
	Reason         string    `json:"reason"`
}

// LocationSource tells where a current location was derived from.
type LocationSource string

const (
	LocationFromLedger   LocationSource = "ledger"
	LocationFromDocument LocationSource = "document"
)

// CurrentLocation is the derived location of a document: the latest ledger
// record, or the document's stored field when the ledger is empty.
type CurrentLocation struct {
	DocumentRef
	LocationCode string         `json:"locationCode"`
	Source       LocationSource `json:"source"`
	AsOf         *time.Time     `json:"asOf,omitempty"`
}

// ResolveCurrentLocation applies the latest-record-wins rule with the document fallback.
func ResolveCurrentLocation(doc Document, latest *LocationRecord) CurrentLocation {
	if latest != nil {
		movedAt := latest.MovedAt
		return CurrentLocation{
			DocumentRef:  doc.DocumentRef,
			LocationCode: latest.LocationCode,
			Source:       LocationFromLedger,
			AsOf:         &movedAt,
		}
	}
	return CurrentLocation{
		DocumentRef:  doc.DocumentRef,
		LocationCode: doc.Location,
		Source:       LocationFromDocument,
	}
}
