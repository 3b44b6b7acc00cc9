package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	portsrepo "github.com/SscSPs/document_distribution_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/document_distribution_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// ManifestSink archives a transmittal manifest when a distribution is sent and
// a receipt manifest when it is completed. Other events are ignored.
type ManifestSink struct {
	documents portsrepo.DocumentReader
	store     portssvc.ManifestStore
	now       func() time.Time
}

func NewManifestSink(documents portsrepo.DocumentReader, store portssvc.ManifestStore) *ManifestSink {
	return &ManifestSink{documents: documents, store: store, now: func() time.Time { return time.Now().UTC() }}
}

func (s *ManifestSink) Notify(ctx context.Context, n portssvc.Notification) error {
	if !domain.ManifestEvents[n.Event] {
		return nil
	}
	manifest, err := s.build(ctx, n)
	if err != nil {
		return err
	}
	body, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := s.store.PutManifest(ctx, domain.ManifestKey(n.Distribution.DistributionID, n.Event), body); err != nil {
		return fmt.Errorf("store manifest: %w", err)
	}
	return nil
}

func (s *ManifestSink) build(ctx context.Context, n portssvc.Notification) (*domain.Manifest, error) {
	d := n.Distribution
	m := &domain.Manifest{
		DistributionID:          d.DistributionID,
		DistributionNumber:      d.DistributionNumber,
		Event:                   n.Event,
		OriginDepartmentID:      d.OriginDepartmentID,
		DestinationDepartmentID: d.DestinationDepartmentID,
		DocumentKind:            d.DocumentKind,
		HasDiscrepancies:        d.HasDiscrepancies,
		Lines:                   make([]domain.ManifestLine, 0, len(n.Documents)),
		InvoiceTotal:            decimal.Zero,
		GeneratedAt:             s.now(),
	}
	for _, bundled := range n.Documents {
		doc, err := s.documents.FindDocument(ctx, bundled.DocumentRef)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", bundled.DocumentRef, err)
		}
		m.AddLine(domain.ManifestLine{
			DocumentRef:    bundled.DocumentRef,
			Number:         doc.Number,
			Amount:         doc.Amount,
			AutoIncluded:   bundled.AutoIncluded,
			SenderStatus:   bundled.SenderStatus,
			ReceiverStatus: bundled.ReceiverStatus,
		})
	}
	return m, nil
}
