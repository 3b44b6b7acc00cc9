package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/document_distribution_app/internal/apperrors"
	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	portsrepo "github.com/SscSPs/document_distribution_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// bundle is the validated, expanded document set for a distribution.
type bundle struct {
	Documents    []domain.DistributionDocument
	AutoIncluded []domain.DocumentRef
	Warnings     []domain.BundleWarning
	InvoiceTotal decimal.Decimal
}

// bundler validates requested documents against the caller's location and
// pulls in additional documents linked to bundled invoices.
type bundler struct {
	documents portsrepo.DocumentReader
	locations portsrepo.LocationReader
}

// currentLocation derives a document's location from the ledger, bypassing the cache.
func (b bundler) currentLocation(ctx context.Context, doc domain.Document) (string, error) {
	latest, err := b.locations.FindLatestLocation(ctx, doc.DocumentRef)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return "", err
		}
		latest = nil
	}
	return domain.ResolveCurrentLocation(doc, latest).LocationCode, nil
}

// Bundle expands refs into bundle rows. Every requested document must be of
// kind and sit at callerLocation. Documents already in existing are skipped,
// as are repeats within refs.
func (b bundler) Bundle(ctx context.Context, kind domain.DocumentKind, refs []domain.DocumentRef, callerLocation string, existing map[domain.DocumentRef]bool, now time.Time) (*bundle, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: document kind %q is not supported", apperrors.ErrValidation, kind)
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: at least one document is required", apperrors.ErrValidation)
	}

	seen := make(map[domain.DocumentRef]bool, len(existing)+len(refs))
	for ref := range existing {
		seen[ref] = true
	}

	out := &bundle{InvoiceTotal: decimal.Zero}
	for _, ref := range refs {
		if ref.Kind != kind {
			return nil, fmt.Errorf("%w: document %s does not match distribution kind %s", apperrors.ErrValidation, ref, kind)
		}
		if seen[ref] {
			continue
		}

		doc, err := b.documents.FindDocument(ctx, ref)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: document %s does not exist", apperrors.ErrValidation, ref)
			}
			return nil, err
		}
		loc, err := b.currentLocation(ctx, *doc)
		if err != nil {
			return nil, err
		}
		if loc != callerLocation {
			return nil, fmt.Errorf("%w: document %s (%s) is at %s, not at your location %s",
				apperrors.ErrValidation, ref, doc.Number, loc, callerLocation)
		}

		seen[ref] = true
		out.Documents = append(out.Documents, domain.DistributionDocument{DocumentRef: ref, CreatedAt: now})
		if kind != domain.KindInvoice {
			continue
		}
		out.InvoiceTotal = out.InvoiceTotal.Add(doc.Amount)

		if err := b.includeLinked(ctx, *doc, callerLocation, seen, out, now); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// includeLinked auto-includes the additional documents linked to invoice that share
// the caller's location and records a warning for each one that does not.
func (b bundler) includeLinked(ctx context.Context, invoice domain.Document, callerLocation string, seen map[domain.DocumentRef]bool, out *bundle, now time.Time) error {
	linked, err := b.documents.FindLinkedAdditionalDocuments(ctx, invoice.ID)
	if err != nil {
		return err
	}
	for _, add := range linked {
		if seen[add.DocumentRef] {
			continue
		}
		loc, err := b.currentLocation(ctx, add)
		if err != nil {
			return err
		}
		if loc != callerLocation {
			out.Warnings = append(out.Warnings, domain.BundleWarning{
				Document:         add.DocumentRef,
				DocumentNumber:   add.Number,
				InvoiceID:        invoice.ID,
				ExpectedLocation: callerLocation,
				ActualLocation:   loc,
				Message: fmt.Sprintf("additional document %s linked to invoice %s is at %s and was not included",
					add.Number, invoice.Number, loc),
			})
			continue
		}
		seen[add.DocumentRef] = true
		invoiceID := invoice.ID
		out.Documents = append(out.Documents, domain.DistributionDocument{
			DocumentRef:          add.DocumentRef,
			AutoIncluded:         true,
			IncludedViaInvoiceID: &invoiceID,
			CreatedAt:            now,
		})
		out.AutoIncluded = append(out.AutoIncluded, add.DocumentRef)
	}
	return nil
}
