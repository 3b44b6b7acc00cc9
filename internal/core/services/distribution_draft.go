package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/document_distribution_app/internal/apperrors"
	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	"github.com/SscSPs/document_distribution_app/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (s *distributionService) CreateDistribution(ctx context.Context, actor domain.Actor, req dto.CreateDistributionRequest) (*domain.CreateDistributionResult, error) {
	if req.DocumentKind == "" {
		return nil, fmt.Errorf("%w: document kind is required", apperrors.ErrValidation)
	}
	kind := domain.DocumentKind(req.DocumentKind)
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: document kind %q is not supported", apperrors.ErrValidation, req.DocumentKind)
	}

	origin := actor.DepartmentID
	if req.OriginDepartmentID != nil && *req.OriginDepartmentID != "" {
		origin = *req.OriginDepartmentID
	}
	if origin == req.DestinationDepartmentID {
		return nil, fmt.Errorf("%w: origin and destination departments must differ", apperrors.ErrValidation)
	}

	dtype, err := s.typeRepo.FindDistributionTypeByID(ctx, req.TypeID)
	if err != nil {
		return nil, asValidation(err, "distribution type %s does not exist", req.TypeID)
	}
	originLocation, err := s.departmentLocation(ctx, origin)
	if err != nil {
		return nil, asValidation(err, "origin department %s does not exist", origin)
	}
	if _, err := s.departmentRepo.FindDepartmentByID(ctx, req.DestinationDepartmentID); err != nil {
		return nil, asValidation(err, "destination department %s does not exist", req.DestinationDepartmentID)
	}
	callerLocation := originLocation
	if origin != actor.DepartmentID {
		callerLocation, err = s.departmentLocation(ctx, actor.DepartmentID)
		if err != nil {
			return nil, asValidation(err, "your department %s does not exist", actor.DepartmentID)
		}
	}

	now := s.Now()
	b, err := s.bundler.Bundle(ctx, kind, dto.ToDocumentRefs(req.Documents), callerLocation, nil, now)
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to bundle documents", "")
	}

	d := domain.Distribution{
		DistributionID:          uuid.NewString(),
		TypeID:                  dtype.TypeID,
		OriginDepartmentID:      origin,
		DestinationDepartmentID: req.DestinationDepartmentID,
		DocumentKind:            kind,
		Status:                  domain.StatusDraft,
		Notes:                   req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	for i := range b.Documents {
		b.Documents[i].DistributionID = d.DistributionID
	}

	err = withTx(ctx, s.distributionRepo, func(tx pgx.Tx) error {
		number, err := s.numbers.Next(ctx, tx, now, originLocation, dtype.Code)
		if err != nil {
			return err
		}
		d.DistributionNumber = number

		if err := s.distributionRepo.SaveDistribution(ctx, tx, d); err != nil {
			return err
		}
		if err := s.distributionRepo.AddDistributionDocuments(ctx, tx, b.Documents); err != nil {
			return err
		}
		entry := newHistoryEntry(&d, domain.ActionCreated, actor.UserID, req.Notes, map[string]any{
			"distribution_number": number,
			"documents":           len(b.Documents),
			"auto_included":       len(b.AutoIncluded),
			"warnings":            len(b.Warnings),
		}, now)
		if err := s.historyRepo.AppendHistory(ctx, tx, []domain.HistoryEntry{entry}); err != nil {
			return err
		}
		return s.outbox.EnqueueNotifications(ctx, tx, []domain.OutboxMessage{
			newOutboxMessage(&d, domain.EventCreated, nil, now),
		})
	})
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to create distribution", d.DistributionID)
	}
	s.afterCommit(ctx, true, nil)

	s.LogInfo(ctx, "Distribution created",
		slog.String("distribution_id", d.DistributionID),
		slog.String("distribution_number", d.DistributionNumber),
		slog.Int("documents", len(b.Documents)),
		slog.Int("warnings", len(b.Warnings)))

	return &domain.CreateDistributionResult{
		Distribution: d,
		Documents:    b.Documents,
		AutoIncluded: b.AutoIncluded,
		Warnings:     b.Warnings,
		InvoiceTotal: b.InvoiceTotal,
	}, nil
}

func (s *distributionService) UpdateDistribution(ctx context.Context, actor domain.Actor, distributionID string, req dto.UpdateDistributionRequest) (*domain.Distribution, error) {
	var updated *domain.Distribution
	err := withTx(ctx, s.distributionRepo, func(tx pgx.Tx) error {
		d, err := s.distributionRepo.LockDistribution(ctx, tx, distributionID)
		if err != nil {
			return err
		}
		if err := d.RequireStatus(domain.StatusDraft); err != nil {
			return err
		}

		changed := map[string]any{}
		if req.TypeID != nil && *req.TypeID != d.TypeID {
			if _, err := s.typeRepo.FindDistributionTypeByID(ctx, *req.TypeID); err != nil {
				return asValidation(err, "distribution type %s does not exist", *req.TypeID)
			}
			changed["type_id"] = map[string]any{"from": d.TypeID, "to": *req.TypeID}
			d.TypeID = *req.TypeID
		}
		if req.DestinationDepartmentID != nil && *req.DestinationDepartmentID != d.DestinationDepartmentID {
			dest := *req.DestinationDepartmentID
			if dest == d.OriginDepartmentID {
				return fmt.Errorf("%w: origin and destination departments must differ", apperrors.ErrValidation)
			}
			if _, err := s.departmentRepo.FindDepartmentByID(ctx, dest); err != nil {
				return asValidation(err, "destination department %s does not exist", dest)
			}
			changed["destination_department_id"] = map[string]any{"from": d.DestinationDepartmentID, "to": dest}
			d.DestinationDepartmentID = dest
		}
		if req.Notes != nil && *req.Notes != d.Notes {
			changed["notes"] = true
			d.Notes = *req.Notes
		}
		if len(changed) == 0 {
			updated = d
			return nil
		}

		now := s.Now()
		d.LastUpdatedAt = now
		d.LastUpdatedBy = actor.UserID
		if err := s.distributionRepo.UpdateDistribution(ctx, tx, *d); err != nil {
			return err
		}
		entry := newHistoryEntry(d, domain.ActionUpdated, actor.UserID, "", changed, now)
		if err := s.historyRepo.AppendHistory(ctx, tx, []domain.HistoryEntry{entry}); err != nil {
			return err
		}
		updated = d
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to update distribution", distributionID)
	}
	return updated, nil
}

// DeleteDistribution soft-deletes a draft. Any other status is reported as
// false without touching the row.
func (s *distributionService) DeleteDistribution(ctx context.Context, actor domain.Actor, distributionID string) (bool, error) {
	deleted := false
	err := withTx(ctx, s.distributionRepo, func(tx pgx.Tx) error {
		d, err := s.distributionRepo.LockDistribution(ctx, tx, distributionID)
		if err != nil {
			return err
		}
		if d.Status != domain.StatusDraft {
			return nil
		}

		now := s.Now()
		d.DeletedAt = &now
		d.LastUpdatedAt = now
		d.LastUpdatedBy = actor.UserID
		if err := s.distributionRepo.UpdateDistribution(ctx, tx, *d); err != nil {
			return err
		}
		entry := newHistoryEntry(d, domain.ActionDeleted, actor.UserID, "", nil, now)
		if err := s.historyRepo.AppendHistory(ctx, tx, []domain.HistoryEntry{entry}); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, s.fail(ctx, err, "Failed to delete distribution", distributionID)
	}
	if !deleted {
		s.LogDebug(ctx, "Distribution not deleted, no longer a draft", slog.String("distribution_id", distributionID))
	}
	return deleted, nil
}

func (s *distributionService) AttachDocuments(ctx context.Context, actor domain.Actor, distributionID string, req dto.AttachDocumentsRequest) (*domain.CreateDistributionResult, error) {
	callerLocation, err := s.departmentLocation(ctx, actor.DepartmentID)
	if err != nil {
		return nil, asValidation(err, "your department %s does not exist", actor.DepartmentID)
	}

	var result *domain.CreateDistributionResult
	err = withTx(ctx, s.distributionRepo, func(tx pgx.Tx) error {
		d, err := s.distributionRepo.LockDistribution(ctx, tx, distributionID)
		if err != nil {
			return err
		}
		if err := d.RequireStatus(domain.StatusDraft); err != nil {
			return err
		}
		existing, err := s.distributionRepo.FindDistributionDocumentsInTx(ctx, tx, distributionID)
		if err != nil {
			return err
		}

		now := s.Now()
		b, err := s.bundler.Bundle(ctx, d.DocumentKind, dto.ToDocumentRefs(req.Documents), callerLocation, refSet(existing), now)
		if err != nil {
			return err
		}
		result = &domain.CreateDistributionResult{
			Distribution: *d,
			Documents:    existing,
			AutoIncluded: b.AutoIncluded,
			Warnings:     b.Warnings,
			InvoiceTotal: b.InvoiceTotal,
		}
		if len(b.Documents) == 0 {
			return nil
		}

		for i := range b.Documents {
			b.Documents[i].DistributionID = d.DistributionID
		}
		if err := s.distributionRepo.AddDistributionDocuments(ctx, tx, b.Documents); err != nil {
			return err
		}
		d.LastUpdatedAt = now
		d.LastUpdatedBy = actor.UserID
		if err := s.distributionRepo.UpdateDistribution(ctx, tx, *d); err != nil {
			return err
		}
		attached := make([]string, len(b.Documents))
		for i, doc := range b.Documents {
			attached[i] = doc.DocumentRef.String()
		}
		entry := newHistoryEntry(d, domain.ActionDocumentsAttached, actor.UserID, "", map[string]any{
			"documents":     attached,
			"auto_included": len(b.AutoIncluded),
			"warnings":      len(b.Warnings),
		}, now)
		if err := s.historyRepo.AppendHistory(ctx, tx, []domain.HistoryEntry{entry}); err != nil {
			return err
		}

		result.Distribution = *d
		result.Documents = append(existing, b.Documents...)
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to attach documents", distributionID)
	}
	return result, nil
}

// DetachDocument removes ref from a draft. Detaching an invoice also removes
// the additional documents auto-included through it.
func (s *distributionService) DetachDocument(ctx context.Context, actor domain.Actor, distributionID string, ref domain.DocumentRef) (*domain.DistributionDetail, error) {
	var detail *domain.DistributionDetail
	err := withTx(ctx, s.distributionRepo, func(tx pgx.Tx) error {
		d, err := s.distributionRepo.LockDistribution(ctx, tx, distributionID)
		if err != nil {
			return err
		}
		if err := d.RequireStatus(domain.StatusDraft); err != nil {
			return err
		}
		docs, err := s.distributionRepo.FindDistributionDocumentsInTx(ctx, tx, distributionID)
		if err != nil {
			return err
		}
		if !refSet(docs)[ref] {
			return fmt.Errorf("%w: document %s is not part of distribution %s", apperrors.ErrNotFound, ref, d.DistributionNumber)
		}

		remove := []domain.DocumentRef{ref}
		var cascaded []string
		remaining := make([]domain.DistributionDocument, 0, len(docs))
		for _, doc := range docs {
			switch {
			case doc.DocumentRef == ref:
			case ref.Kind == domain.KindInvoice && doc.AutoIncluded && doc.IncludedViaInvoiceID != nil && *doc.IncludedViaInvoiceID == ref.ID:
				remove = append(remove, doc.DocumentRef)
				cascaded = append(cascaded, doc.DocumentRef.String())
			default:
				remaining = append(remaining, doc)
			}
		}
		if len(remaining) == 0 {
			return fmt.Errorf("%w: a distribution must keep at least one document", apperrors.ErrValidation)
		}

		if _, err := s.distributionRepo.RemoveDistributionDocuments(ctx, tx, distributionID, remove); err != nil {
			return err
		}
		now := s.Now()
		d.LastUpdatedAt = now
		d.LastUpdatedBy = actor.UserID
		if err := s.distributionRepo.UpdateDistribution(ctx, tx, *d); err != nil {
			return err
		}
		metadata := map[string]any{"document": ref.String()}
		if len(cascaded) > 0 {
			metadata["cascaded"] = cascaded
		}
		entry := newHistoryEntry(d, domain.ActionDocumentDetached, actor.UserID, "", metadata, now)
		if err := s.historyRepo.AppendHistory(ctx, tx, []domain.HistoryEntry{entry}); err != nil {
			return err
		}

		detail = &domain.DistributionDetail{Distribution: *d, Documents: remaining}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to detach document", distributionID)
	}
	return detail, nil
}
