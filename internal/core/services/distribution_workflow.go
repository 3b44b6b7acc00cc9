package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	"github.com/SscSPs/document_distribution_app/internal/dto"
	"github.com/jackc/pgx/v5"
)

// transition is one locked status change. apply runs after the status check and
// before the row is written; it returns extra history entries and outbox messages.
type transition struct {
	to    domain.DistributionStatus
	notes string
	apply func(ctx context.Context, tx pgx.Tx, d *domain.Distribution) (*transitionEffects, error)
}

type transitionEffects struct {
	metadata map[string]any
	history  []domain.HistoryEntry
	outbox   []domain.OutboxMessage
	moved    []domain.DocumentRef
}

// advance locks the distribution, checks that to is its immediate successor
// status and commits the move together with its history and outbox rows.
func (s *distributionService) advance(ctx context.Context, actor domain.Actor, distributionID string, t transition) (*domain.Distribution, error) {
	var (
		result  *domain.Distribution
		effects *transitionEffects
	)
	err := withTx(ctx, s.distributionRepo, func(tx pgx.Tx) error {
		d, err := s.distributionRepo.LockDistribution(ctx, tx, distributionID)
		if err != nil {
			return err
		}
		if !domain.CanTransition(d.Status, t.to) {
			// Transition reports the status mismatch
			return d.Transition(t.to, actor.UserID, s.Now())
		}

		effects = &transitionEffects{}
		if t.apply != nil {
			if effects, err = t.apply(ctx, tx, d); err != nil {
				return err
			}
		}

		now := s.Now()
		if err := d.Transition(t.to, actor.UserID, now); err != nil {
			return err
		}
		if err := s.distributionRepo.UpdateDistribution(ctx, tx, *d); err != nil {
			return err
		}

		action, _ := domain.ActionForStatus(t.to)
		entries := make([]domain.HistoryEntry, 0, 1+len(effects.history))
		entries = append(entries, newHistoryEntry(d, action, actor.UserID, t.notes, effects.metadata, now))
		for _, e := range effects.history {
			e.DistributionID = d.DistributionID
			e.CreatedAt = now
			entries = append(entries, e)
		}
		if err := s.historyRepo.AppendHistory(ctx, tx, entries); err != nil {
			return err
		}

		if event, ok := statusEvents[t.to]; ok {
			effects.outbox = append([]domain.OutboxMessage{newOutboxMessage(d, event, nil, now)}, effects.outbox...)
		}
		for i := range effects.outbox {
			effects.outbox[i].Payload["status"] = string(d.Status)
			effects.outbox[i].CreatedAt = now
		}
		if len(effects.outbox) > 0 {
			if err := s.outbox.EnqueueNotifications(ctx, tx, effects.outbox); err != nil {
				return err
			}
		}

		result = d
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to move distribution to "+string(t.to), distributionID)
	}

	s.afterCommit(ctx, len(effects.outbox) > 0, effects.moved)
	s.LogInfo(ctx, "Distribution status changed",
		slog.String("distribution_id", result.DistributionID),
		slog.String("distribution_number", result.DistributionNumber),
		slog.String("status", string(result.Status)))
	return result, nil
}

// statusEvents are the transitions that notify on their own.
var statusEvents = map[domain.DistributionStatus]domain.NotificationEvent{
	domain.StatusSent:      domain.EventSent,
	domain.StatusReceived:  domain.EventReceived,
	domain.StatusCompleted: domain.EventCompleted,
}

func (s *distributionService) VerifySender(ctx context.Context, actor domain.Actor, distributionID string, req dto.VerifySenderRequest) (*domain.Distribution, error) {
	return s.advance(ctx, actor, distributionID, transition{
		to:    domain.StatusVerifiedBySender,
		notes: req.Notes,
		apply: func(ctx context.Context, tx pgx.Tx, d *domain.Distribution) (*transitionEffects, error) {
			docs, err := s.distributionRepo.FindDistributionDocumentsInTx(ctx, tx, d.DistributionID)
			if err != nil {
				return nil, err
			}
			verifications, err := checkVerifications(docs, dto.ToDocumentVerifications(req.Verifications))
			if err != nil {
				return nil, err
			}
			// Sender-side discrepancies are recorded but never block.
			if err := s.distributionRepo.SaveVerifications(ctx, tx, d.DistributionID, domain.SideSender, verifications); err != nil {
				return nil, err
			}
			d.SenderNotes = req.Notes
			return &transitionEffects{metadata: map[string]any{
				"verified":      len(verifications),
				"discrepancies": len(domain.CollectDiscrepancies(verifications)),
			}}, nil
		},
	})
}

func (s *distributionService) Send(ctx context.Context, actor domain.Actor, distributionID string) (*domain.Distribution, error) {
	return s.advance(ctx, actor, distributionID, transition{to: domain.StatusSent})
}

// Receive relocates every bundled document, auto-included ones too, to the
// destination department's location.
func (s *distributionService) Receive(ctx context.Context, actor domain.Actor, distributionID string) (*domain.Distribution, error) {
	return s.advance(ctx, actor, distributionID, transition{
		to: domain.StatusReceived,
		apply: func(ctx context.Context, tx pgx.Tx, d *domain.Distribution) (*transitionEffects, error) {
			destination, err := s.departmentLocation(ctx, d.DestinationDepartmentID)
			if err != nil {
				return nil, err
			}
			docs, err := s.distributionRepo.FindDistributionDocumentsInTx(ctx, tx, d.DistributionID)
			if err != nil {
				return nil, err
			}

			now := s.Now()
			mover := actor.UserID
			records := make([]domain.LocationRecord, len(docs))
			for i, doc := range docs {
				records[i] = domain.LocationRecord{
					DocumentRef:    doc.DocumentRef,
					LocationCode:   destination,
					MovedBy:        &mover,
					MovedAt:        now,
					DistributionID: &d.DistributionID,
					Reason:         "received with distribution " + d.DistributionNumber,
				}
			}
			if err := s.ledger.Move(ctx, tx, records); err != nil {
				return nil, err
			}
			return &transitionEffects{
				metadata: map[string]any{"location_code": destination, "documents_relocated": len(records)},
				moved:    refsOf(records),
			}, nil
		},
	})
}

// VerifyReceiver aborts with a *domain.DiscrepancyPendingError, before any write,
// when documents are missing or damaged and the request does not force completion.
func (s *distributionService) VerifyReceiver(ctx context.Context, actor domain.Actor, distributionID string, req dto.VerifyReceiverRequest) (*domain.Distribution, error) {
	return s.advance(ctx, actor, distributionID, transition{
		to:    domain.StatusVerifiedByReceiver,
		notes: req.Notes,
		apply: func(ctx context.Context, tx pgx.Tx, d *domain.Distribution) (*transitionEffects, error) {
			docs, err := s.distributionRepo.FindDistributionDocumentsInTx(ctx, tx, d.DistributionID)
			if err != nil {
				return nil, err
			}
			verifications, err := checkVerifications(docs, dto.ToDocumentVerifications(req.Verifications))
			if err != nil {
				return nil, err
			}
			discrepancies, err := receiverDiscrepancies(d.DistributionID, verifications, req.ForceCompleteWithDiscrepancies)
			if err != nil {
				return nil, err
			}

			if err := s.distributionRepo.SaveVerifications(ctx, tx, d.DistributionID, domain.SideReceiver, verifications); err != nil {
				return nil, err
			}
			d.ReceiverNotes = req.Notes
			d.HasDiscrepancies = len(discrepancies) > 0

			effects := &transitionEffects{metadata: map[string]any{
				"verified":      len(verifications),
				"discrepancies": len(discrepancies),
				"forced":        req.ForceCompleteWithDiscrepancies && len(discrepancies) > 0,
			}}
			if len(discrepancies) == 0 {
				return effects, nil
			}

			details := make([]map[string]any, len(discrepancies))
			for i, disc := range discrepancies {
				details[i] = map[string]any{
					"document_kind": string(disc.Kind),
					"document_id":   disc.ID,
					"status":        string(disc.Status),
					"notes":         disc.Notes,
				}
				effects.history = append(effects.history, domain.HistoryEntry{
					Action:   domain.ActionDiscrepancyFound,
					UserID:   actor.UserID,
					Notes:    disc.Notes,
					Metadata: details[i],
				})
			}
			effects.outbox = append(effects.outbox,
				newOutboxMessage(d, domain.EventDiscrepancy, map[string]any{"discrepancies": details}, s.Now()))
			return effects, nil
		},
	})
}

func (s *distributionService) Complete(ctx context.Context, actor domain.Actor, distributionID string) (*domain.Distribution, error) {
	return s.advance(ctx, actor, distributionID, transition{to: domain.StatusCompleted})
}
