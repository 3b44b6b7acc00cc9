package mapping

import (
	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	"github.com/SscSPs/document_distribution_app/internal/models"
)

func ToDomainDocument(m models.Document) domain.Document {
	return domain.Document{
		DocumentRef: domain.DocumentRef{Kind: domain.DocumentKind(m.DocumentKind), ID: m.DocumentID},
		Number:      m.DocumentNumber,
		Location:    m.CurrentLocation,
		Amount:      m.Amount,
	}
}

func ToModelLocationRecord(d domain.LocationRecord) models.LocationRecord {
	return models.LocationRecord{
		RecordID:       d.RecordID,
		DocumentKind:   string(d.Kind),
		DocumentID:     d.ID,
		LocationCode:   d.LocationCode,
		MovedBy:        d.MovedBy,
		MovedAt:        d.MovedAt,
		DistributionID: d.DistributionID,
		Reason:         d.Reason,
	}
}

func ToDomainLocationRecord(m models.LocationRecord) domain.LocationRecord {
	return domain.LocationRecord{
		RecordID:       m.RecordID,
		DocumentRef:    domain.DocumentRef{Kind: domain.DocumentKind(m.DocumentKind), ID: m.DocumentID},
		LocationCode:   m.LocationCode,
		MovedBy:        m.MovedBy,
		MovedAt:        m.MovedAt,
		DistributionID: m.DistributionID,
		Reason:         m.Reason,
	}
}

func ToModelHistoryEntry(d domain.HistoryEntry) models.HistoryEntry {
	var notes *string
	if d.Notes != "" {
		n := d.Notes
		notes = &n
	}
	return models.HistoryEntry{
		EntryID:        d.EntryID,
		DistributionID: d.DistributionID,
		Action:         string(d.Action),
		UserID:         d.UserID,
		Notes:          notes,
		Metadata:       d.Metadata,
		CreatedAt:      d.CreatedAt,
	}
}

func ToDomainHistoryEntry(m models.HistoryEntry) domain.HistoryEntry {
	e := domain.HistoryEntry{
		EntryID:        m.EntryID,
		DistributionID: m.DistributionID,
		Action:         domain.HistoryAction(m.Action),
		UserID:         m.UserID,
		Metadata:       m.Metadata,
		CreatedAt:      m.CreatedAt,
	}
	if m.Notes != nil {
		e.Notes = *m.Notes
	}
	return e
}

func ToModelOutboxMessage(d domain.OutboxMessage) models.OutboxMessage {
	return models.OutboxMessage{
		MessageID:      d.MessageID,
		DistributionID: d.DistributionID,
		Event:          string(d.Event),
		Payload:        d.Payload,
		Status:         string(d.Status),
		Attempts:       d.Attempts,
		LastError:      d.LastError,
		CreatedAt:      d.CreatedAt,
		DispatchedAt:   d.DispatchedAt,
	}
}

func ToDomainOutboxMessage(m models.OutboxMessage) domain.OutboxMessage {
	return domain.OutboxMessage{
		MessageID:      m.MessageID,
		DistributionID: m.DistributionID,
		Event:          domain.NotificationEvent(m.Event),
		Payload:        m.Payload,
		Status:         domain.OutboxStatus(m.Status),
		Attempts:       m.Attempts,
		LastError:      m.LastError,
		CreatedAt:      m.CreatedAt,
		DispatchedAt:   m.DispatchedAt,
	}
}
