package mapping

import (
	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	"github.com/SscSPs/document_distribution_app/internal/models"
)

// ToModelDistribution converts a domain Distribution to a model Distribution
func ToModelDistribution(d domain.Distribution) models.Distribution {
	return models.Distribution{
		DistributionID:          d.DistributionID,
		DistributionNumber:      d.DistributionNumber,
		TypeID:                  d.TypeID,
		OriginDepartmentID:      d.OriginDepartmentID,
		DestinationDepartmentID: d.DestinationDepartmentID,
		DocumentKind:            string(d.DocumentKind),
		Status:                  string(d.Status),
		Notes:                   d.Notes,
		SenderVerifiedAt:        d.SenderVerifiedAt,
		SenderVerifiedBy:        d.SenderVerifiedBy,
		SenderNotes:             d.SenderNotes,
		SentAt:                  d.SentAt,
		ReceivedAt:              d.ReceivedAt,
		ReceiverVerifiedAt:      d.ReceiverVerifiedAt,
		ReceiverVerifiedBy:      d.ReceiverVerifiedBy,
		ReceiverNotes:           d.ReceiverNotes,
		CompletedAt:             d.CompletedAt,
		HasDiscrepancies:        d.HasDiscrepancies,
		DeletedAt:               d.DeletedAt,
		AuditFields:             ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDistribution converts a model Distribution to a domain Distribution
func ToDomainDistribution(m models.Distribution) domain.Distribution {
	return domain.Distribution{
		DistributionID:          m.DistributionID,
		DistributionNumber:      m.DistributionNumber,
		TypeID:                  m.TypeID,
		OriginDepartmentID:      m.OriginDepartmentID,
		DestinationDepartmentID: m.DestinationDepartmentID,
		DocumentKind:            domain.DocumentKind(m.DocumentKind),
		Status:                  domain.DistributionStatus(m.Status),
		Notes:                   m.Notes,
		SenderVerifiedAt:        m.SenderVerifiedAt,
		SenderVerifiedBy:        m.SenderVerifiedBy,
		SenderNotes:             m.SenderNotes,
		SentAt:                  m.SentAt,
		ReceivedAt:              m.ReceivedAt,
		ReceiverVerifiedAt:      m.ReceiverVerifiedAt,
		ReceiverVerifiedBy:      m.ReceiverVerifiedBy,
		ReceiverNotes:           m.ReceiverNotes,
		CompletedAt:             m.CompletedAt,
		HasDiscrepancies:        m.HasDiscrepancies,
		DeletedAt:               m.DeletedAt,
		AuditFields:             ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainDistributionSlice converts a slice of model Distributions
func ToDomainDistributionSlice(ms []models.Distribution) []domain.Distribution {
	ds := make([]domain.Distribution, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDistribution(m)
	}
	return ds
}

func statusPtrToString(s *domain.VerificationStatus) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

func stringToStatusPtr(s *string) *domain.VerificationStatus {
	if s == nil {
		return nil
	}
	v := domain.VerificationStatus(*s)
	return &v
}

// ToModelDistributionDocument converts a bundle row to its model
func ToModelDistributionDocument(d domain.DistributionDocument) models.DistributionDocument {
	return models.DistributionDocument{
		DistributionID:       d.DistributionID,
		DocumentKind:         string(d.Kind),
		DocumentID:           d.ID,
		AutoIncluded:         d.AutoIncluded,
		IncludedViaInvoiceID: d.IncludedViaInvoiceID,
		SenderVerified:       d.SenderVerified,
		SenderStatus:         statusPtrToString(d.SenderStatus),
		SenderNotes:          d.SenderNotes,
		ReceiverVerified:     d.ReceiverVerified,
		ReceiverStatus:       statusPtrToString(d.ReceiverStatus),
		ReceiverNotes:        d.ReceiverNotes,
		CreatedAt:            d.CreatedAt,
	}
}

// ToDomainDistributionDocument converts a model bundle row to its domain form
func ToDomainDistributionDocument(m models.DistributionDocument) domain.DistributionDocument {
	return domain.DistributionDocument{
		DistributionID:       m.DistributionID,
		DocumentRef:          domain.DocumentRef{Kind: domain.DocumentKind(m.DocumentKind), ID: m.DocumentID},
		AutoIncluded:         m.AutoIncluded,
		IncludedViaInvoiceID: m.IncludedViaInvoiceID,
		SenderVerified:       m.SenderVerified,
		SenderStatus:         stringToStatusPtr(m.SenderStatus),
		SenderNotes:          m.SenderNotes,
		ReceiverVerified:     m.ReceiverVerified,
		ReceiverStatus:       stringToStatusPtr(m.ReceiverStatus),
		ReceiverNotes:        m.ReceiverNotes,
		CreatedAt:            m.CreatedAt,
	}
}

func ToDomainDistributionDocumentSlice(ms []models.DistributionDocument) []domain.DistributionDocument {
	ds := make([]domain.DistributionDocument, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDistributionDocument(m)
	}
	return ds
}
