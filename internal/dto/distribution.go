package dto

import (
	"time"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DocumentRefRequest identifies one document in a request body.
type DocumentRefRequest struct {
	DocumentKind string `json:"documentKind" binding:"required,document_kind"`
	DocumentID   string `json:"documentID" binding:"required"`
}

// ToDomain converts the request reference to its domain form.
func (r DocumentRefRequest) ToDomain() domain.DocumentRef {
	return domain.DocumentRef{Kind: domain.DocumentKind(r.DocumentKind), ID: r.DocumentID}
}

// ToDocumentRefs converts request references, preserving order.
func ToDocumentRefs(reqs []DocumentRefRequest) []domain.DocumentRef {
	refs := make([]domain.DocumentRef, len(reqs))
	for i, r := range reqs {
		refs[i] = r.ToDomain()
	}
	return refs
}

// CreateDistributionRequest defines the data needed to open a draft distribution.
// OriginDepartmentID defaults to the caller's department.
type CreateDistributionRequest struct {
	TypeID                  string               `json:"typeID" binding:"required"`
	OriginDepartmentID      *string              `json:"originDepartmentID,omitempty"`
	DestinationDepartmentID string               `json:"destinationDepartmentID" binding:"required"`
	DocumentKind            string               `json:"documentKind" binding:"required,document_kind"`
	Documents               []DocumentRefRequest `json:"documents" binding:"required,min=1,dive"`
	Notes                   string               `json:"notes" binding:"max=2000"`
}

// UpdateDistributionRequest is a partial update of a draft.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateDistributionRequest struct {
	TypeID                  *string `json:"typeID,omitempty"`
	DestinationDepartmentID *string `json:"destinationDepartmentID,omitempty"`
	Notes                   *string `json:"notes,omitempty" binding:"omitempty,max=2000"`
}

// AttachDocumentsRequest adds documents to a draft.
type AttachDocumentsRequest struct {
	Documents []DocumentRefRequest `json:"documents" binding:"required,min=1,dive"`
}

// DocumentVerificationRequest is one per-document verification outcome.
// Status defaults to verified when omitted.
type DocumentVerificationRequest struct {
	DocumentKind string `json:"documentKind" binding:"required,document_kind"`
	DocumentID   string `json:"documentID" binding:"required"`
	Status       string `json:"status,omitempty" binding:"omitempty,verification_status"`
	Notes        string `json:"notes,omitempty" binding:"max=1000"`
}

// ToDomain converts the request, applying the verified default.
func (r DocumentVerificationRequest) ToDomain() domain.DocumentVerification {
	status := domain.VerificationStatus(r.Status)
	if status == "" {
		status = domain.VerificationVerified
	}
	return domain.DocumentVerification{
		DocumentRef: domain.DocumentRef{Kind: domain.DocumentKind(r.DocumentKind), ID: r.DocumentID},
		Status:      status,
		Notes:       r.Notes,
	}
}

// ToDocumentVerifications converts request entries, preserving order.
func ToDocumentVerifications(reqs []DocumentVerificationRequest) []domain.DocumentVerification {
	out := make([]domain.DocumentVerification, len(reqs))
	for i, r := range reqs {
		out[i] = r.ToDomain()
	}
	return out
}

// VerifySenderRequest records the sending department's check of the bundle.
type VerifySenderRequest struct {
	Verifications []DocumentVerificationRequest `json:"verifications" binding:"required,min=1,dive"`
	Notes         string                        `json:"notes" binding:"max=2000"`
}

// VerifyReceiverRequest records the receiving department's check of the bundle.
type VerifyReceiverRequest struct {
	Verifications                  []DocumentVerificationRequest `json:"verifications" binding:"required,min=1,dive"`
	Notes                          string                        `json:"notes" binding:"max=2000"`
	ForceCompleteWithDiscrepancies bool                          `json:"forceCompleteWithDiscrepancies"`
}

// ListDistributionsParams defines query parameters for listing distributions.
type ListDistributionsParams struct {
	Limit        int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken    *string `form:"nextToken"`
	DepartmentID string  `form:"department_id"`
	Status       string  `form:"status" binding:"omitempty,distribution_status"`
	Role         string  `form:"role" binding:"omitempty,distribution_role"`
}

// DistributionResponse defines the data returned for a distribution.
type DistributionResponse struct {
	DistributionID          string     `json:"distributionID"`
	DistributionNumber      string     `json:"distributionNumber"`
	TypeID                  string     `json:"typeID"`
	OriginDepartmentID      string     `json:"originDepartmentID"`
	DestinationDepartmentID string     `json:"destinationDepartmentID"`
	DocumentKind            string     `json:"documentKind"`
	Status                  string     `json:"status"`
	Notes                   string     `json:"notes"`
	SenderVerifiedAt        *time.Time `json:"senderVerifiedAt,omitempty"`
	SenderVerifiedBy        *string    `json:"senderVerifiedBy,omitempty"`
	SenderNotes             string     `json:"senderNotes,omitempty"`
	SentAt                  *time.Time `json:"sentAt,omitempty"`
	ReceivedAt              *time.Time `json:"receivedAt,omitempty"`
	ReceiverVerifiedAt      *time.Time `json:"receiverVerifiedAt,omitempty"`
	ReceiverVerifiedBy      *string    `json:"receiverVerifiedBy,omitempty"`
	ReceiverNotes           string     `json:"receiverNotes,omitempty"`
	CompletedAt             *time.Time `json:"completedAt,omitempty"`
	HasDiscrepancies        bool       `json:"hasDiscrepancies"`
	CreatedAt               time.Time  `json:"createdAt"`
	CreatedBy               string     `json:"createdBy"`
	LastUpdatedAt           time.Time  `json:"lastUpdatedAt"`
	LastUpdatedBy           string     `json:"lastUpdatedBy"`
}

// DistributionDocumentResponse is one bundled document with its verification state.
type DistributionDocumentResponse struct {
	DocumentKind         string  `json:"documentKind"`
	DocumentID           string  `json:"documentID"`
	AutoIncluded         bool    `json:"autoIncluded"`
	IncludedViaInvoiceID *string `json:"includedViaInvoiceID,omitempty"`
	SenderVerified       bool    `json:"senderVerified"`
	SenderStatus         *string `json:"senderStatus,omitempty"`
	SenderNotes          *string `json:"senderNotes,omitempty"`
	ReceiverVerified     bool    `json:"receiverVerified"`
	ReceiverStatus       *string `json:"receiverStatus,omitempty"`
	ReceiverNotes        *string `json:"receiverNotes,omitempty"`
}

// GetDistributionResponse combines a distribution and its bundle.
type GetDistributionResponse struct {
	Distribution DistributionResponse           `json:"distribution"`
	Documents    []DistributionDocumentResponse `json:"documents"`
}

// BundleWarningResponse describes a linked document that was left out of the bundle.
type BundleWarningResponse struct {
	DocumentKind     string `json:"documentKind"`
	DocumentID       string `json:"documentID"`
	DocumentNumber   string `json:"documentNumber"`
	InvoiceID        string `json:"invoiceID"`
	ExpectedLocation string `json:"expectedLocation"`
	ActualLocation   string `json:"actualLocation"`
	Message          string `json:"message"`
}

// CreateDistributionResponse is returned by create.
type CreateDistributionResponse struct {
	Distribution DistributionResponse           `json:"distribution"`
	Documents    []DistributionDocumentResponse `json:"documents"`
	AutoIncluded []DocumentRefRequest           `json:"autoIncluded"`
	Warnings     []BundleWarningResponse        `json:"warnings"`
	InvoiceTotal decimal.Decimal                `json:"invoiceTotal"`
}

// ListDistributionsResponse wraps a page of distributions.
type ListDistributionsResponse struct {
	Distributions []DistributionResponse `json:"distributions"`
	NextToken     *string                `json:"nextToken,omitempty"`
}

// DeleteDistributionResponse reports whether the draft was soft-deleted.
type DeleteDistributionResponse struct {
	Deleted bool `json:"deleted"`
}

// DiscrepancyResponse is one missing or damaged document.
type DiscrepancyResponse struct {
	DocumentKind string `json:"documentKind"`
	DocumentID   string `json:"documentID"`
	Status       string `json:"status"`
	Notes        string `json:"notes,omitempty"`
}

// DiscrepancyPendingResponse asks the client to confirm discrepancies before proceeding.
type DiscrepancyPendingResponse struct {
	Error         string                `json:"error"`
	Discrepancies []DiscrepancyResponse `json:"discrepancies"`
}

// HistoryEntryResponse is one audit log entry.
type HistoryEntryResponse struct {
	Action    string         `json:"action"`
	UserID    string         `json:"userID"`
	Notes     string         `json:"notes,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ManifestURLResponse carries a presigned manifest download link.
type ManifestURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ToDistributionResponse converts a domain.Distribution to DistributionResponse DTO.
func ToDistributionResponse(d *domain.Distribution) DistributionResponse {
	return DistributionResponse{
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
		CreatedAt:               d.CreatedAt,
		CreatedBy:               d.CreatedBy,
		LastUpdatedAt:           d.LastUpdatedAt,
		LastUpdatedBy:           d.LastUpdatedBy,
	}
}

// ToDistributionResponses converts a slice of domain.Distribution.
func ToDistributionResponses(ds []domain.Distribution) []DistributionResponse {
	responses := make([]DistributionResponse, len(ds))
	for i := range ds {
		responses[i] = ToDistributionResponse(&ds[i])
	}
	return responses
}

func verificationStatusPtr(s *domain.VerificationStatus) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

// ToDistributionDocumentResponses converts bundle rows.
func ToDistributionDocumentResponses(docs []domain.DistributionDocument) []DistributionDocumentResponse {
	responses := make([]DistributionDocumentResponse, len(docs))
	for i, d := range docs {
		responses[i] = DistributionDocumentResponse{
			DocumentKind:         string(d.Kind),
			DocumentID:           d.ID,
			AutoIncluded:         d.AutoIncluded,
			IncludedViaInvoiceID: d.IncludedViaInvoiceID,
			SenderVerified:       d.SenderVerified,
			SenderStatus:         verificationStatusPtr(d.SenderStatus),
			SenderNotes:          d.SenderNotes,
			ReceiverVerified:     d.ReceiverVerified,
			ReceiverStatus:       verificationStatusPtr(d.ReceiverStatus),
			ReceiverNotes:        d.ReceiverNotes,
		}
	}
	return responses
}

// ToGetDistributionResponse converts a domain.DistributionDetail.
func ToGetDistributionResponse(detail *domain.DistributionDetail) GetDistributionResponse {
	return GetDistributionResponse{
		Distribution: ToDistributionResponse(&detail.Distribution),
		Documents:    ToDistributionDocumentResponses(detail.Documents),
	}
}

// ToCreateDistributionResponse converts the create result.
func ToCreateDistributionResponse(res *domain.CreateDistributionResult) CreateDistributionResponse {
	auto := make([]DocumentRefRequest, len(res.AutoIncluded))
	for i, ref := range res.AutoIncluded {
		auto[i] = DocumentRefRequest{DocumentKind: string(ref.Kind), DocumentID: ref.ID}
	}
	warnings := make([]BundleWarningResponse, len(res.Warnings))
	for i, w := range res.Warnings {
		warnings[i] = BundleWarningResponse{
			DocumentKind:     string(w.Document.Kind),
			DocumentID:       w.Document.ID,
			DocumentNumber:   w.DocumentNumber,
			InvoiceID:        w.InvoiceID,
			ExpectedLocation: w.ExpectedLocation,
			ActualLocation:   w.ActualLocation,
			Message:          w.Message,
		}
	}
	return CreateDistributionResponse{
		Distribution: ToDistributionResponse(&res.Distribution),
		Documents:    ToDistributionDocumentResponses(res.Documents),
		AutoIncluded: auto,
		Warnings:     warnings,
		InvoiceTotal: res.InvoiceTotal,
	}
}

// ToDiscrepancyPendingResponse converts a DiscrepancyPendingError.
func ToDiscrepancyPendingResponse(err *domain.DiscrepancyPendingError) DiscrepancyPendingResponse {
	items := make([]DiscrepancyResponse, len(err.Discrepancies))
	for i, d := range err.Discrepancies {
		items[i] = DiscrepancyResponse{
			DocumentKind: string(d.Kind),
			DocumentID:   d.ID,
			Status:       string(d.Status),
			Notes:        d.Notes,
		}
	}
	return DiscrepancyPendingResponse{Error: err.Error(), Discrepancies: items}
}

// ToHistoryEntryResponses converts history entries, keeping their order.
func ToHistoryEntryResponses(entries []domain.HistoryEntry) []HistoryEntryResponse {
	responses := make([]HistoryEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = HistoryEntryResponse{
			Action:    string(e.Action),
			UserID:    e.UserID,
			Notes:     e.Notes,
			Metadata:  e.Metadata,
			CreatedAt: e.CreatedAt,
		}
	}
	return responses
}
