package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/document_distribution_app/internal/apperrors"
	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	portsrepo "github.com/SscSPs/document_distribution_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/document_distribution_app/internal/core/ports/services"
	"github.com/SscSPs/document_distribution_app/internal/core/services"
	"github.com/SscSPs/document_distribution_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

type DistributionServiceTestSuite struct {
	suite.Suite
	distRepo     *MockDistributionRepository
	docRepo      *MockDocumentRepository
	locationRepo *MockLocationRepository
	historyRepo  *MockHistoryRepository
	refRepo      *MockReferenceRepository
	outboxRepo   *MockOutboxRepository
	cache        *MockLocationCache
	trigger      *MockDispatchTrigger
	service      portssvc.DistributionSvcFacade
	ctx          context.Context
	actor        domain.Actor
}

func (s *DistributionServiceTestSuite) SetupTest() {
	s.distRepo = new(MockDistributionRepository)
	s.docRepo = new(MockDocumentRepository)
	s.locationRepo = new(MockLocationRepository)
	s.historyRepo = new(MockHistoryRepository)
	s.refRepo = new(MockReferenceRepository)
	s.outboxRepo = new(MockOutboxRepository)
	s.cache = new(MockLocationCache)
	s.trigger = new(MockDispatchTrigger)
	s.ctx = context.Background()
	s.actor = domain.Actor{UserID: "user-hq", DepartmentID: "dept-hq"}

	s.service = services.NewDistributionService(portsrepo.RepositoryProvider{
		DistributionRepo:     s.distRepo,
		DocumentRepo:         s.docRepo,
		LocationRepo:         s.locationRepo,
		HistoryRepo:          s.historyRepo,
		DepartmentRepo:       s.refRepo,
		DistributionTypeRepo: s.refRepo,
		OutboxRepo:           s.outboxRepo,
	},
		services.WithDispatchTrigger(s.trigger),
		services.WithDistributionLocationCache(s.cache),
		services.WithDistributionClock(func() time.Time { return fixedNow }),
	)

	s.refRepo.On("FindDepartmentByID", mock.Anything, "dept-hq").
		Return(&domain.Department{DepartmentID: "dept-hq", LocationCode: "HQ"}, nil).Maybe()
	s.refRepo.On("FindDepartmentByID", mock.Anything, "dept-wh").
		Return(&domain.Department{DepartmentID: "dept-wh", LocationCode: "WH1"}, nil).Maybe()
	s.refRepo.On("FindDistributionTypeByID", mock.Anything, "type-n").
		Return(&domain.DistributionType{TypeID: "type-n", Code: "N"}, nil).Maybe()
}

func TestDistributionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DistributionServiceTestSuite))
}

// expectTx sets up a transaction that commits.
func (s *DistributionServiceTestSuite) expectTx() {
	s.distRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.distRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	s.distRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

// expectRollback sets up a transaction that must not commit.
func (s *DistributionServiceTestSuite) expectRollback() {
	s.distRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.distRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
}

func invoiceRef(id string) domain.DocumentRef {
	return domain.DocumentRef{Kind: domain.KindInvoice, ID: id}
}

func additionalRef(id string) domain.DocumentRef {
	return domain.DocumentRef{Kind: domain.KindAdditionalDocument, ID: id}
}

func (s *DistributionServiceTestSuite) stubDocument(ref domain.DocumentRef, number, storedLocation string, amount float64) domain.Document {
	doc := domain.Document{DocumentRef: ref, Number: number, Location: storedLocation, Amount: decimal.NewFromFloat(amount)}
	s.docRepo.On("FindDocument", mock.Anything, ref).Return(&doc, nil).Maybe()
	return doc
}

func (s *DistributionServiceTestSuite) stubNoLedger(refs ...domain.DocumentRef) {
	for _, ref := range refs {
		s.locationRepo.On("FindLatestLocation", mock.Anything, ref).Return(nil, apperrors.ErrNotFound).Maybe()
	}
}

func (s *DistributionServiceTestSuite) draft(status domain.DistributionStatus) *domain.Distribution {
	return &domain.Distribution{
		DistributionID:          "dist-1",
		DistributionNumber:      "25/HQ/N/00001",
		TypeID:                  "type-n",
		OriginDepartmentID:      "dept-hq",
		DestinationDepartmentID: "dept-wh",
		DocumentKind:            domain.KindInvoice,
		Status:                  status,
	}
}

func createRequest(refs ...domain.DocumentRef) dto.CreateDistributionRequest {
	docs := make([]dto.DocumentRefRequest, len(refs))
	for i, r := range refs {
		docs[i] = dto.DocumentRefRequest{DocumentKind: string(r.Kind), DocumentID: r.ID}
	}
	return dto.CreateDistributionRequest{
		TypeID:                  "type-n",
		DestinationDepartmentID: "dept-wh",
		DocumentKind:            string(domain.KindInvoice),
		Documents:               docs,
	}
}

func (s *DistributionServiceTestSuite) expectCreateWrites(maxSeq int) {
	s.expectTx()
	s.distRepo.On("LockNumberPrefix", mock.Anything, mock.Anything, "25/HQ/N/").Return(nil).Once()
	s.distRepo.On("MaxNumberSequence", mock.Anything, mock.Anything, "25/HQ/N/").Return(maxSeq, nil).Once()
	s.distRepo.On("SaveDistribution", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Distribution")).Return(nil).Once()
	s.distRepo.On("AddDistributionDocuments", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.historyRepo.On("AppendHistory", mock.Anything, mock.Anything, mock.MatchedBy(func(e []domain.HistoryEntry) bool {
		return len(e) == 1 && e[0].Action == domain.ActionCreated
	})).Return(nil).Once()
	s.outboxRepo.On("EnqueueNotifications", mock.Anything, mock.Anything, mock.MatchedBy(func(m []domain.OutboxMessage) bool {
		return len(m) == 1 && m[0].Event == domain.EventCreated
	})).Return(nil).Once()
	s.trigger.On("Trigger").Return().Once()
}

func (s *DistributionServiceTestSuite) TestCreate_LinkedDocumentElsewhere_WarnsAndExcludes() {
	inv := invoiceRef("inv-1")
	add := additionalRef("add-1")
	s.stubDocument(inv, "INV-001", "HQ", 150.25)
	s.stubNoLedger(inv)
	s.docRepo.On("FindLinkedAdditionalDocuments", mock.Anything, "inv-1").
		Return([]domain.Document{{DocumentRef: add, Number: "AD-001", Location: "WH1"}}, nil).Once()
	s.stubNoLedger(add)
	s.expectCreateWrites(0)

	result, err := s.service.CreateDistribution(s.ctx, s.actor, createRequest(inv))

	s.Require().NoError(err)
	s.Equal("25/HQ/N/00001", result.Distribution.DistributionNumber)
	s.Equal(domain.StatusDraft, result.Distribution.Status)
	s.Require().Len(result.Documents, 1)
	s.Equal(inv, result.Documents[0].DocumentRef)
	s.Empty(result.AutoIncluded)
	s.Require().Len(result.Warnings, 1)
	s.Equal(add, result.Warnings[0].Document)
	s.Equal("WH1", result.Warnings[0].ActualLocation)
	s.True(decimal.NewFromFloat(150.25).Equal(result.InvoiceTotal))
	s.distRepo.AssertExpectations(s.T())
	s.outboxRepo.AssertExpectations(s.T())
	s.trigger.AssertExpectations(s.T())
}

func (s *DistributionServiceTestSuite) TestCreate_LinkedDocumentCoLocated_AutoIncluded() {
	inv := invoiceRef("inv-1")
	add := additionalRef("add-1")
	s.stubDocument(inv, "INV-001", "HQ", 100)
	s.stubNoLedger(inv, add)
	s.docRepo.On("FindLinkedAdditionalDocuments", mock.Anything, "inv-1").
		Return([]domain.Document{{DocumentRef: add, Number: "AD-001", Location: "HQ"}}, nil).Once()
	s.expectCreateWrites(11)

	result, err := s.service.CreateDistribution(s.ctx, s.actor, createRequest(inv))

	s.Require().NoError(err)
	s.Equal("25/HQ/N/00012", result.Distribution.DistributionNumber)
	s.Require().Len(result.Documents, 2)
	s.True(result.Documents[1].AutoIncluded)
	s.Require().NotNil(result.Documents[1].IncludedViaInvoiceID)
	s.Equal("inv-1", *result.Documents[1].IncludedViaInvoiceID)
	s.Equal([]domain.DocumentRef{add}, result.AutoIncluded)
	s.Empty(result.Warnings)
	for _, d := range result.Documents {
		s.Equal(result.Distribution.DistributionID, d.DistributionID)
	}
}

func (s *DistributionServiceTestSuite) TestCreate_LedgerOverridesStoredLocation() {
	inv := invoiceRef("inv-1")
	// stored field says HQ but the document was since moved to WH1
	s.stubDocument(inv, "INV-001", "HQ", 10)
	s.locationRepo.On("FindLatestLocation", mock.Anything, inv).
		Return(&domain.LocationRecord{DocumentRef: inv, LocationCode: "WH1", MovedAt: fixedNow.Add(-time.Hour)}, nil).Once()

	result, err := s.service.CreateDistribution(s.ctx, s.actor, createRequest(inv))

	s.Nil(result)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.distRepo.AssertNotCalled(s.T(), "Begin", mock.Anything)
}

func (s *DistributionServiceTestSuite) TestCreate_ValidationFailures() {
	inv := invoiceRef("inv-missing")
	s.docRepo.On("FindDocument", mock.Anything, inv).Return(nil, apperrors.ErrNotFound).Maybe()

	tests := []struct {
		name   string
		mutate func(r *dto.CreateDistributionRequest)
	}{
		{"missing document kind", func(r *dto.CreateDistributionRequest) { r.DocumentKind = "" }},
		{"unknown document kind", func(r *dto.CreateDistributionRequest) { r.DocumentKind = "receipt" }},
		{"origin equals destination", func(r *dto.CreateDistributionRequest) { r.DestinationDepartmentID = "dept-hq" }},
		{"document does not exist", func(r *dto.CreateDistributionRequest) {}},
		{"kind mismatch", func(r *dto.CreateDistributionRequest) {
			r.DocumentKind = string(domain.KindAdditionalDocument)
		}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := createRequest(inv)
			tt.mutate(&req)
			_, err := s.service.CreateDistribution(s.ctx, s.actor, req)
			s.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	s.distRepo.AssertNotCalled(s.T(), "Begin", mock.Anything)
}

func (s *DistributionServiceTestSuite) TestCreate_UnknownDestination() {
	s.refRepo.On("FindDepartmentByID", mock.Anything, "dept-nowhere").Return(nil, apperrors.ErrNotFound).Once()
	req := createRequest(invoiceRef("inv-1"))
	req.DestinationDepartmentID = "dept-nowhere"

	_, err := s.service.CreateDistribution(s.ctx, s.actor, req)

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *DistributionServiceTestSuite) TestCreate_WriteFailureRollsBack() {
	inv := invoiceRef("inv-1")
	s.stubDocument(inv, "INV-001", "HQ", 10)
	s.stubNoLedger(inv)
	s.docRepo.On("FindLinkedAdditionalDocuments", mock.Anything, "inv-1").Return([]domain.Document{}, nil)
	s.expectRollback()
	s.distRepo.On("LockNumberPrefix", mock.Anything, mock.Anything, "25/HQ/N/").Return(nil)
	s.distRepo.On("MaxNumberSequence", mock.Anything, mock.Anything, "25/HQ/N/").Return(0, nil)
	s.distRepo.On("SaveDistribution", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := s.service.CreateDistribution(s.ctx, s.actor, createRequest(inv))

	s.EqualError(err, "db down")
	s.distRepo.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
	s.trigger.AssertNotCalled(s.T(), "Trigger")
}

func (s *DistributionServiceTestSuite) TestUpdate_NotDraft() {
	s.expectRollback()
	s.distRepo.On("LockDistribution", mock.Anything, mock.Anything, "dist-1").Return(s.draft(domain.StatusSent), nil)
	notes := "new notes"

	_, err := s.service.UpdateDistribution(s.ctx, s.actor, "dist-1", dto.UpdateDistributionRequest{Notes: &notes})

	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *DistributionServiceTestSuite) TestUpdate_Draft() {
	s.expectTx()
	s.distRepo.On("LockDistribution", mock.Anything, mock.Anything, "dist-1").Return(s.draft(domain.StatusDraft), nil)
	s.distRepo.On("UpdateDistribution", mock.Anything, mock.Anything, mock.MatchedBy(func(d domain.Distribution) bool {
		return d.Notes == "new notes" && d.LastUpdatedBy == "user-hq"
	})).Return(nil).Once()
	s.historyRepo.On("AppendHistory", mock.Anything, mock.Anything, mock.MatchedBy(func(e []domain.HistoryEntry) bool {
		return len(e) == 1 && e[0].Action == domain.ActionUpdated
	})).Return(nil).Once()
	notes := "new notes"

	d, err := s.service.UpdateDistribution(s.ctx, s.actor, "dist-1", dto.UpdateDistributionRequest{Notes: &notes})

	s.Require().NoError(err)
	s.Equal("new notes", d.Notes)
	s.historyRepo.AssertExpectations(s.T())
}

func (s *DistributionServiceTestSuite) TestDelete_NonDraftReturnsFalse() {
	s.expectTx()
	s.distRepo.On("LockDistribution", mock.Anything, mock.Anything, "dist-1").Return(s.draft(domain.StatusVerifiedBySender), nil)

	deleted, err := s.service.DeleteDistribution(s.ctx, s.actor, "dist-1")

	s.NoError(err)
	s.False(deleted)
	s.distRepo.AssertNotCalled(s.T(), "UpdateDistribution", mock.Anything, mock.Anything, mock.Anything)
	s.historyRepo.AssertNotCalled(s.T(), "AppendHistory", mock.Anything, mock.Anything, mock.Anything)
}

func (s *DistributionServiceTestSuite) TestDelete_DraftSoftDeletes() {
	s.expectTx()
	s.distRepo.On("LockDistribution", mock.Anything, mock.Anything, "dist-1").Return(s.draft(domain.StatusDraft), nil)
	s.distRepo.On("UpdateDistribution", mock.Anything, mock.Anything, mock.MatchedBy(func(d domain.Distribution) bool {
		return d.DeletedAt != nil && d.DeletedAt.Equal(fixedNow) && d.Status == domain.StatusDraft
	})).Return(nil).Once()
	s.historyRepo.On("AppendHistory", mock.Anything, mock.Anything, mock.MatchedBy(func(e []domain.HistoryEntry) bool {
		return len(e) == 1 && e[0].Action == domain.ActionDeleted
	})).Return(nil).Once()

	deleted, err := s.service.DeleteDistribution(s.ctx, s.actor, "dist-1")

	s.NoError(err)
	s.True(deleted)
}

func (s *DistributionServiceTestSuite) TestDelete_NotFound() {
	s.expectRollback()
	s.distRepo.On("LockDistribution", mock.Anything, mock.Anything, "missing").Return(nil, apperrors.ErrNotFound)

	_, err := s.service.DeleteDistribution(s.ctx, s.actor, "missing")

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *DistributionServiceTestSuite) TestAttach_SkipsExistingDocuments() {
	inv1, inv2 := invoiceRef("inv-1"), invoiceRef("inv-2")
	s.expectTx()
	s.distRepo.On("LockDistribution", mock.Anything, mock.Anything, "dist-1").Return(s.draft(domain.StatusDraft), nil)
	s.distRepo.On("FindDistributionDocumentsInTx", mock.Anything, mock.Anything, "dist-1").
		Return([]domain.DistributionDocument{{DistributionID: "dist-1", DocumentRef: inv1}}, nil)
	s.stubDocument(inv2, "INV-002", "HQ", 40)
	s.stubNoLedger(inv2)
	s.docRepo.On("FindLinkedAdditionalDocuments", mock.Anything, "inv-2").Return([]domain.Document{}, nil)
	s.distRepo.On("AddDistributionDocuments", mock.Anything, mock.Anything, mock.MatchedBy(func(docs []domain.DistributionDocument) bool {
		return len(docs) == 1 && docs[0].DocumentRef == inv2 && docs[0].DistributionID == "dist-1"
	})).Return(nil).Once()
	s.distRepo.On("UpdateDistribution", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.historyRepo.On("AppendHistory", mock.Anything, mock.Anything, mock.MatchedBy(func(e []domain.HistoryEntry) bool {
		return len(e) == 1 && e[0].Action == domain.ActionDocumentsAttached
	})).Return(nil).Once()

	result, err := s.service.AttachDocuments(s.ctx, s.actor, "dist-1", dto.AttachDocumentsRequest{
		Documents: []dto.DocumentRefRequest{
			{DocumentKind: "invoice", DocumentID: "inv-1"},
			{DocumentKind: "invoice", DocumentID: "inv-2"},
		},
	})

	s.Require().NoError(err)
	s.Len(result.Documents, 2)
	s.True(decimal.NewFromInt(40).Equal(result.InvoiceTotal))
	s.distRepo.AssertExpectations(s.T())
}

func (s *DistributionServiceTestSuite) TestDetach_InvoiceCascadesAutoIncluded() {
	inv1, inv2, add := invoiceRef("inv-1"), invoiceRef("inv-2"), additionalRef("add-1")
	via := "inv-1"
	s.expectTx()
	s.distRepo.On("LockDistribution", mock.Anything, mock.Anything, "dist-1").Return(s.draft(domain.StatusDraft), nil)
	s.distRepo.On("FindDistributionDocumentsInTx", mock.Anything, mock.Anything, "dist-1").Return([]domain.DistributionDocument{
		{DistributionID: "dist-1", DocumentRef: inv1},
		{DistributionID: "dist-1", DocumentRef: add, AutoIncluded: true, IncludedViaInvoiceID: &via},
		{DistributionID: "dist-1", DocumentRef: inv2},
	}, nil)
	s.distRepo.On("RemoveDistributionDocuments", mock.Anything, mock.Anything, "dist-1", []domain.DocumentRef{inv1, add}).
		Return(int64(2), nil).Once()
	s.distRepo.On("UpdateDistribution", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.historyRepo.On("AppendHistory", mock.Anything, mock.Anything, mock.MatchedBy(func(e []domain.HistoryEntry) bool {
		return len(e) == 1 && e[0].Action == domain.ActionDocumentDetached && e[0].Metadata["cascaded"] != nil
	})).Return(nil).Once()

	detail, err := s.service.DetachDocument(s.ctx, s.actor, "dist-1", inv1)

	s.Require().NoError(err)
	s.Require().Len(detail.Documents, 1)
	s.Equal(inv2, detail.Documents[0].DocumentRef)
	s.distRepo.AssertExpectations(s.T())
}

func (s *DistributionServiceTestSuite) TestDetach_UnknownDocument() {
	s.expectRollback()
	s.distRepo.On("LockDistribution", mock.Anything, mock.Anything, "dist-1").Return(s.draft(domain.StatusDraft), nil)
	s.distRepo.On("FindDistributionDocumentsInTx", mock.Anything, mock.Anything, "dist-1").
		Return([]domain.DistributionDocument{{DistributionID: "dist-1", DocumentRef: invoiceRef("inv-1")}}, nil)

	_, err := s.service.DetachDocument(s.ctx, s.actor, "dist-1", invoiceRef("inv-9"))

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *DistributionServiceTestSuite) TestDetach_OutsideDraft() {
	s.expectRollback()
	s.distRepo.On("LockDistribution", mock.Anything, mock.Anything, "dist-1").Return(s.draft(domain.StatusSent), nil)

	_, err := s.service.DetachDocument(s.ctx, s.actor, "dist-1", invoiceRef("inv-1"))

	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *DistributionServiceTestSuite) TestVerifySender_RecordsAndAdvances() {
	inv := invoiceRef("inv-1")
	s.expectTx()
	s.distRepo.On("LockDistribution", mock.Anything, mock.Anything, "dist-1").Return(s.draft(domain.StatusDraft), nil)
	s.distRepo.On("FindDistributionDocumentsInTx", mock.Anything, mock.Anything, "dist-1").
		Return([]domain.DistributionDocument{{DistributionID: "dist-1", DocumentRef: inv}}, nil)
	s.distRepo.On("SaveVerifications", mock.Anything, mock.Anything, "dist-1", domain.SideSender, []domain.DocumentVerification{
		{DocumentRef: inv, Status: domain.VerificationDamaged, Notes: "torn"},
	}).Return(nil).Once()
	s.distRepo.On("UpdateDistribution", mock.Anything, mock.Anything, mock.MatchedBy(func(d domain.Distribution) bool {
		return d.Status == domain.StatusVerifiedBySender && d.SenderVerifiedBy != nil && *d.SenderVerifiedBy == "user-hq" && d.SenderNotes == "checked"
	})).Return(nil).Once()
	s.historyRepo.On("AppendHistory", mock.Anything, mock.Anything, mock.MatchedBy(func(e []domain.HistoryEntry) bool {
		return len(e) == 1 && e[0].Action == domain.ActionVerifiedBySender
	})).Return(nil).Once()

	d, err := s.service.VerifySender(s.ctx, s.actor, "dist-1", dto.VerifySenderRequest{
		Verifications: []dto.DocumentVerificationRequest{{DocumentKind: "invoice", DocumentID: "inv-1", Status: "damaged", Notes: "torn"}},
		Notes:         "checked",
	})

	// sender-side discrepancies never block
	s.Require().NoError(err)
	s.Equal(domain.StatusVerifiedBySender, d.Status)
	s.Require().NotNil(d.SenderVerifiedAt)
	s.True(d.SenderVerifiedAt.Equal(fixedNow))
	s.outboxRepo.AssertNotCalled(s.T(), "EnqueueNotifications", mock.Anything, mock.Anything, mock.Anything)
	s.trigger.AssertNotCalled(s.T(), "Trigger")
}

func (s *DistributionServiceTestSuite) TestVerifySender_DocumentNotInBundle() {
	s.expectRollback()
	s.distRepo.On("LockDistribution", mock.Anything, mock.Anything, "dist-1").Return(s.draft(domain.StatusDraft), nil)
	s.distRepo.On("FindDistributionDocumentsInTx", mock.Anything, mock.Anything, "dist-1").
		Return([]domain.DistributionDocument{{DistributionID: "dist-1", DocumentRef: invoiceRef("inv-1")}}, nil)

	_, err := s.service.VerifySender(s.ctx, s.actor, "dist-1", dto.VerifySenderRequest{
		Verifications: []dto.DocumentVerificationRequest{{DocumentKind: "invoice", DocumentID: "inv-2"}},
	})

	s.ErrorIs(err, apperrors.ErrValidation)
	s.distRepo.AssertNotCalled(s.T(), "SaveVerifications", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *DistributionServiceTestSuite) TestSend_RequiresSenderVerification() {
	s.expectRollback()
	s.distRepo.On("LockDistribution", mock.Anything, mock.Anything, "dist-1").Return(s.draft(domain.StatusDraft), nil)

	d, err := s.service.Send(s.ctx, s.actor, "dist-1")

	s.Nil(d)
	s.ErrorIs(err, apperrors.ErrInvalidState)
	s.distRepo.AssertNotCalled(s.T(), "UpdateDistribution", mock.Anything, mock.Anything, mock.Anything)
}

func (s *DistributionServiceTestSuite) TestSend_AdvancesAndNotifies() {
	s.expectTx()
	s.distRepo.On("LockDistribution", mock.Anything, mock.Anything, "dist-1").Return(s.draft(domain.StatusVerifiedBySender), nil)
	s.distRepo.On("UpdateDistribution", mock.Anything, mock.Anything, mock.MatchedBy(func(d domain.Distribution) bool {
		return d.Status == domain.StatusSent && d.SentAt != nil
	})).Return(nil).Once()
	s.historyRepo.On("AppendHistory", mock.Anything, mock.Anything, mock.MatchedBy(func(e []domain.HistoryEntry) bool {
		return len(e) == 1 && e[0].Action == domain.ActionSent
	})).Return(nil).Once()
	s.outboxRepo.On("EnqueueNotifications", mock.Anything, mock.Anything, mock.MatchedBy(func(m []domain.OutboxMessage) bool {
		return len(m) == 1 && m[0].Event == domain.EventSent && m[0].Payload["recipient_department_id"] == "dept-wh"
	})).Return(nil).Once()
	s.trigger.On("Trigger").Return().Once()

	d, err := s.service.Send(s.ctx, s.actor, "dist-1")

	s.Require().NoError(err)
	s.Equal(domain.StatusSent, d.Status)
	s.outboxRepo.AssertExpectations(s.T())
	s.trigger.AssertExpectations(s.T())
}

func (s *DistributionServiceTestSuite) TestReceive_RelocatesEveryBundledDocument() {
	inv, add := invoiceRef("inv-1"), additionalRef("add-1")
	via := "inv-1"
	s.expectTx()
	s.distRepo.On("LockDistribution", mock.Anything, mock.Anything, "dist-1").Return(s.draft(domain.StatusSent), nil)
	s.distRepo.On("FindDistributionDocumentsInTx", mock.Anything, mock.Anything, "dist-1").Return([]domain.DistributionDocument{
		{DistributionID: "dist-1", DocumentRef: inv},
		{DistributionID: "dist-1", DocumentRef: add, AutoIncluded: true, IncludedViaInvoiceID: &via},
	}, nil)
	s.locationRepo.On("AppendLocations", mock.Anything, mock.Anything, mock.MatchedBy(func(r []domain.LocationRecord) bool {
		if len(r) != 2 {
			return false
		}
		for _, rec := range r {
			if rec.LocationCode != "WH1" || rec.DistributionID == nil || *rec.DistributionID != "dist-1" ||
				rec.MovedBy == nil || *rec.MovedBy != "user-hq" {
				return false
			}
		}
		return true
	})).Return(nil).Once()
	s.docRepo.On("SetDocumentLocation", mock.Anything, mock.Anything, inv, "WH1").Return(nil).Once()
	s.docRepo.On("SetDocumentLocation", mock.Anything, mock.Anything, add, "WH1").Return(nil).Once()
	s.distRepo.On("UpdateDistribution", mock.Anything, mock.Anything, mock.MatchedBy(func(d domain.Distribution) bool {
		return d.Status == domain.StatusReceived && d.ReceivedAt != nil
	})).Return(nil).Once()
	s.historyRepo.On("AppendHistory", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.outboxRepo.On("EnqueueNotifications", mock.Anything, mock.Anything, mock.MatchedBy(func(m []domain.OutboxMessage) bool {
		return len(m) == 1 && m[0].Event == domain.EventReceived
	})).Return(nil).Once()
	s.cache.On("InvalidateLocations", mock.Anything, []domain.DocumentRef{inv, add}).Return(nil).Once()
	s.trigger.On("Trigger").Return().Once()

	d, err := s.service.Receive(s.ctx, s.actor, "dist-1")

	s.Require().NoError(err)
	s.Equal(domain.StatusReceived, d.Status)
	s.docRepo.AssertExpectations(s.T())
	s.locationRepo.AssertExpectations(s.T())
	s.cache.AssertExpectations(s.T())
}

func (s *DistributionServiceTestSuite) TestReceive_CacheFailureDoesNotFail() {
	s.expectTx()
	s.distRepo.On("LockDistribution", mock.Anything, mock.Anything, "dist-1").Return(s.draft(domain.StatusSent), nil)
	s.distRepo.On("FindDistributionDocumentsInTx", mock.Anything, mock.Anything, "dist-1").
		Return([]domain.DistributionDocument{{DistributionID: "dist-1", DocumentRef: invoiceRef("inv-1")}}, nil)
	s.locationRepo.On("AppendLocations", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.docRepo.On("SetDocumentLocation", mock.Anything, mock.Anything, mock.Anything, "WH1").Return(nil)
	s.distRepo.On("UpdateDistribution", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.historyRepo.On("AppendHistory", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.outboxRepo.On("EnqueueNotifications", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.cache.On("InvalidateLocations", mock.Anything, mock.Anything).Return(errors.New("redis unavailable"))
	s.trigger.On("Trigger").Return()

	d, err := s.service.Receive(s.ctx, s.actor, "dist-1")

	s.Require().NoError(err)
	s.Equal(domain.StatusReceived, d.Status)
}

func (s *DistributionServiceTestSuite) receiverFixture() {
	s.distRepo.On("LockDistribution", mock.Anything, mock.Anything, "dist-1").Return(s.draft(domain.StatusReceived), nil)
	s.distRepo.On("FindDistributionDocumentsInTx", mock.Anything, mock.Anything, "dist-1").Return([]domain.DistributionDocument{
		{DistributionID: "dist-1", DocumentRef: invoiceRef("inv-1")},
		{DistributionID: "dist-1", DocumentRef: invoiceRef("inv-2")},
	}, nil)
}

func receiverRequest(force bool) dto.VerifyReceiverRequest {
	return dto.VerifyReceiverRequest{
		Verifications: []dto.DocumentVerificationRequest{
			{DocumentKind: "invoice", DocumentID: "inv-1"},
			{DocumentKind: "invoice", DocumentID: "inv-2", Status: "missing", Notes: "not in envelope"},
		},
		ForceCompleteWithDiscrepancies: force,
	}
}

func (s *DistributionServiceTestSuite) TestVerifyReceiver_DiscrepancyPendingWithoutForce() {
	s.expectRollback()
	s.receiverFixture()

	d, err := s.service.VerifyReceiver(s.ctx, s.actor, "dist-1", receiverRequest(false))

	s.Nil(d)
	s.ErrorIs(err, apperrors.ErrDiscrepancyPending)
	var pending *domain.DiscrepancyPendingError
	s.Require().True(errors.As(err, &pending))
	s.Require().Len(pending.Discrepancies, 1)
	s.Equal(invoiceRef("inv-2"), pending.Discrepancies[0].DocumentRef)
	s.Equal(domain.VerificationMissing, pending.Discrepancies[0].Status)
	s.distRepo.AssertNotCalled(s.T(), "SaveVerifications", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.distRepo.AssertNotCalled(s.T(), "UpdateDistribution", mock.Anything, mock.Anything, mock.Anything)
	s.distRepo.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
}

func (s *DistributionServiceTestSuite) TestVerifyReceiver_ForcedRecordsDiscrepancies() {
	s.expectTx()
	s.receiverFixture()
	s.distRepo.On("SaveVerifications", mock.Anything, mock.Anything, "dist-1", domain.SideReceiver, mock.Anything).Return(nil).Once()
	s.distRepo.On("UpdateDistribution", mock.Anything, mock.Anything, mock.MatchedBy(func(d domain.Distribution) bool {
		return d.Status == domain.StatusVerifiedByReceiver && d.HasDiscrepancies
	})).Return(nil).Once()
	s.historyRepo.On("AppendHistory", mock.Anything, mock.Anything, mock.MatchedBy(func(e []domain.HistoryEntry) bool {
		return len(e) == 2 &&
			e[0].Action == domain.ActionVerifiedByReceiver &&
			e[1].Action == domain.ActionDiscrepancyFound &&
			e[1].DistributionID == "dist-1"
	})).Return(nil).Once()
	s.outboxRepo.On("EnqueueNotifications", mock.Anything, mock.Anything, mock.MatchedBy(func(m []domain.OutboxMessage) bool {
		return len(m) == 1 && m[0].Event == domain.EventDiscrepancy && m[0].Payload["recipient_department_id"] == "dept-hq"
	})).Return(nil).Once()
	s.trigger.On("Trigger").Return().Once()

	d, err := s.service.VerifyReceiver(s.ctx, s.actor, "dist-1", receiverRequest(true))

	s.Require().NoError(err)
	s.Equal(domain.StatusVerifiedByReceiver, d.Status)
	s.True(d.HasDiscrepancies)
	s.historyRepo.AssertExpectations(s.T())
	s.outboxRepo.AssertExpectations(s.T())
}

func (s *DistributionServiceTestSuite) TestVerifyReceiver_CleanBundle() {
	s.expectTx()
	s.receiverFixture()
	s.distRepo.On("SaveVerifications", mock.Anything, mock.Anything, "dist-1", domain.SideReceiver, mock.Anything).Return(nil).Once()
	s.distRepo.On("UpdateDistribution", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.historyRepo.On("AppendHistory", mock.Anything, mock.Anything, mock.MatchedBy(func(e []domain.HistoryEntry) bool {
		return len(e) == 1
	})).Return(nil).Once()

	d, err := s.service.VerifyReceiver(s.ctx, s.actor, "dist-1", dto.VerifyReceiverRequest{
		Verifications: []dto.DocumentVerificationRequest{
			{DocumentKind: "invoice", DocumentID: "inv-1"},
			{DocumentKind: "invoice", DocumentID: "inv-2", Status: "verified"},
		},
	})

	s.Require().NoError(err)
	s.False(d.HasDiscrepancies)
	s.outboxRepo.AssertNotCalled(s.T(), "EnqueueNotifications", mock.Anything, mock.Anything, mock.Anything)
}

func (s *DistributionServiceTestSuite) TestComplete() {
	s.expectTx()
	s.distRepo.On("LockDistribution", mock.Anything, mock.Anything, "dist-1").Return(s.draft(domain.StatusVerifiedByReceiver), nil)
	s.distRepo.On("UpdateDistribution", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.historyRepo.On("AppendHistory", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.outboxRepo.On("EnqueueNotifications", mock.Anything, mock.Anything, mock.MatchedBy(func(m []domain.OutboxMessage) bool {
		return len(m) == 1 && m[0].Event == domain.EventCompleted
	})).Return(nil).Once()
	s.trigger.On("Trigger").Return().Once()

	d, err := s.service.Complete(s.ctx, s.actor, "dist-1")

	s.Require().NoError(err)
	s.Equal(domain.StatusCompleted, d.Status)
	s.NotNil(d.CompletedAt)
}

func (s *DistributionServiceTestSuite) TestComplete_Terminal() {
	s.expectRollback()
	s.distRepo.On("LockDistribution", mock.Anything, mock.Anything, "dist-1").Return(s.draft(domain.StatusCompleted), nil)

	_, err := s.service.Complete(s.ctx, s.actor, "dist-1")

	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *DistributionServiceTestSuite) TestGetHistory() {
	s.distRepo.On("FindDistributionByID", mock.Anything, "dist-1").Return(s.draft(domain.StatusSent), nil)
	entries := []domain.HistoryEntry{
		{EntryID: 3, Action: domain.ActionSent},
		{EntryID: 2, Action: domain.ActionVerifiedBySender},
		{EntryID: 1, Action: domain.ActionCreated},
	}
	s.historyRepo.On("ListHistory", mock.Anything, "dist-1").Return(entries, nil)

	got, err := s.service.GetHistory(s.ctx, "dist-1")

	s.Require().NoError(err)
	s.Equal(entries, got)
}

func (s *DistributionServiceTestSuite) TestGetHistory_NotFound() {
	s.distRepo.On("FindDistributionByID", mock.Anything, "nope").Return(nil, apperrors.ErrNotFound)

	_, err := s.service.GetHistory(s.ctx, "nope")

	s.ErrorIs(err, apperrors.ErrNotFound)
	s.historyRepo.AssertNotCalled(s.T(), "ListHistory", mock.Anything, mock.Anything)
}

func (s *DistributionServiceTestSuite) TestListDistributions_BuildsFilter() {
	expected := domain.DistributionFilter{
		DepartmentID: "dept-wh",
		Status:       domain.StatusSent,
		Role:         domain.RoleCreator,
		UserID:       "user-hq",
	}
	s.distRepo.On("ListDistributions", mock.Anything, expected, 20, (*string)(nil)).
		Return([]domain.Distribution{*s.draft(domain.StatusSent)}, "next", nil)

	list, next, err := s.service.ListDistributions(s.ctx, s.actor, dto.ListDistributionsParams{
		DepartmentID: "dept-wh", Status: "sent", Role: "creator",
	})

	s.Require().NoError(err)
	s.Len(list, 1)
	s.Require().NotNil(next)
	s.Equal("next", *next)
}

func TestListDistributions_RejectsUnknownRole(t *testing.T) {
	svc := services.NewDistributionService(portsrepo.RepositoryProvider{DistributionRepo: new(MockDistributionRepository)})

	_, _, err := svc.ListDistributions(context.Background(), domain.Actor{UserID: "u"}, dto.ListDistributionsParams{Role: "owner"})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
