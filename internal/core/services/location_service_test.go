package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/document_distribution_app/internal/apperrors"
	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	portssvc "github.com/SscSPs/document_distribution_app/internal/core/ports/services"
	"github.com/SscSPs/document_distribution_app/internal/core/services"
	"github.com/SscSPs/document_distribution_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LocationServiceTestSuite struct {
	suite.Suite
	locationRepo *MockLocationRepository
	docRepo      *MockDocumentRepository
	cache        *MockLocationCache
	service      portssvc.LocationSvcFacade
	ctx          context.Context
	ref          domain.DocumentRef
}

func (s *LocationServiceTestSuite) SetupTest() {
	s.locationRepo = new(MockLocationRepository)
	s.docRepo = new(MockDocumentRepository)
	s.cache = new(MockLocationCache)
	s.service = services.NewLocationService(s.locationRepo, s.docRepo, services.WithLocationCache(s.cache))
	s.ctx = context.Background()
	s.ref = domain.DocumentRef{Kind: domain.KindAdditionalDocument, ID: "add-1"}
}

func TestLocationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LocationServiceTestSuite))
}

func (s *LocationServiceTestSuite) TestGetCurrentLocation_CacheHit() {
	cached := &domain.CurrentLocation{DocumentRef: s.ref, LocationCode: "WH1", Source: domain.LocationFromLedger}
	s.cache.On("GetLocation", mock.Anything, s.ref).Return(cached, nil).Once()

	loc, err := s.service.GetCurrentLocation(s.ctx, s.ref)

	s.Require().NoError(err)
	s.Equal(cached, loc)
	s.docRepo.AssertNotCalled(s.T(), "FindDocument", mock.Anything, mock.Anything)
}

func (s *LocationServiceTestSuite) TestGetCurrentLocation_LatestRecordWins() {
	movedAt := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	s.cache.On("GetLocation", mock.Anything, s.ref).Return(nil, nil).Once()
	s.docRepo.On("FindDocument", mock.Anything, s.ref).Return(&domain.Document{DocumentRef: s.ref, Location: "HQ"}, nil).Once()
	s.locationRepo.On("FindLatestLocation", mock.Anything, s.ref).
		Return(&domain.LocationRecord{DocumentRef: s.ref, LocationCode: "WH1", MovedAt: movedAt}, nil).Once()
	s.cache.On("SetLocation", mock.Anything, mock.MatchedBy(func(l domain.CurrentLocation) bool {
		return l.LocationCode == "WH1"
	})).Return(nil).Once()

	loc, err := s.service.GetCurrentLocation(s.ctx, s.ref)

	s.Require().NoError(err)
	s.Equal("WH1", loc.LocationCode)
	s.Equal(domain.LocationFromLedger, loc.Source)
	s.Require().NotNil(loc.AsOf)
	s.True(loc.AsOf.Equal(movedAt))
	s.cache.AssertExpectations(s.T())
}

func (s *LocationServiceTestSuite) TestGetCurrentLocation_FallsBackToDocumentField() {
	s.cache.On("GetLocation", mock.Anything, s.ref).Return(nil, errors.New("redis down")).Once()
	s.docRepo.On("FindDocument", mock.Anything, s.ref).Return(&domain.Document{DocumentRef: s.ref, Location: "HQ"}, nil).Once()
	s.locationRepo.On("FindLatestLocation", mock.Anything, s.ref).Return(nil, apperrors.ErrNotFound).Once()
	s.cache.On("SetLocation", mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()

	loc, err := s.service.GetCurrentLocation(s.ctx, s.ref)

	s.Require().NoError(err)
	s.Equal("HQ", loc.LocationCode)
	s.Equal(domain.LocationFromDocument, loc.Source)
	s.Nil(loc.AsOf)
}

func (s *LocationServiceTestSuite) TestGetCurrentLocation_UnknownDocument() {
	s.cache.On("GetLocation", mock.Anything, s.ref).Return(nil, nil).Once()
	s.docRepo.On("FindDocument", mock.Anything, s.ref).Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.GetCurrentLocation(s.ctx, s.ref)

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LocationServiceTestSuite) TestRelocateDocument() {
	s.docRepo.On("FindDocument", mock.Anything, s.ref).Return(&domain.Document{DocumentRef: s.ref, Location: "HQ"}, nil).Once()
	s.locationRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.locationRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	s.locationRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	s.locationRepo.On("AppendLocations", mock.Anything, mock.Anything, mock.MatchedBy(func(r []domain.LocationRecord) bool {
		return len(r) == 1 && r[0].LocationCode == "ARCH" && r[0].DistributionID == nil && r[0].Reason == "initial load"
	})).Return(nil).Once()
	s.docRepo.On("SetDocumentLocation", mock.Anything, mock.Anything, s.ref, "ARCH").Return(nil).Once()
	s.cache.On("InvalidateLocations", mock.Anything, []domain.DocumentRef{s.ref}).Return(nil).Once()

	rec, err := s.service.RelocateDocument(s.ctx, domain.Actor{UserID: "user-1", DepartmentID: "dept-1"}, s.ref,
		dto.RelocateDocumentRequest{LocationCode: " ARCH ", Reason: "initial load"})

	s.Require().NoError(err)
	s.Equal("ARCH", rec.LocationCode)
	s.Require().NotNil(rec.MovedBy)
	s.Equal("user-1", *rec.MovedBy)
	s.docRepo.AssertExpectations(s.T())
	s.locationRepo.AssertExpectations(s.T())
	s.cache.AssertExpectations(s.T())
}

func (s *LocationServiceTestSuite) TestRelocateDocument_LedgerFailureRollsBack() {
	s.docRepo.On("FindDocument", mock.Anything, s.ref).Return(&domain.Document{DocumentRef: s.ref}, nil).Once()
	s.locationRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.locationRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
	s.locationRepo.On("AppendLocations", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("insert failed")).Once()

	_, err := s.service.RelocateDocument(s.ctx, domain.Actor{UserID: "user-1"}, s.ref,
		dto.RelocateDocumentRequest{LocationCode: "ARCH", Reason: "fix"})

	s.EqualError(err, "insert failed")
	s.docRepo.AssertNotCalled(s.T(), "SetDocumentLocation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.cache.AssertNotCalled(s.T(), "InvalidateLocations", mock.Anything, mock.Anything)
}
