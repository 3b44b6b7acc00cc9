package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	portssvc "github.com/SscSPs/document_distribution_app/internal/core/ports/services"
	"github.com/SscSPs/document_distribution_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock DistributionService ---
type MockDistributionService struct {
	mock.Mock
}

func (m *MockDistributionService) distribution(args mock.Arguments) (*domain.Distribution, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Distribution), args.Error(1)
}

func (m *MockDistributionService) GetDistribution(ctx context.Context, distributionID string) (*domain.DistributionDetail, error) {
	args := m.Called(ctx, distributionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DistributionDetail), args.Error(1)
}

func (m *MockDistributionService) ListDistributions(ctx context.Context, actor domain.Actor, params dto.ListDistributionsParams) ([]domain.Distribution, *string, error) {
	args := m.Called(ctx, actor, params)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Distribution), next, args.Error(2)
}

func (m *MockDistributionService) CreateDistribution(ctx context.Context, actor domain.Actor, req dto.CreateDistributionRequest) (*domain.CreateDistributionResult, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreateDistributionResult), args.Error(1)
}

func (m *MockDistributionService) UpdateDistribution(ctx context.Context, actor domain.Actor, distributionID string, req dto.UpdateDistributionRequest) (*domain.Distribution, error) {
	return m.distribution(m.Called(ctx, actor, distributionID, req))
}

func (m *MockDistributionService) DeleteDistribution(ctx context.Context, actor domain.Actor, distributionID string) (bool, error) {
	args := m.Called(ctx, actor, distributionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDistributionService) AttachDocuments(ctx context.Context, actor domain.Actor, distributionID string, req dto.AttachDocumentsRequest) (*domain.CreateDistributionResult, error) {
	args := m.Called(ctx, actor, distributionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreateDistributionResult), args.Error(1)
}

func (m *MockDistributionService) DetachDocument(ctx context.Context, actor domain.Actor, distributionID string, ref domain.DocumentRef) (*domain.DistributionDetail, error) {
	args := m.Called(ctx, actor, distributionID, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DistributionDetail), args.Error(1)
}

func (m *MockDistributionService) VerifySender(ctx context.Context, actor domain.Actor, distributionID string, req dto.VerifySenderRequest) (*domain.Distribution, error) {
	return m.distribution(m.Called(ctx, actor, distributionID, req))
}

func (m *MockDistributionService) Send(ctx context.Context, actor domain.Actor, distributionID string) (*domain.Distribution, error) {
	return m.distribution(m.Called(ctx, actor, distributionID))
}

func (m *MockDistributionService) Receive(ctx context.Context, actor domain.Actor, distributionID string) (*domain.Distribution, error) {
	return m.distribution(m.Called(ctx, actor, distributionID))
}

func (m *MockDistributionService) VerifyReceiver(ctx context.Context, actor domain.Actor, distributionID string, req dto.VerifyReceiverRequest) (*domain.Distribution, error) {
	return m.distribution(m.Called(ctx, actor, distributionID, req))
}

func (m *MockDistributionService) Complete(ctx context.Context, actor domain.Actor, distributionID string) (*domain.Distribution, error) {
	return m.distribution(m.Called(ctx, actor, distributionID))
}

func (m *MockDistributionService) GetHistory(ctx context.Context, distributionID string) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx, distributionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistoryEntry), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.DistributionSvcFacade = (*MockDistributionService)(nil)

// --- Mock LocationService ---
type MockLocationService struct {
	mock.Mock
}

func (m *MockLocationService) GetCurrentLocation(ctx context.Context, ref domain.DocumentRef) (*domain.CurrentLocation, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrentLocation), args.Error(1)
}

func (m *MockLocationService) ListLocationHistory(ctx context.Context, ref domain.DocumentRef) ([]domain.LocationRecord, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LocationRecord), args.Error(1)
}

func (m *MockLocationService) RelocateDocument(ctx context.Context, actor domain.Actor, ref domain.DocumentRef, req dto.RelocateDocumentRequest) (*domain.LocationRecord, error) {
	args := m.Called(ctx, actor, ref, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LocationRecord), args.Error(1)
}

var _ portssvc.LocationSvcFacade = (*MockLocationService)(nil)

// --- Mock ReferenceDataService ---
type MockReferenceDataService struct {
	mock.Mock
}

func (m *MockReferenceDataService) CreateDepartment(ctx context.Context, actor domain.Actor, req dto.CreateDepartmentRequest) (*domain.Department, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Department), args.Error(1)
}

func (m *MockReferenceDataService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Department), args.Error(1)
}

func (m *MockReferenceDataService) CreateDistributionType(ctx context.Context, actor domain.Actor, req dto.CreateDistributionTypeRequest) (*domain.DistributionType, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DistributionType), args.Error(1)
}

func (m *MockReferenceDataService) ListDistributionTypes(ctx context.Context) ([]domain.DistributionType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DistributionType), args.Error(1)
}

var _ portssvc.ReferenceDataSvcFacade = (*MockReferenceDataService)(nil)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock TokenService ---
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

var _ portssvc.TokenSvc = (*MockTokenService)(nil)

// --- Mock ManifestService ---
type MockManifestService struct {
	mock.Mock
}

func (m *MockManifestService) GetManifestURL(ctx context.Context, distributionID string, event domain.NotificationEvent) (string, time.Time, error) {
	args := m.Called(ctx, distributionID, event)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

var _ portssvc.ManifestSvc = (*MockManifestService)(nil)
