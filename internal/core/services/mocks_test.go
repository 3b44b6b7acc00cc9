package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	portsrepo "github.com/SscSPs/document_distribution_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/document_distribution_app/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// --- Mock transaction manager ---
// Begin hands out a nil pgx.Tx; repository mocks match it with mock.Anything.
type mockTxManager struct {
	mock.Mock
}

func (m *mockTxManager) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *mockTxManager) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *mockTxManager) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock DistributionRepository ---
type MockDistributionRepository struct {
	mockTxManager
}

var _ portsrepo.DistributionRepositoryWithTx = (*MockDistributionRepository)(nil)

func (m *MockDistributionRepository) FindDistributionByID(ctx context.Context, distributionID string) (*domain.Distribution, error) {
	args := m.Called(ctx, distributionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Distribution), args.Error(1)
}

func (m *MockDistributionRepository) ListDistributions(ctx context.Context, filter domain.DistributionFilter, limit int, nextToken *string) ([]domain.Distribution, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var next *string
	if args.Get(1) != nil {
		token := args.Get(1).(string)
		next = &token
	}
	return args.Get(0).([]domain.Distribution), next, args.Error(2)
}

func (m *MockDistributionRepository) FindDistributionDocuments(ctx context.Context, distributionID string) ([]domain.DistributionDocument, error) {
	args := m.Called(ctx, distributionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DistributionDocument), args.Error(1)
}

func (m *MockDistributionRepository) LockDistribution(ctx context.Context, tx pgx.Tx, distributionID string) (*domain.Distribution, error) {
	args := m.Called(ctx, tx, distributionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// hand out a copy so the service cannot mutate the test fixture
	d := *args.Get(0).(*domain.Distribution)
	return &d, args.Error(1)
}

func (m *MockDistributionRepository) FindDistributionDocumentsInTx(ctx context.Context, tx pgx.Tx, distributionID string) ([]domain.DistributionDocument, error) {
	args := m.Called(ctx, tx, distributionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DistributionDocument), args.Error(1)
}

func (m *MockDistributionRepository) SaveDistribution(ctx context.Context, tx pgx.Tx, distribution domain.Distribution) error {
	args := m.Called(ctx, tx, distribution)
	return args.Error(0)
}

func (m *MockDistributionRepository) UpdateDistribution(ctx context.Context, tx pgx.Tx, distribution domain.Distribution) error {
	args := m.Called(ctx, tx, distribution)
	return args.Error(0)
}

func (m *MockDistributionRepository) AddDistributionDocuments(ctx context.Context, tx pgx.Tx, documents []domain.DistributionDocument) error {
	args := m.Called(ctx, tx, documents)
	return args.Error(0)
}

func (m *MockDistributionRepository) RemoveDistributionDocuments(ctx context.Context, tx pgx.Tx, distributionID string, refs []domain.DocumentRef) (int64, error) {
	args := m.Called(ctx, tx, distributionID, refs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDistributionRepository) SaveVerifications(ctx context.Context, tx pgx.Tx, distributionID string, side domain.VerificationSide, verifications []domain.DocumentVerification) error {
	args := m.Called(ctx, tx, distributionID, side, verifications)
	return args.Error(0)
}

func (m *MockDistributionRepository) LockNumberPrefix(ctx context.Context, tx pgx.Tx, prefix string) error {
	args := m.Called(ctx, tx, prefix)
	return args.Error(0)
}

func (m *MockDistributionRepository) MaxNumberSequence(ctx context.Context, tx pgx.Tx, prefix string) (int, error) {
	args := m.Called(ctx, tx, prefix)
	return args.Int(0), args.Error(1)
}

// --- Mock DocumentRepository ---
type MockDocumentRepository struct {
	mock.Mock
}

var _ portsrepo.DocumentRepositoryFacade = (*MockDocumentRepository)(nil)

func (m *MockDocumentRepository) FindDocument(ctx context.Context, ref domain.DocumentRef) (*domain.Document, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindLinkedAdditionalDocuments(ctx context.Context, invoiceID string) ([]domain.Document, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) SetDocumentLocation(ctx context.Context, tx pgx.Tx, ref domain.DocumentRef, locationCode string) error {
	args := m.Called(ctx, tx, ref, locationCode)
	return args.Error(0)
}

// --- Mock LocationRepository ---
type MockLocationRepository struct {
	mockTxManager
}

var _ portsrepo.LocationRepositoryWithTx = (*MockLocationRepository)(nil)

func (m *MockLocationRepository) FindLatestLocation(ctx context.Context, ref domain.DocumentRef) (*domain.LocationRecord, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LocationRecord), args.Error(1)
}

func (m *MockLocationRepository) ListLocations(ctx context.Context, ref domain.DocumentRef) ([]domain.LocationRecord, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LocationRecord), args.Error(1)
}

func (m *MockLocationRepository) AppendLocations(ctx context.Context, tx pgx.Tx, records []domain.LocationRecord) error {
	args := m.Called(ctx, tx, records)
	return args.Error(0)
}

// --- Mock HistoryRepository ---
type MockHistoryRepository struct {
	mock.Mock
}

var _ portsrepo.HistoryRepository = (*MockHistoryRepository)(nil)

func (m *MockHistoryRepository) AppendHistory(ctx context.Context, tx pgx.Tx, entries []domain.HistoryEntry) error {
	args := m.Called(ctx, tx, entries)
	return args.Error(0)
}

func (m *MockHistoryRepository) ListHistory(ctx context.Context, distributionID string) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx, distributionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistoryEntry), args.Error(1)
}

// --- Mock reference repositories ---
type MockReferenceRepository struct {
	mock.Mock
}

var (
	_ portsrepo.DepartmentRepository       = (*MockReferenceRepository)(nil)
	_ portsrepo.DistributionTypeRepository = (*MockReferenceRepository)(nil)
)

func (m *MockReferenceRepository) FindDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error) {
	args := m.Called(ctx, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Department), args.Error(1)
}

func (m *MockReferenceRepository) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Department), args.Error(1)
}

func (m *MockReferenceRepository) SaveDepartment(ctx context.Context, department domain.Department) error {
	args := m.Called(ctx, department)
	return args.Error(0)
}

func (m *MockReferenceRepository) FindDistributionTypeByID(ctx context.Context, typeID string) (*domain.DistributionType, error) {
	args := m.Called(ctx, typeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DistributionType), args.Error(1)
}

func (m *MockReferenceRepository) ListDistributionTypes(ctx context.Context) ([]domain.DistributionType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DistributionType), args.Error(1)
}

func (m *MockReferenceRepository) SaveDistributionType(ctx context.Context, distributionType domain.DistributionType) error {
	args := m.Called(ctx, distributionType)
	return args.Error(0)
}

// --- Mock OutboxRepository ---
type MockOutboxRepository struct {
	mockTxManager
}

var _ portsrepo.OutboxRepositoryWithTx = (*MockOutboxRepository)(nil)

func (m *MockOutboxRepository) EnqueueNotifications(ctx context.Context, tx pgx.Tx, messages []domain.OutboxMessage) error {
	args := m.Called(ctx, tx, messages)
	return args.Error(0)
}

func (m *MockOutboxRepository) ClaimPendingNotifications(ctx context.Context, tx pgx.Tx, limit int) ([]domain.OutboxMessage, error) {
	args := m.Called(ctx, tx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OutboxMessage), args.Error(1)
}

func (m *MockOutboxRepository) MarkNotificationDispatched(ctx context.Context, tx pgx.Tx, messageID string, dispatchedAt time.Time) error {
	args := m.Called(ctx, tx, messageID, dispatchedAt)
	return args.Error(0)
}

func (m *MockOutboxRepository) MarkNotificationAttemptFailed(ctx context.Context, tx pgx.Tx, messageID string, lastError string, terminal bool) error {
	args := m.Called(ctx, tx, messageID, lastError, terminal)
	return args.Error(0)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- Mock LocationCache ---
type MockLocationCache struct {
	mock.Mock
}

var _ portssvc.LocationCache = (*MockLocationCache)(nil)

func (m *MockLocationCache) GetLocation(ctx context.Context, ref domain.DocumentRef) (*domain.CurrentLocation, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrentLocation), args.Error(1)
}

func (m *MockLocationCache) SetLocation(ctx context.Context, loc domain.CurrentLocation) error {
	args := m.Called(ctx, loc)
	return args.Error(0)
}

func (m *MockLocationCache) InvalidateLocations(ctx context.Context, refs ...domain.DocumentRef) error {
	args := m.Called(ctx, refs)
	return args.Error(0)
}

// --- Mock DispatchTrigger ---
type MockDispatchTrigger struct {
	mock.Mock
}

func (m *MockDispatchTrigger) Trigger() {
	m.Called()
}

// --- Mock ManifestStore ---
type MockManifestStore struct {
	mock.Mock
}

var _ portssvc.ManifestStore = (*MockManifestStore)(nil)

func (m *MockManifestStore) PutManifest(ctx context.Context, key string, body []byte) error {
	args := m.Called(ctx, key, body)
	return args.Error(0)
}

func (m *MockManifestStore) PresignManifest(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}
