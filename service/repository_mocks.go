package service

import (
	"context"

	"roulette/events"
	"roulette/models"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, accountID int64) (*models.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, accountID int64, initialBalance int64) (*models.Account, error) {
	args := m.Called(ctx, accountID, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) AddBalance(ctx context.Context, accountID int64, amount int64) error {
	args := m.Called(ctx, accountID, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) DeductBalance(ctx context.Context, accountID int64, amount int64) error {
	args := m.Called(ctx, accountID, amount)
	return args.Error(0)
}

// MockVaultRepository is a mock implementation of VaultRepository
type MockVaultRepository struct {
	mock.Mock
}

func (m *MockVaultRepository) Create(ctx context.Context, asset string) (*models.Vault, error) {
	args := m.Called(ctx, asset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vault), args.Error(1)
}

func (m *MockVaultRepository) GetByAsset(ctx context.Context, asset string) (*models.Vault, error) {
	args := m.Called(ctx, asset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vault), args.Error(1)
}

func (m *MockVaultRepository) GetByAssetForUpdate(ctx context.Context, asset string) (*models.Vault, error) {
	args := m.Called(ctx, asset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vault), args.Error(1)
}

func (m *MockVaultRepository) GetByIDForUpdate(ctx context.Context, vaultID int64) (*models.Vault, error) {
	args := m.Called(ctx, vaultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vault), args.Error(1)
}

func (m *MockVaultRepository) Update(ctx context.Context, vault *models.Vault) error {
	args := m.Called(ctx, vault)
	return args.Error(0)
}

// MockProviderPositionRepository is a mock implementation of ProviderPositionRepository
type MockProviderPositionRepository struct {
	mock.Mock
}

func (m *MockProviderPositionRepository) Get(ctx context.Context, vaultID, providerID int64) (*models.ProviderPosition, error) {
	args := m.Called(ctx, vaultID, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProviderPosition), args.Error(1)
}

func (m *MockProviderPositionRepository) Create(ctx context.Context, position *models.ProviderPosition) error {
	args := m.Called(ctx, position)
	return args.Error(0)
}

func (m *MockProviderPositionRepository) Update(ctx context.Context, position *models.ProviderPosition) error {
	args := m.Called(ctx, position)
	return args.Error(0)
}

func (m *MockProviderPositionRepository) Delete(ctx context.Context, vaultID, providerID int64) error {
	args := m.Called(ctx, vaultID, providerID)
	return args.Error(0)
}

// MockGameSessionRepository is a mock implementation of GameSessionRepository
type MockGameSessionRepository struct {
	mock.Mock
}

func (m *MockGameSessionRepository) Get(ctx context.Context) (*models.GameSession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameSession), args.Error(1)
}

func (m *MockGameSessionRepository) GetForUpdate(ctx context.Context) (*models.GameSession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameSession), args.Error(1)
}

func (m *MockGameSessionRepository) Create(ctx context.Context) (*models.GameSession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameSession), args.Error(1)
}

func (m *MockGameSessionRepository) Update(ctx context.Context, session *models.GameSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

// MockPlayerBetsRepository is a mock implementation of PlayerBetsRepository
type MockPlayerBetsRepository struct {
	mock.Mock
}

func (m *MockPlayerBetsRepository) Get(ctx context.Context, playerID, vaultID int64) (*models.PlayerBets, error) {
	args := m.Called(ctx, playerID, vaultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerBets), args.Error(1)
}

func (m *MockPlayerBetsRepository) Save(ctx context.Context, slip *models.PlayerBets) error {
	args := m.Called(ctx, slip)
	return args.Error(0)
}

// MockClaimRecordRepository is a mock implementation of ClaimRecordRepository
type MockClaimRecordRepository struct {
	mock.Mock
}

func (m *MockClaimRecordRepository) Get(ctx context.Context, playerID, vaultID, round int64) (*models.ClaimRecord, error) {
	args := m.Called(ctx, playerID, vaultID, round)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClaimRecord), args.Error(1)
}

func (m *MockClaimRecordRepository) Create(ctx context.Context, record *models.ClaimRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockLedgerEntryRepository is a mock implementation of LedgerEntryRepository
type MockLedgerEntryRepository struct {
	mock.Mock
}

func (m *MockLedgerEntryRepository) Record(ctx context.Context, entry *models.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork backed by mock repositories
type MockUnitOfWork struct {
	mock.Mock
	accountRepo     AccountRepository
	vaultRepo       VaultRepository
	positionRepo    ProviderPositionRepository
	sessionRepo     GameSessionRepository
	playerBetsRepo  PlayerBetsRepository
	claimRecordRepo ClaimRecordRepository
	ledgerRepo      LedgerEntryRepository
	eventBus        EventPublisher
}

// SetRepositories wires the mock repositories into the unit of work
func (m *MockUnitOfWork) SetRepositories(
	accountRepo AccountRepository,
	vaultRepo VaultRepository,
	positionRepo ProviderPositionRepository,
	sessionRepo GameSessionRepository,
	playerBetsRepo PlayerBetsRepository,
	claimRecordRepo ClaimRecordRepository,
	ledgerRepo LedgerEntryRepository,
	eventBus EventPublisher,
) {
	m.accountRepo = accountRepo
	m.vaultRepo = vaultRepo
	m.positionRepo = positionRepo
	m.sessionRepo = sessionRepo
	m.playerBetsRepo = playerBetsRepo
	m.claimRecordRepo = claimRecordRepo
	m.ledgerRepo = ledgerRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository {
	return m.accountRepo
}

func (m *MockUnitOfWork) VaultRepository() VaultRepository {
	return m.vaultRepo
}

func (m *MockUnitOfWork) ProviderPositionRepository() ProviderPositionRepository {
	return m.positionRepo
}

func (m *MockUnitOfWork) GameSessionRepository() GameSessionRepository {
	return m.sessionRepo
}

func (m *MockUnitOfWork) PlayerBetsRepository() PlayerBetsRepository {
	return m.playerBetsRepo
}

func (m *MockUnitOfWork) ClaimRecordRepository() ClaimRecordRepository {
	return m.claimRecordRepo
}

func (m *MockUnitOfWork) LedgerEntryRepository() LedgerEntryRepository {
	return m.ledgerRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
