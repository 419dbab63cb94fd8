package service

import (
	"os"
	"testing"
)

// testOperatorID matches GAME_ADMIN_ID below; operator-only operations in
// tests authenticate against it.
const testOperatorID int64 = 999

func TestMain(m *testing.M) {
	os.Setenv("ENVIRONMENT", "test")
	os.Setenv("GAME_ADMIN_ID", "999")
	os.Setenv("MIN_ROUND_DURATION_SECONDS", "60")
	os.Setenv("MIN_BETS_CLOSED_DURATION_SECONDS", "30")
	os.Setenv("MIN_NEW_ROUND_DELAY_SECONDS", "30")
	os.Exit(m.Run())
}

// mockDeps bundles the full mock repository set behind a unit of work
type mockDeps struct {
	factory         *MockUnitOfWorkFactory
	uow             *MockUnitOfWork
	accountRepo     *MockAccountRepository
	vaultRepo       *MockVaultRepository
	positionRepo    *MockProviderPositionRepository
	sessionRepo     *MockGameSessionRepository
	playerBetsRepo  *MockPlayerBetsRepository
	claimRecordRepo *MockClaimRecordRepository
	ledgerRepo      *MockLedgerEntryRepository
	eventBus        *MockEventPublisher
}

func newMockDeps() *mockDeps {
	d := &mockDeps{
		factory:         new(MockUnitOfWorkFactory),
		uow:             new(MockUnitOfWork),
		accountRepo:     new(MockAccountRepository),
		vaultRepo:       new(MockVaultRepository),
		positionRepo:    new(MockProviderPositionRepository),
		sessionRepo:     new(MockGameSessionRepository),
		playerBetsRepo:  new(MockPlayerBetsRepository),
		claimRecordRepo: new(MockClaimRecordRepository),
		ledgerRepo:      new(MockLedgerEntryRepository),
		eventBus:        new(MockEventPublisher),
	}
	d.uow.SetRepositories(
		d.accountRepo,
		d.vaultRepo,
		d.positionRepo,
		d.sessionRepo,
		d.playerBetsRepo,
		d.claimRecordRepo,
		d.ledgerRepo,
		d.eventBus,
	)
	d.factory.On("Create").Return(d.uow)
	return d
}

func (d *mockDeps) assertExpectations(t *testing.T) {
	d.factory.AssertExpectations(t)
	d.uow.AssertExpectations(t)
	d.accountRepo.AssertExpectations(t)
	d.vaultRepo.AssertExpectations(t)
	d.positionRepo.AssertExpectations(t)
	d.sessionRepo.AssertExpectations(t)
	d.playerBetsRepo.AssertExpectations(t)
	d.claimRecordRepo.AssertExpectations(t)
	d.ledgerRepo.AssertExpectations(t)
	d.eventBus.AssertExpectations(t)
}
