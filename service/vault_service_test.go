package service

import (
	"context"
	"math/big"
	"testing"

	"roulette/events"
	"roulette/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestVaultService_Deposit_NewPosition(t *testing.T) {
	ctx := context.Background()
	d := newMockDeps()
	svc := NewVaultService(d.factory)

	vault := &models.Vault{
		ID:          1,
		Asset:       "sol",
		RewardIndex: big.NewInt(0),
	}
	account := &models.Account{ID: 100, Balance: 50000}

	d.uow.On("Begin", ctx).Return(nil)
	d.uow.On("Commit").Return(nil)
	d.uow.On("Rollback").Return(nil)

	d.vaultRepo.On("GetByAssetForUpdate", ctx, "sol").Return(vault, nil)
	d.accountRepo.On("GetByID", ctx, int64(100)).Return(account, nil)
	d.positionRepo.On("Get", ctx, int64(1), int64(100)).Return(nil, nil)
	d.accountRepo.On("DeductBalance", ctx, int64(100), int64(10000)).Return(nil)

	d.positionRepo.On("Create", ctx, mock.MatchedBy(func(p *models.ProviderPosition) bool {
		return p.VaultID == 1 &&
			p.ProviderID == 100 &&
			p.Amount == 10000 &&
			p.UnclaimedRewards == 0 &&
			p.LastRewardIndex.Sign() == 0
	})).Return(nil)

	d.vaultRepo.On("Update", ctx, mock.MatchedBy(func(v *models.Vault) bool {
		return v.TotalLiquidity == 10000 && v.TotalProviderCapital == 10000
	})).Return(nil)

	d.ledgerRepo.On("Record", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.AccountID == 100 &&
			e.EntryType == models.EntryTypeDeposit &&
			e.ChangeAmount == -10000 &&
			e.BalanceBefore == 50000 &&
			e.BalanceAfter == 40000
	})).Return(nil)

	d.eventBus.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return()
	d.eventBus.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		ev, ok := e.(events.LiquidityProvidedEvent)
		return ok && ev.ProviderID == 100 && ev.Amount == 10000
	})).Return()

	position, err := svc.Deposit(ctx, 100, "sol", 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), position.Amount)

	d.assertExpectations(t)
}

func TestVaultService_Deposit_SettlesExistingPosition(t *testing.T) {
	ctx := context.Background()
	d := newMockDeps()
	svc := NewVaultService(d.factory)

	// 1000 already accrued over 10000 capital
	index := new(big.Int).Mul(big.NewInt(1000), models.RewardScale)
	index.Quo(index, big.NewInt(10000))
	vault := &models.Vault{
		ID:                   1,
		Asset:                "sol",
		TotalLiquidity:       11000,
		TotalProviderCapital: 10000,
		RewardIndex:          index,
	}
	position := &models.ProviderPosition{
		VaultID:         1,
		ProviderID:      100,
		Amount:          10000,
		LastRewardIndex: big.NewInt(0),
	}
	account := &models.Account{ID: 100, Balance: 50000}

	d.uow.On("Begin", ctx).Return(nil)
	d.uow.On("Commit").Return(nil)
	d.uow.On("Rollback").Return(nil)

	d.vaultRepo.On("GetByAssetForUpdate", ctx, "sol").Return(vault, nil)
	d.accountRepo.On("GetByID", ctx, int64(100)).Return(account, nil)
	d.positionRepo.On("Get", ctx, int64(1), int64(100)).Return(position, nil)
	d.accountRepo.On("DeductBalance", ctx, int64(100), int64(5000)).Return(nil)

	// Pending rewards are folded in before the capital changes
	d.positionRepo.On("Update", ctx, mock.MatchedBy(func(p *models.ProviderPosition) bool {
		return p.Amount == 15000 &&
			p.UnclaimedRewards == 1000 &&
			p.LastRewardIndex.Cmp(index) == 0
	})).Return(nil)

	d.vaultRepo.On("Update", ctx, mock.MatchedBy(func(v *models.Vault) bool {
		return v.TotalLiquidity == 16000 && v.TotalProviderCapital == 15000
	})).Return(nil)

	d.ledgerRepo.On("Record", ctx, mock.Anything).Return(nil)
	d.eventBus.On("Publish", mock.Anything).Return()

	_, err := svc.Deposit(ctx, 100, "sol", 5000)
	require.NoError(t, err)

	d.assertExpectations(t)
}

func TestVaultService_Deposit_RejectsNonPositiveAmount(t *testing.T) {
	d := newMockDeps()
	svc := NewVaultService(d.factory)

	_, err := svc.Deposit(context.Background(), 100, "sol", 0)
	assert.Error(t, err)

	_, err = svc.Deposit(context.Background(), 100, "sol", -5)
	assert.Error(t, err)
}

func TestVaultService_UnclaimedRewards(t *testing.T) {
	ctx := context.Background()
	d := newMockDeps()
	svc := NewVaultService(d.factory)

	// 400 already settled on the position, 600 pending from index movement
	index := new(big.Int).Mul(big.NewInt(600), models.RewardScale)
	index.Quo(index, big.NewInt(10000))
	vault := &models.Vault{
		ID:                   1,
		Asset:                "sol",
		TotalLiquidity:       11000,
		TotalProviderCapital: 10000,
		RewardIndex:          index,
	}
	position := &models.ProviderPosition{
		VaultID:          1,
		ProviderID:       100,
		Amount:           10000,
		UnclaimedRewards: 400,
		LastRewardIndex:  big.NewInt(0),
	}

	d.uow.On("Begin", ctx).Return(nil)
	d.uow.On("Rollback").Return(nil)

	d.vaultRepo.On("GetByAsset", ctx, "sol").Return(vault, nil)
	d.positionRepo.On("Get", ctx, int64(1), int64(100)).Return(position, nil)

	amount, err := svc.UnclaimedRewards(ctx, 100, "sol")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), amount)

	// Read-only: nothing is settled or persisted
	d.positionRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	d.vaultRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	assert.Equal(t, int64(400), position.UnclaimedRewards)
	assert.Equal(t, 0, position.LastRewardIndex.Sign())

	d.assertExpectations(t)
}

func TestVaultService_UnclaimedRewards_NoPosition(t *testing.T) {
	ctx := context.Background()
	d := newMockDeps()
	svc := NewVaultService(d.factory)

	vault := &models.Vault{ID: 1, Asset: "sol", RewardIndex: big.NewInt(0)}

	d.uow.On("Begin", ctx).Return(nil)
	d.uow.On("Rollback").Return(nil)

	d.vaultRepo.On("GetByAsset", ctx, "sol").Return(vault, nil)
	d.positionRepo.On("Get", ctx, int64(1), int64(100)).Return(nil, nil)

	amount, err := svc.UnclaimedRewards(ctx, 100, "sol")
	require.NoError(t, err)
	assert.Equal(t, int64(0), amount)

	d.assertExpectations(t)
}

func TestVaultService_WithdrawRevenue(t *testing.T) {
	ctx := context.Background()
	d := newMockDeps()
	svc := NewVaultService(d.factory)

	index := new(big.Int).Mul(big.NewInt(500), models.RewardScale)
	index.Quo(index, big.NewInt(10000))
	vault := &models.Vault{
		ID:                   1,
		Asset:                "sol",
		TotalLiquidity:       10500,
		TotalProviderCapital: 10000,
		RewardIndex:          index,
	}
	position := &models.ProviderPosition{
		VaultID:         1,
		ProviderID:      100,
		Amount:          10000,
		LastRewardIndex: big.NewInt(0),
	}
	account := &models.Account{ID: 100, Balance: 1000}

	d.uow.On("Begin", ctx).Return(nil)
	d.uow.On("Commit").Return(nil)
	d.uow.On("Rollback").Return(nil)

	d.vaultRepo.On("GetByAssetForUpdate", ctx, "sol").Return(vault, nil)
	d.positionRepo.On("Get", ctx, int64(1), int64(100)).Return(position, nil)
	d.accountRepo.On("GetByID", ctx, int64(100)).Return(account, nil)
	d.accountRepo.On("AddBalance", ctx, int64(100), int64(500)).Return(nil)

	d.positionRepo.On("Update", ctx, mock.MatchedBy(func(p *models.ProviderPosition) bool {
		return p.UnclaimedRewards == 0 && p.Amount == 10000
	})).Return(nil)

	d.vaultRepo.On("Update", ctx, mock.MatchedBy(func(v *models.Vault) bool {
		return v.TotalLiquidity == 10000 && v.TotalProviderCapital == 10000
	})).Return(nil)

	d.ledgerRepo.On("Record", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.EntryType == models.EntryTypeRewardWithdrawal && e.ChangeAmount == 500
	})).Return(nil)
	d.eventBus.On("Publish", mock.Anything).Return()

	amount, err := svc.WithdrawRevenue(ctx, 100, "sol")
	require.NoError(t, err)
	assert.Equal(t, int64(500), amount)

	d.assertExpectations(t)
}

func TestVaultService_WithdrawRevenue_NothingAccrued(t *testing.T) {
	ctx := context.Background()
	d := newMockDeps()
	svc := NewVaultService(d.factory)

	vault := &models.Vault{
		ID:                   1,
		Asset:                "sol",
		TotalLiquidity:       10000,
		TotalProviderCapital: 10000,
		RewardIndex:          big.NewInt(0),
	}
	position := &models.ProviderPosition{
		VaultID:         1,
		ProviderID:      100,
		Amount:          10000,
		LastRewardIndex: big.NewInt(0),
	}

	d.uow.On("Begin", ctx).Return(nil)
	d.uow.On("Rollback").Return(nil)

	d.vaultRepo.On("GetByAssetForUpdate", ctx, "sol").Return(vault, nil)
	d.positionRepo.On("Get", ctx, int64(1), int64(100)).Return(position, nil)

	_, err := svc.WithdrawRevenue(ctx, 100, "sol")
	assert.ErrorIs(t, err, ErrNoRewardsAvailable)

	d.assertExpectations(t)
}

func TestVaultService_WithdrawRevenue_NoPosition(t *testing.T) {
	ctx := context.Background()
	d := newMockDeps()
	svc := NewVaultService(d.factory)

	vault := &models.Vault{ID: 1, Asset: "sol", RewardIndex: big.NewInt(0)}

	d.uow.On("Begin", ctx).Return(nil)
	d.uow.On("Rollback").Return(nil)

	d.vaultRepo.On("GetByAssetForUpdate", ctx, "sol").Return(vault, nil)
	d.positionRepo.On("Get", ctx, int64(1), int64(100)).Return(nil, nil)

	_, err := svc.WithdrawRevenue(ctx, 100, "sol")
	assert.ErrorIs(t, err, ErrInsufficientCapital)

	d.assertExpectations(t)
}

func TestVaultService_WithdrawAll(t *testing.T) {
	ctx := context.Background()
	d := newMockDeps()
	svc := NewVaultService(d.factory)

	index := new(big.Int).Mul(big.NewInt(300), models.RewardScale)
	index.Quo(index, big.NewInt(10000))
	vault := &models.Vault{
		ID:                   1,
		Asset:                "sol",
		TotalLiquidity:       10300,
		TotalProviderCapital: 10000,
		RewardIndex:          index,
	}
	position := &models.ProviderPosition{
		VaultID:         1,
		ProviderID:      100,
		Amount:          10000,
		LastRewardIndex: big.NewInt(0),
	}
	account := &models.Account{ID: 100, Balance: 0}

	d.uow.On("Begin", ctx).Return(nil)
	d.uow.On("Commit").Return(nil)
	d.uow.On("Rollback").Return(nil)

	d.vaultRepo.On("GetByAssetForUpdate", ctx, "sol").Return(vault, nil)
	d.positionRepo.On("Get", ctx, int64(1), int64(100)).Return(position, nil)
	d.accountRepo.On("GetByID", ctx, int64(100)).Return(account, nil)
	d.accountRepo.On("AddBalance", ctx, int64(100), int64(10300)).Return(nil)
	d.positionRepo.On("Delete", ctx, int64(1), int64(100)).Return(nil)

	d.vaultRepo.On("Update", ctx, mock.MatchedBy(func(v *models.Vault) bool {
		return v.TotalLiquidity == 0 && v.TotalProviderCapital == 0
	})).Return(nil)

	d.ledgerRepo.On("Record", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.EntryType == models.EntryTypeWithdrawal && e.ChangeAmount == 10300
	})).Return(nil)
	d.eventBus.On("Publish", mock.Anything).Return()

	total, err := svc.WithdrawAll(ctx, 100, "sol")
	require.NoError(t, err)
	assert.Equal(t, int64(10300), total)

	d.assertExpectations(t)
}

func TestVaultService_WithdrawOwnerRevenue(t *testing.T) {
	ctx := context.Background()
	d := newMockDeps()
	svc := NewVaultService(d.factory)

	vault := &models.Vault{
		ID:             1,
		Asset:          "sol",
		TotalLiquidity: 10800,
		OwnerRevenue:   800,
		RewardIndex:    big.NewInt(0),
	}
	account := &models.Account{ID: testOperatorID, Balance: 0}

	d.uow.On("Begin", ctx).Return(nil)
	d.uow.On("Commit").Return(nil)
	d.uow.On("Rollback").Return(nil)

	d.vaultRepo.On("GetByAssetForUpdate", ctx, "sol").Return(vault, nil)
	d.accountRepo.On("GetByID", ctx, testOperatorID).Return(account, nil)
	d.accountRepo.On("AddBalance", ctx, testOperatorID, int64(800)).Return(nil)

	d.vaultRepo.On("Update", ctx, mock.MatchedBy(func(v *models.Vault) bool {
		return v.OwnerRevenue == 0 && v.TotalLiquidity == 10000
	})).Return(nil)

	d.ledgerRepo.On("Record", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.EntryType == models.EntryTypeOwnerWithdrawal && e.ChangeAmount == 800
	})).Return(nil)
	d.eventBus.On("Publish", mock.Anything).Return()

	amount, err := svc.WithdrawOwnerRevenue(ctx, testOperatorID, "sol")
	require.NoError(t, err)
	assert.Equal(t, int64(800), amount)

	d.assertExpectations(t)
}

func TestVaultService_WithdrawOwnerRevenue_Unauthorized(t *testing.T) {
	d := newMockDeps()
	svc := NewVaultService(d.factory)

	_, err := svc.WithdrawOwnerRevenue(context.Background(), 12345, "sol")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVaultService_DistributePayoutReserve(t *testing.T) {
	ctx := context.Background()
	d := newMockDeps()
	svc := NewVaultService(d.factory)

	vault := &models.Vault{
		ID:                   1,
		Asset:                "sol",
		TotalLiquidity:       11000,
		TotalProviderCapital: 10000,
		PayoutReserve:        1000,
		RewardIndex:          big.NewInt(0),
	}

	d.uow.On("Begin", ctx).Return(nil)
	d.uow.On("Commit").Return(nil)
	d.uow.On("Rollback").Return(nil)

	d.vaultRepo.On("GetByAssetForUpdate", ctx, "sol").Return(vault, nil)

	// 500 released: 250 to the operator, 250 into the reward index.
	// Custody does not change, only the vault's internal buckets.
	d.vaultRepo.On("Update", ctx, mock.MatchedBy(func(v *models.Vault) bool {
		expectedIndex := new(big.Int).Mul(big.NewInt(250), models.RewardScale)
		expectedIndex.Quo(expectedIndex, big.NewInt(10000))
		return v.PayoutReserve == 500 &&
			v.OwnerRevenue == 250 &&
			v.TotalLiquidity == 11000 &&
			v.RewardIndex.Cmp(expectedIndex) == 0
	})).Return(nil)

	d.eventBus.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		ev, ok := e.(events.ReserveDistributedEvent)
		return ok && ev.Distributed == 500 && ev.OwnerShare == 250 && ev.ProviderShare == 250
	})).Return()

	distributed, err := svc.DistributePayoutReserve(ctx, testOperatorID, "sol")
	require.NoError(t, err)
	assert.Equal(t, int64(500), distributed)

	d.assertExpectations(t)
}

func TestVaultService_DistributePayoutReserve_EmptyReserve(t *testing.T) {
	ctx := context.Background()
	d := newMockDeps()
	svc := NewVaultService(d.factory)

	vault := &models.Vault{ID: 1, Asset: "sol", PayoutReserve: 1, RewardIndex: big.NewInt(0)}

	d.uow.On("Begin", ctx).Return(nil)
	d.uow.On("Rollback").Return(nil)
	d.vaultRepo.On("GetByAssetForUpdate", ctx, "sol").Return(vault, nil)

	_, err := svc.DistributePayoutReserve(ctx, testOperatorID, "sol")
	assert.ErrorIs(t, err, ErrNoRewardsAvailable)

	d.assertExpectations(t)
}

func TestVaultService_CreateVault(t *testing.T) {
	ctx := context.Background()
	d := newMockDeps()
	svc := NewVaultService(d.factory)

	created := &models.Vault{ID: 1, Asset: "sol", RewardIndex: big.NewInt(0)}

	d.uow.On("Begin", ctx).Return(nil)
	d.uow.On("Commit").Return(nil)
	d.uow.On("Rollback").Return(nil)

	d.vaultRepo.On("GetByAsset", ctx, "sol").Return(nil, nil)
	d.vaultRepo.On("Create", ctx, "sol").Return(created, nil)

	vault, err := svc.CreateVault(ctx, testOperatorID, "sol")
	require.NoError(t, err)
	assert.Equal(t, "sol", vault.Asset)

	d.assertExpectations(t)
}

func TestVaultService_CreateVault_Unauthorized(t *testing.T) {
	d := newMockDeps()
	svc := NewVaultService(d.factory)

	_, err := svc.CreateVault(context.Background(), 1, "sol")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
