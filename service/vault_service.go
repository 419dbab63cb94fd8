package service

import (
	"context"
	"fmt"

	"roulette/config"
	"roulette/events"
	"roulette/models"

	log "github.com/sirupsen/logrus"
)

type vaultService struct {
	uowFactory UnitOfWorkFactory
}

// NewVaultService creates a new vault service
func NewVaultService(uowFactory UnitOfWorkFactory) VaultService {
	return &vaultService{
		uowFactory: uowFactory,
	}
}

// CreateVault creates the pooled vault for an asset
func (s *vaultService) CreateVault(ctx context.Context, operatorID int64, asset string) (*models.Vault, error) {
	if operatorID != config.Get().GameAdminID {
		return nil, ErrUnauthorized
	}
	if asset == "" {
		return nil, fmt.Errorf("asset must not be empty")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	existing, err := uow.VaultRepository().GetByAsset(ctx, asset)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing vault: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("vault for asset %s already exists", asset)
	}

	vault, err := uow.VaultRepository().Create(ctx, asset)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Infof("Created vault %d for asset %s", vault.ID, asset)
	return vault, nil
}

// Deposit adds provider capital to the vault. An existing position is settled
// at the current reward index first so the new capital earns nothing
// retroactively.
func (s *vaultService) Deposit(ctx context.Context, providerID int64, asset string, amount int64) (*models.ProviderPosition, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("deposit amount must be positive")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	vault, err := uow.VaultRepository().GetByAssetForUpdate(ctx, asset)
	if err != nil {
		return nil, fmt.Errorf("failed to get vault: %w", err)
	}
	if vault == nil {
		return nil, fmt.Errorf("vault for asset %s not found", asset)
	}

	account, err := uow.AccountRepository().GetByID(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("account %d not found", providerID)
	}

	position, err := uow.ProviderPositionRepository().Get(ctx, vault.ID, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}

	created := position == nil
	if created {
		position = models.NewProviderPosition(vault.ID, providerID, vault.RewardIndex)
	} else {
		if err := position.Settle(vault.RewardIndex); err != nil {
			return nil, fmt.Errorf("failed to settle position: %w", err)
		}
	}

	if err := uow.AccountRepository().DeductBalance(ctx, providerID, amount); err != nil {
		return nil, fmt.Errorf("failed to deduct deposit: %w", err)
	}

	position.Amount, err = models.CheckedAdd(position.Amount, amount)
	if err != nil {
		return nil, err
	}
	vault.TotalLiquidity, err = models.CheckedAdd(vault.TotalLiquidity, amount)
	if err != nil {
		return nil, err
	}
	vault.TotalProviderCapital, err = models.CheckedAdd(vault.TotalProviderCapital, amount)
	if err != nil {
		return nil, err
	}

	if created {
		err = uow.ProviderPositionRepository().Create(ctx, position)
	} else {
		err = uow.ProviderPositionRepository().Update(ctx, position)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save position: %w", err)
	}

	if err := uow.VaultRepository().Update(ctx, vault); err != nil {
		return nil, fmt.Errorf("failed to update vault: %w", err)
	}

	entry := &models.LedgerEntry{
		AccountID:     providerID,
		VaultID:       &vault.ID,
		BalanceBefore: account.Balance,
		BalanceAfter:  account.Balance - amount,
		ChangeAmount:  -amount,
		EntryType:     models.EntryTypeDeposit,
		Metadata: map[string]any{
			"asset": asset,
		},
	}
	if err := RecordBalanceChange(ctx, uow, entry); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.LiquidityProvidedEvent{
		ProviderID: providerID,
		VaultID:    vault.ID,
		Asset:      asset,
		Amount:     amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return position, nil
}

// UnclaimedRewards reports a provider's settled plus pending rewards. Nothing
// is mutated; the transaction exists only for a consistent read.
func (s *vaultService) UnclaimedRewards(ctx context.Context, providerID int64, asset string) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	vault, err := uow.VaultRepository().GetByAsset(ctx, asset)
	if err != nil {
		return 0, fmt.Errorf("failed to get vault: %w", err)
	}
	if vault == nil {
		return 0, fmt.Errorf("vault for asset %s not found", asset)
	}

	position, err := uow.ProviderPositionRepository().Get(ctx, vault.ID, providerID)
	if err != nil {
		return 0, fmt.Errorf("failed to get position: %w", err)
	}
	if position == nil {
		return 0, nil
	}

	pending, err := position.PendingReward(vault.RewardIndex)
	if err != nil {
		return 0, err
	}
	return models.CheckedAdd(position.UnclaimedRewards, pending)
}

// WithdrawRevenue pays out a provider's accrued rewards, leaving capital in place
func (s *vaultService) WithdrawRevenue(ctx context.Context, providerID int64, asset string) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	vault, err := uow.VaultRepository().GetByAssetForUpdate(ctx, asset)
	if err != nil {
		return 0, fmt.Errorf("failed to get vault: %w", err)
	}
	if vault == nil {
		return 0, fmt.Errorf("vault for asset %s not found", asset)
	}

	position, err := uow.ProviderPositionRepository().Get(ctx, vault.ID, providerID)
	if err != nil {
		return 0, fmt.Errorf("failed to get position: %w", err)
	}
	if position == nil {
		return 0, ErrInsufficientCapital
	}

	if err := position.Settle(vault.RewardIndex); err != nil {
		return 0, fmt.Errorf("failed to settle position: %w", err)
	}

	amount := position.UnclaimedRewards
	if amount == 0 {
		return 0, ErrNoRewardsAvailable
	}

	position.UnclaimedRewards = 0
	vault.TotalLiquidity, err = models.CheckedSub(vault.TotalLiquidity, amount)
	if err != nil {
		return 0, err
	}

	account, err := uow.AccountRepository().GetByID(ctx, providerID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return 0, fmt.Errorf("account %d not found", providerID)
	}

	if err := uow.AccountRepository().AddBalance(ctx, providerID, amount); err != nil {
		return 0, fmt.Errorf("failed to pay rewards: %w", err)
	}
	if err := uow.ProviderPositionRepository().Update(ctx, position); err != nil {
		return 0, fmt.Errorf("failed to save position: %w", err)
	}
	if err := uow.VaultRepository().Update(ctx, vault); err != nil {
		return 0, fmt.Errorf("failed to update vault: %w", err)
	}

	entry := &models.LedgerEntry{
		AccountID:     providerID,
		VaultID:       &vault.ID,
		BalanceBefore: account.Balance,
		BalanceAfter:  account.Balance + amount,
		ChangeAmount:  amount,
		EntryType:     models.EntryTypeRewardWithdrawal,
		Metadata: map[string]any{
			"asset": asset,
		},
	}
	if err := RecordBalanceChange(ctx, uow, entry); err != nil {
		return 0, err
	}

	uow.EventBus().Publish(events.ProviderRevenueWithdrawnEvent{
		ProviderID: providerID,
		VaultID:    vault.ID,
		Asset:      asset,
		Amount:     amount,
	})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return amount, nil
}

// WithdrawAll closes a provider's position, paying capital plus rewards
func (s *vaultService) WithdrawAll(ctx context.Context, providerID int64, asset string) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	vault, err := uow.VaultRepository().GetByAssetForUpdate(ctx, asset)
	if err != nil {
		return 0, fmt.Errorf("failed to get vault: %w", err)
	}
	if vault == nil {
		return 0, fmt.Errorf("vault for asset %s not found", asset)
	}

	position, err := uow.ProviderPositionRepository().Get(ctx, vault.ID, providerID)
	if err != nil {
		return 0, fmt.Errorf("failed to get position: %w", err)
	}
	if position == nil {
		return 0, ErrInsufficientCapital
	}

	if err := position.Settle(vault.RewardIndex); err != nil {
		return 0, fmt.Errorf("failed to settle position: %w", err)
	}

	total, err := models.CheckedAdd(position.Amount, position.UnclaimedRewards)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, ErrInsufficientCapital
	}

	vault.TotalLiquidity, err = models.CheckedSub(vault.TotalLiquidity, total)
	if err != nil {
		return 0, err
	}
	vault.TotalProviderCapital, err = models.CheckedSub(vault.TotalProviderCapital, position.Amount)
	if err != nil {
		return 0, err
	}

	account, err := uow.AccountRepository().GetByID(ctx, providerID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return 0, fmt.Errorf("account %d not found", providerID)
	}

	if err := uow.AccountRepository().AddBalance(ctx, providerID, total); err != nil {
		return 0, fmt.Errorf("failed to pay withdrawal: %w", err)
	}
	if err := uow.ProviderPositionRepository().Delete(ctx, vault.ID, providerID); err != nil {
		return 0, fmt.Errorf("failed to close position: %w", err)
	}
	if err := uow.VaultRepository().Update(ctx, vault); err != nil {
		return 0, fmt.Errorf("failed to update vault: %w", err)
	}

	entry := &models.LedgerEntry{
		AccountID:     providerID,
		VaultID:       &vault.ID,
		BalanceBefore: account.Balance,
		BalanceAfter:  account.Balance + total,
		ChangeAmount:  total,
		EntryType:     models.EntryTypeWithdrawal,
		Metadata: map[string]any{
			"asset":   asset,
			"capital": position.Amount,
			"rewards": position.UnclaimedRewards,
		},
	}
	if err := RecordBalanceChange(ctx, uow, entry); err != nil {
		return 0, err
	}

	uow.EventBus().Publish(events.LiquidityWithdrawnEvent{
		ProviderID: providerID,
		VaultID:    vault.ID,
		Asset:      asset,
		Capital:    position.Amount,
		Rewards:    position.UnclaimedRewards,
	})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Infof("Provider %d closed position in vault %d, withdrew %d", providerID, vault.ID, total)
	return total, nil
}

// WithdrawOwnerRevenue pays accumulated operator revenue to the operator account
func (s *vaultService) WithdrawOwnerRevenue(ctx context.Context, operatorID int64, asset string) (int64, error) {
	if operatorID != config.Get().GameAdminID {
		return 0, ErrUnauthorized
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	vault, err := uow.VaultRepository().GetByAssetForUpdate(ctx, asset)
	if err != nil {
		return 0, fmt.Errorf("failed to get vault: %w", err)
	}
	if vault == nil {
		return 0, fmt.Errorf("vault for asset %s not found", asset)
	}

	amount := vault.OwnerRevenue
	if amount == 0 {
		return 0, ErrNoRewardsAvailable
	}

	vault.OwnerRevenue = 0
	vault.TotalLiquidity, err = models.CheckedSub(vault.TotalLiquidity, amount)
	if err != nil {
		return 0, err
	}

	account, err := uow.AccountRepository().GetByID(ctx, operatorID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return 0, fmt.Errorf("account %d not found", operatorID)
	}

	if err := uow.AccountRepository().AddBalance(ctx, operatorID, amount); err != nil {
		return 0, fmt.Errorf("failed to pay owner revenue: %w", err)
	}
	if err := uow.VaultRepository().Update(ctx, vault); err != nil {
		return 0, fmt.Errorf("failed to update vault: %w", err)
	}

	entry := &models.LedgerEntry{
		AccountID:     operatorID,
		VaultID:       &vault.ID,
		BalanceBefore: account.Balance,
		BalanceAfter:  account.Balance + amount,
		ChangeAmount:  amount,
		EntryType:     models.EntryTypeOwnerWithdrawal,
		Metadata: map[string]any{
			"asset": asset,
		},
	}
	if err := RecordBalanceChange(ctx, uow, entry); err != nil {
		return 0, err
	}

	uow.EventBus().Publish(events.OwnerRevenueWithdrawnEvent{
		VaultID: vault.ID,
		Asset:   asset,
		Amount:  amount,
	})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return amount, nil
}

// DistributePayoutReserve releases half the payout reserve, half of the
// release to the operator and half to the provider pool through the reward
// index. Custodied balances only move between vault buckets here.
func (s *vaultService) DistributePayoutReserve(ctx context.Context, operatorID int64, asset string) (int64, error) {
	if operatorID != config.Get().GameAdminID {
		return 0, ErrUnauthorized
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	vault, err := uow.VaultRepository().GetByAssetForUpdate(ctx, asset)
	if err != nil {
		return 0, fmt.Errorf("failed to get vault: %w", err)
	}
	if vault == nil {
		return 0, fmt.Errorf("vault for asset %s not found", asset)
	}

	distributed := vault.PayoutReserve / 2
	if distributed == 0 {
		return 0, ErrNoRewardsAvailable
	}

	ownerShare := distributed / 2
	providerShare := distributed - ownerShare

	vault.PayoutReserve -= distributed
	vault.OwnerRevenue, err = models.CheckedAdd(vault.OwnerRevenue, ownerShare)
	if err != nil {
		return 0, err
	}
	if err := vault.Accrue(providerShare); err != nil {
		return 0, err
	}

	if err := uow.VaultRepository().Update(ctx, vault); err != nil {
		return 0, fmt.Errorf("failed to update vault: %w", err)
	}

	uow.EventBus().Publish(events.ReserveDistributedEvent{
		VaultID:       vault.ID,
		Asset:         asset,
		Distributed:   distributed,
		OwnerShare:    ownerShare,
		ProviderShare: providerShare,
	})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return distributed, nil
}
