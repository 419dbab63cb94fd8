package models

import (
	"math/big"
	"time"
)

// ProviderPosition tracks one provider's capital in one vault, together with
// the reward-index snapshot from which pending rewards are computed. It is
// mutated only through vault ledger operations, never by game logic.
type ProviderPosition struct {
	VaultID          int64     `db:"vault_id"`
	ProviderID       int64     `db:"provider_id"`
	Amount           int64     `db:"amount"`
	UnclaimedRewards int64     `db:"unclaimed_rewards"`
	LastRewardIndex  *big.Int  `db:"last_reward_index"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// NewProviderPosition opens a position at the vault's current index, so it
// earns only from commissions accrued after it was created.
func NewProviderPosition(vaultID, providerID int64, index *big.Int) *ProviderPosition {
	return &ProviderPosition{
		VaultID:         vaultID,
		ProviderID:      providerID,
		LastRewardIndex: new(big.Int).Set(index),
	}
}

// PendingReward computes the reward earned since the last settlement without
// mutating the position: (index - snapshot) * capital / RewardScale, floored.
func (p *ProviderPosition) PendingReward(index *big.Int) (int64, error) {
	if p.Amount == 0 || index.Cmp(p.LastRewardIndex) <= 0 {
		return 0, nil
	}
	pending := new(big.Int).Sub(index, p.LastRewardIndex)
	pending.Mul(pending, big.NewInt(p.Amount))
	pending.Quo(pending, RewardScale)
	if !pending.IsInt64() {
		return 0, ErrArithmeticOverflow
	}
	return pending.Int64(), nil
}

// Settle folds the pending reward into the unclaimed balance and advances the
// index snapshot. Idempotent at a fixed index: settling twice without an
// intervening index or capital change credits nothing the second time.
func (p *ProviderPosition) Settle(index *big.Int) error {
	pending, err := p.PendingReward(index)
	if err != nil {
		return err
	}
	unclaimed, err := CheckedAdd(p.UnclaimedRewards, pending)
	if err != nil {
		return err
	}
	p.UnclaimedRewards = unclaimed
	p.LastRewardIndex = new(big.Int).Set(index)
	return nil
}
