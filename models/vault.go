package models

import (
	"math/big"
	"time"
)

// RewardScale is the fixed-point precision of the provider reward index.
// Large enough that a single-unit commission over realistic pool sizes still
// produces a non-zero index increment.
var RewardScale = big.NewInt(1_000_000_000_000)

const (
	// ProviderDivisor is the wager fraction routed to liquidity providers (~1.4%).
	ProviderDivisor = 71
	// OwnerDivisor is the wager fraction routed to the operator (~0.8%).
	OwnerDivisor = 125

	// MaxBetPercent caps a single bet at this percentage of the vault's
	// custodied balance, limiting payout exposure per round.
	MaxBetPercent        = 11
	maxBetPercentDivisor = 100

	// MaxBetsPerRound limits entries per player per round.
	MaxBetsPerRound = 8
)

// Vault is the pooled-capital accounting unit for one asset.
//
// TotalLiquidity is the custodied balance backing everything the vault owes:
// provider capital, settled and unsettled provider rewards, owner revenue and
// the payout reserve. The solvency invariant is TotalLiquidity >= the sum of
// those components at all times.
type Vault struct {
	ID                   int64     `db:"id"`
	Asset                string    `db:"asset"`
	TotalLiquidity       int64     `db:"total_liquidity"`
	TotalProviderCapital int64     `db:"total_provider_capital"`
	OwnerRevenue         int64     `db:"owner_revenue"`
	PayoutReserve        int64     `db:"payout_reserve"`
	RewardIndex          *big.Int  `db:"reward_index"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

// SplitCommission splits a wager amount into the provider commission, owner
// commission and payout-reserve contribution. Floor division on the fixed
// policy divisors; the reserve absorbs the remainder so the three parts always
// sum to amount.
func SplitCommission(amount int64) (provider, owner, reserve int64) {
	provider = amount / ProviderDivisor
	owner = amount / OwnerDivisor
	reserve = amount - provider - owner
	return provider, owner, reserve
}

// Accrue credits a commission amount to the provider pool by advancing the
// global reward index. With no provider capital there is no one to credit, so
// the amount is redirected to the payout reserve instead. Floor rounding means
// the index never over-credits; fractional dust stays custodied.
func (v *Vault) Accrue(amount int64) error {
	if amount <= 0 {
		return nil
	}
	if v.TotalProviderCapital == 0 {
		reserve, err := CheckedAdd(v.PayoutReserve, amount)
		if err != nil {
			return err
		}
		v.PayoutReserve = reserve
		return nil
	}
	increment := new(big.Int).Mul(big.NewInt(amount), RewardScale)
	increment.Quo(increment, big.NewInt(v.TotalProviderCapital))
	v.RewardIndex = new(big.Int).Add(v.RewardIndex, increment)
	return nil
}

// MaxBet returns the largest single bet the vault accepts, MaxBetPercent of
// the custodied balance. Zero when the vault holds (almost) nothing.
func (v *Vault) MaxBet() int64 {
	max := new(big.Int).Mul(big.NewInt(v.TotalLiquidity), big.NewInt(MaxBetPercent))
	max.Quo(max, big.NewInt(maxBetPercentDivisor))
	return max.Int64()
}

// Solvent reports whether the custodied balance covers every obligation:
// provider capital, the given total of settled-equivalent unclaimed rewards,
// owner revenue and the payout reserve.
func (v *Vault) Solvent(totalUnclaimedRewards int64) bool {
	owed := new(big.Int).SetInt64(v.TotalProviderCapital)
	owed.Add(owed, big.NewInt(totalUnclaimedRewards))
	owed.Add(owed, big.NewInt(v.OwnerRevenue))
	owed.Add(owed, big.NewInt(v.PayoutReserve))
	return owed.Cmp(big.NewInt(v.TotalLiquidity)) <= 0
}
