package models

import "time"

// EntryType classifies a custody movement in the audit journal.
type EntryType string

const (
	EntryTypeInitial          EntryType = "initial"
	EntryTypeDeposit          EntryType = "deposit"
	EntryTypeWithdrawal       EntryType = "withdrawal"
	EntryTypeRewardWithdrawal EntryType = "reward_withdrawal"
	EntryTypeOwnerWithdrawal  EntryType = "owner_withdrawal"
	EntryTypeBet              EntryType = "bet"
	EntryTypePayout           EntryType = "payout"
)

// LedgerEntry is one historical custody movement on an account: every bet,
// deposit, withdrawal and payout leaves exactly one entry.
type LedgerEntry struct {
	ID            int64          `db:"id"`
	AccountID     int64          `db:"account_id"`
	VaultID       *int64         `db:"vault_id"`
	BalanceBefore int64          `db:"balance_before"`
	BalanceAfter  int64          `db:"balance_after"`
	ChangeAmount  int64          `db:"change_amount"`
	EntryType     EntryType      `db:"entry_type"`
	Metadata      map[string]any `db:"metadata"`
	CreatedAt     time.Time      `db:"created_at"`
}
