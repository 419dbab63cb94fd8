package models

import "time"

// Account is a balance on the external asset-custody ledger. Providers,
// players and the operator treasury all hold accounts; vault deposits and
// payouts move value between an account and the vault's custodied balance.
type Account struct {
	ID        int64     `db:"id"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
