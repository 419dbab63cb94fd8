package models

import "time"

// BetKind identifies a roulette bet category.
type BetKind string

const (
	BetStraight    BetKind = "straight"
	BetSplit       BetKind = "split"
	BetCorner      BetKind = "corner"
	BetStreet      BetKind = "street"
	BetSixLine     BetKind = "six_line"
	BetFirstFour   BetKind = "first_four"
	BetRed         BetKind = "red"
	BetBlack       BetKind = "black"
	BetEven        BetKind = "even"
	BetOdd         BetKind = "odd"
	BetLow         BetKind = "low"  // 1-18
	BetHigh        BetKind = "high" // 19-36
	BetColumn      BetKind = "column"
	BetDozenFirst  BetKind = "dozen_first"  // 1-12
	BetDozenSecond BetKind = "dozen_second" // 13-24
	BetDozenThird  BetKind = "dozen_third"  // 25-36
)

// Bet is a single wager entry: an amount, a category and the numbers the
// category needs (a straight number, a split pair, a corner/street/six-line
// anchor, or a column index). Numbers is int16 rather than a byte type so
// the JSONB column stores a plain array instead of base64.
type Bet struct {
	Amount  int64   `json:"amount"`
	Kind    BetKind `json:"kind"`
	Numbers []int16 `json:"numbers,omitempty"`
}

// PlayerBets holds one player's wager entries for the round they last bet in.
// The record is reused across rounds; entries are superseded when the player
// first bets in a newer round. ClaimedRound marks the newest round already
// settled for this player.
type PlayerBets struct {
	PlayerID     int64     `db:"player_id"`
	Round        int64     `db:"round"`
	VaultID      int64     `db:"vault_id"`
	Bets         []Bet     `db:"bets"`
	ClaimedRound int64     `db:"claimed_round"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// ClaimRecord prevents double payment: at most one exists per
// (player, vault, round), created on the first successful claim.
type ClaimRecord struct {
	PlayerID  int64     `db:"player_id"`
	VaultID   int64     `db:"vault_id"`
	Round     int64     `db:"round"`
	Amount    int64     `db:"amount"`
	Claimed   bool      `db:"claimed"`
	CreatedAt time.Time `db:"created_at"`
}
