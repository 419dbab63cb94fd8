package models

import "time"

// RoundStatus represents the phase of the current roulette round.
type RoundStatus string

const (
	RoundStatusAcceptingBets RoundStatus = "accepting_bets"
	RoundStatusBetsClosed    RoundStatus = "bets_closed"
	RoundStatusCompleted     RoundStatus = "completed"
)

// GameSession is the single global round state machine. One row exists for
// the lifetime of the deployment; round-lifecycle operations mutate it.
type GameSession struct {
	CurrentRound       int64       `db:"current_round"`
	RoundStatus        RoundStatus `db:"round_status"`
	RoundStartTime     time.Time   `db:"round_start_time"`
	BetsClosedAt       *time.Time  `db:"bets_closed_at"`
	ResolvedAt         *time.Time  `db:"resolved_at"`
	WinningNumber      *int16      `db:"winning_number"`
	LastBettor         *int64      `db:"last_bettor"`
	LastCompletedRound int64       `db:"last_completed_round"`
	UpdatedAt          time.Time   `db:"updated_at"`
}
