package service

import "errors"

// Domain errors returned by the vault, betting, round and claim services.
// Callers match these with errors.Is.
var (
	// ErrUnauthorized is returned when a non-operator runs an operator-only operation.
	ErrUnauthorized = errors.New("caller is not the game operator")

	// ErrAlreadyInitialized is returned when the session already exists.
	ErrAlreadyInitialized = errors.New("game session already initialized")

	// ErrInvalidRoundState is returned when an operation does not match the
	// current round phase.
	ErrInvalidRoundState = errors.New("operation not valid in current round state")

	// ErrRoundTooYoung is returned when closing bets before the minimum round duration.
	ErrRoundTooYoung = errors.New("round has not been open long enough to close")

	// ErrNoBetsInRound is returned when closing a round nobody bet in.
	ErrNoBetsInRound = errors.New("round has no bets to resolve")

	// ErrResolveTooSoon is returned when resolving before the minimum closed duration.
	ErrResolveTooSoon = errors.New("bets have not been closed long enough to resolve")

	// ErrNewRoundTooSoon is returned when starting a round before the minimum delay.
	ErrNewRoundTooSoon = errors.New("previous round resolved too recently")

	// ErrTooManyBets is returned when a slip already holds the maximum entries.
	ErrTooManyBets = errors.New("bet entry limit reached for this round")

	// ErrBetLimitExceeded is returned when a single bet exceeds the vault exposure cap.
	ErrBetLimitExceeded = errors.New("bet amount exceeds vault exposure limit")

	// ErrRoundNotClaimable is returned when claiming a round that is not the
	// last completed one.
	ErrRoundNotClaimable = errors.New("round is not open for claims")

	// ErrAlreadyClaimed is returned when winnings for the round were already paid.
	ErrAlreadyClaimed = errors.New("winnings already claimed for this round")

	// ErrNoWinningsFound is returned when the player has nothing to claim.
	ErrNoWinningsFound = errors.New("no winnings found for this round")

	// ErrInsolventPayout is returned when a claim exceeds the payout reserve.
	ErrInsolventPayout = errors.New("payout reserve cannot cover winnings")

	// ErrNoRewardsAvailable is returned when a provider withdraws with nothing accrued.
	ErrNoRewardsAvailable = errors.New("no rewards available to withdraw")

	// ErrInsufficientCapital is returned when a provider has no position to withdraw.
	ErrInsufficientCapital = errors.New("no provider capital in vault")
)
