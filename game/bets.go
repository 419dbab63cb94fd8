// Package game holds the pure rules of the roulette table: bet validation,
// the payout table and the outcome oracle. Nothing here touches storage.
package game

import (
	"errors"
	"fmt"

	"roulette/models"
)

// ErrInvalidBet is the sentinel for all bet validation failures; Validate
// wraps it with the specific violation.
var ErrInvalidBet = errors.New("invalid bet")

var redNumbers = map[int16]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// PayoutMultiplier returns the multiplier applied to a winning bet's amount.
// Zero for unknown categories.
func PayoutMultiplier(kind models.BetKind) int64 {
	switch kind {
	case models.BetStraight:
		return 36
	case models.BetSplit:
		return 18
	case models.BetCorner, models.BetFirstFour:
		return 9
	case models.BetStreet:
		return 12
	case models.BetSixLine:
		return 6
	case models.BetRed, models.BetBlack, models.BetEven, models.BetOdd, models.BetLow, models.BetHigh:
		return 2
	case models.BetColumn, models.BetDozenFirst, models.BetDozenSecond, models.BetDozenThird:
		return 3
	default:
		return 0
	}
}

// Validate checks that a bet is well formed for its category: positive
// amount, known category, and number selections that denote a real position
// on the table. Returns a descriptive error for the first violation.
func Validate(b models.Bet) error {
	if b.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidBet, b.Amount)
	}
	switch b.Kind {
	case models.BetStraight:
		if len(b.Numbers) != 1 || !onTable(b.Numbers[0]) {
			return fmt.Errorf("%w: straight bet requires one number in 0-36", ErrInvalidBet)
		}
	case models.BetSplit:
		if len(b.Numbers) != 2 || !onTable(b.Numbers[0]) || !onTable(b.Numbers[1]) || b.Numbers[0] == b.Numbers[1] {
			return fmt.Errorf("%w: split bet requires two distinct numbers in 0-36", ErrInvalidBet)
		}
	case models.BetCorner:
		if len(b.Numbers) != 1 || !validCornerAnchor(b.Numbers[0]) {
			return fmt.Errorf("%w: corner bet anchor must be a left or middle column number in 1-34", ErrInvalidBet)
		}
	case models.BetStreet:
		if len(b.Numbers) != 1 || !validRowStart(b.Numbers[0], 34) {
			return fmt.Errorf("%w: street bet anchor must start a row (1, 4, ..., 34)", ErrInvalidBet)
		}
	case models.BetSixLine:
		if len(b.Numbers) != 1 || !validRowStart(b.Numbers[0], 31) {
			return fmt.Errorf("%w: six-line bet anchor must start a row in 1-31", ErrInvalidBet)
		}
	case models.BetColumn:
		if len(b.Numbers) != 1 || b.Numbers[0] < 1 || b.Numbers[0] > 3 {
			return fmt.Errorf("%w: column bet requires a column index in 1-3", ErrInvalidBet)
		}
	case models.BetFirstFour, models.BetRed, models.BetBlack, models.BetEven, models.BetOdd,
		models.BetLow, models.BetHigh, models.BetDozenFirst, models.BetDozenSecond, models.BetDozenThird:
		if len(b.Numbers) != 0 {
			return fmt.Errorf("%w: %s bet takes no number selection", ErrInvalidBet, b.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown bet kind %q", ErrInvalidBet, b.Kind)
	}
	return nil
}

// IsWinner reports whether a bet wins against the resolved outcome. Assumes
// the bet passed Validate; malformed selections simply never win.
func IsWinner(b models.Bet, winning uint8) bool {
	w := int16(winning)
	switch b.Kind {
	case models.BetStraight:
		return len(b.Numbers) == 1 && b.Numbers[0] == w
	case models.BetSplit:
		return len(b.Numbers) == 2 && (b.Numbers[0] == w || b.Numbers[1] == w)
	case models.BetCorner:
		if len(b.Numbers) != 1 || !validCornerAnchor(b.Numbers[0]) {
			return false
		}
		anchor := b.Numbers[0]
		return w == anchor || w == anchor+1 || w == anchor+3 || w == anchor+4
	case models.BetStreet:
		if len(b.Numbers) != 1 || !validRowStart(b.Numbers[0], 34) {
			return false
		}
		return w >= b.Numbers[0] && w < b.Numbers[0]+3
	case models.BetSixLine:
		if len(b.Numbers) != 1 || !validRowStart(b.Numbers[0], 31) {
			return false
		}
		return w >= b.Numbers[0] && w < b.Numbers[0]+6
	case models.BetFirstFour:
		return w <= 3
	case models.BetRed:
		return redNumbers[w]
	case models.BetBlack:
		return w != 0 && w <= 36 && !redNumbers[w]
	case models.BetEven:
		return w != 0 && w%2 == 0
	case models.BetOdd:
		return w%2 == 1
	case models.BetLow:
		return w >= 1 && w <= 18
	case models.BetHigh:
		return w >= 19 && w <= 36
	case models.BetColumn:
		if len(b.Numbers) != 1 || b.Numbers[0] < 1 || b.Numbers[0] > 3 {
			return false
		}
		return w != 0 && w%3 == b.Numbers[0]%3
	case models.BetDozenFirst:
		return w >= 1 && w <= 12
	case models.BetDozenSecond:
		return w >= 13 && w <= 24
	case models.BetDozenThird:
		return w >= 25 && w <= 36
	default:
		return false
	}
}

func onTable(n int16) bool {
	return n >= 0 && n <= 36
}

// validCornerAnchor: the top-left number of a 2x2 square. Right-column
// numbers (multiples of 3) and zero have no square to their lower right.
func validCornerAnchor(n int16) bool {
	return n >= 1 && n <= 34 && n%3 != 0
}

// validRowStart: first number of a table row (1, 4, 7, ...), bounded so the
// covered span stays on the table.
func validRowStart(n, max int16) bool {
	return n >= 1 && n <= max && (n-1)%3 == 0
}
