package service

import (
	"context"
	"fmt"

	"roulette/events"
	"roulette/game"
	"roulette/models"

	log "github.com/sirupsen/logrus"
)

type claimService struct {
	uowFactory UnitOfWorkFactory
}

// NewClaimService creates a new claim service
func NewClaimService(uowFactory UnitOfWorkFactory) ClaimService {
	return &claimService{
		uowFactory: uowFactory,
	}
}

// ClaimWinnings settles a player's winnings for the last completed round.
// Round N stays claimable after round N+1 opens; the window closes when
// round N+1 resolves and overwrites the outcome.
func (s *claimService) ClaimWinnings(ctx context.Context, playerID int64, asset string) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	vault, err := uow.VaultRepository().GetByAssetForUpdate(ctx, asset)
	if err != nil {
		return 0, fmt.Errorf("failed to get vault: %w", err)
	}
	if vault == nil {
		return 0, fmt.Errorf("vault for asset %s not found", asset)
	}

	session, err := uow.GameSessionRepository().Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get game session: %w", err)
	}
	if session == nil {
		return 0, fmt.Errorf("game session not initialized")
	}
	if session.WinningNumber == nil {
		return 0, ErrRoundNotClaimable
	}

	round := session.LastCompletedRound
	winning := uint8(*session.WinningNumber)

	slip, err := uow.PlayerBetsRepository().Get(ctx, playerID, vault.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to get player bets: %w", err)
	}
	if slip == nil || slip.Round != round || len(slip.Bets) == 0 {
		return 0, ErrNoWinningsFound
	}
	if slip.ClaimedRound >= round {
		return 0, ErrAlreadyClaimed
	}

	record, err := uow.ClaimRecordRepository().Get(ctx, playerID, vault.ID, round)
	if err != nil {
		return 0, fmt.Errorf("failed to get claim record: %w", err)
	}
	if record != nil {
		return 0, ErrAlreadyClaimed
	}

	var total int64
	for _, bet := range slip.Bets {
		if !game.IsWinner(bet, winning) {
			continue
		}
		payout, err := models.CheckedMul(bet.Amount, game.PayoutMultiplier(bet.Kind))
		if err != nil {
			return 0, err
		}
		total, err = models.CheckedAdd(total, payout)
		if err != nil {
			return 0, err
		}
	}

	if total == 0 {
		// Nothing won, nothing mutated
		return 0, ErrNoWinningsFound
	}

	if total > vault.PayoutReserve {
		return 0, ErrInsolventPayout
	}

	vault.PayoutReserve -= total
	vault.TotalLiquidity, err = models.CheckedSub(vault.TotalLiquidity, total)
	if err != nil {
		return 0, err
	}

	account, err := uow.AccountRepository().GetByID(ctx, playerID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return 0, fmt.Errorf("account %d not found", playerID)
	}

	if err := uow.AccountRepository().AddBalance(ctx, playerID, total); err != nil {
		return 0, fmt.Errorf("failed to pay winnings: %w", err)
	}

	slip.ClaimedRound = round
	if err := uow.PlayerBetsRepository().Save(ctx, slip); err != nil {
		return 0, fmt.Errorf("failed to save player bets: %w", err)
	}

	if err := uow.ClaimRecordRepository().Create(ctx, &models.ClaimRecord{
		PlayerID: playerID,
		VaultID:  vault.ID,
		Round:    round,
		Amount:   total,
		Claimed:  true,
	}); err != nil {
		return 0, fmt.Errorf("failed to create claim record: %w", err)
	}

	if err := uow.VaultRepository().Update(ctx, vault); err != nil {
		return 0, fmt.Errorf("failed to update vault: %w", err)
	}

	entry := &models.LedgerEntry{
		AccountID:     playerID,
		VaultID:       &vault.ID,
		BalanceBefore: account.Balance,
		BalanceAfter:  account.Balance + total,
		ChangeAmount:  total,
		EntryType:     models.EntryTypePayout,
		Metadata: map[string]any{
			"asset":          asset,
			"round":          round,
			"winning_number": winning,
		},
	}
	if err := RecordBalanceChange(ctx, uow, entry); err != nil {
		return 0, err
	}

	uow.EventBus().Publish(events.WinningsClaimedEvent{
		PlayerID: playerID,
		VaultID:  vault.ID,
		Round:    round,
		Amount:   total,
	})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Infof("Player %d claimed %d for round %d", playerID, total, round)
	return total, nil
}
