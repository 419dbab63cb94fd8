package service

import (
	"context"
	"fmt"

	"roulette/events"
	"roulette/game"
	"roulette/models"

	log "github.com/sirupsen/logrus"
)

type bettingService struct {
	uowFactory UnitOfWorkFactory
}

// NewBettingService creates a new betting service
func NewBettingService(uowFactory UnitOfWorkFactory) BettingService {
	return &bettingService{
		uowFactory: uowFactory,
	}
}

// PlaceBet adds a wager entry to the player's slip for the current round. The
// wager is custodied by the vault immediately; the commission split happens at
// placement, not at resolution.
func (s *bettingService) PlaceBet(ctx context.Context, playerID int64, asset string, bet models.Bet) (*models.PlayerBets, error) {
	if err := game.Validate(bet); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	vault, err := uow.VaultRepository().GetByAssetForUpdate(ctx, asset)
	if err != nil {
		return nil, fmt.Errorf("failed to get vault: %w", err)
	}
	if vault == nil {
		return nil, fmt.Errorf("vault for asset %s not found", asset)
	}

	session, err := uow.GameSessionRepository().GetForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get game session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("game session not initialized")
	}
	if session.RoundStatus != models.RoundStatusAcceptingBets {
		return nil, ErrInvalidRoundState
	}

	if bet.Amount > vault.MaxBet() {
		return nil, ErrBetLimitExceeded
	}

	account, err := uow.AccountRepository().GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("account %d not found", playerID)
	}

	slip, err := uow.PlayerBetsRepository().Get(ctx, playerID, vault.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player bets: %w", err)
	}
	if slip == nil {
		slip = &models.PlayerBets{
			PlayerID: playerID,
			VaultID:  vault.ID,
			Round:    session.CurrentRound,
		}
	} else if slip.Round != session.CurrentRound {
		// Entries from an earlier round are superseded, claimed or not
		slip.Round = session.CurrentRound
		slip.Bets = nil
	}

	if len(slip.Bets) >= models.MaxBetsPerRound {
		return nil, ErrTooManyBets
	}

	if err := uow.AccountRepository().DeductBalance(ctx, playerID, bet.Amount); err != nil {
		return nil, fmt.Errorf("failed to deduct bet amount: %w", err)
	}

	vault.TotalLiquidity, err = models.CheckedAdd(vault.TotalLiquidity, bet.Amount)
	if err != nil {
		return nil, err
	}

	providerShare, ownerShare, reserveShare := models.SplitCommission(bet.Amount)
	if err := vault.Accrue(providerShare); err != nil {
		return nil, err
	}
	vault.OwnerRevenue, err = models.CheckedAdd(vault.OwnerRevenue, ownerShare)
	if err != nil {
		return nil, err
	}
	vault.PayoutReserve, err = models.CheckedAdd(vault.PayoutReserve, reserveShare)
	if err != nil {
		return nil, err
	}

	slip.Bets = append(slip.Bets, bet)
	if err := uow.PlayerBetsRepository().Save(ctx, slip); err != nil {
		return nil, fmt.Errorf("failed to save player bets: %w", err)
	}

	if err := uow.VaultRepository().Update(ctx, vault); err != nil {
		return nil, fmt.Errorf("failed to update vault: %w", err)
	}

	session.LastBettor = &playerID
	if err := uow.GameSessionRepository().Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update game session: %w", err)
	}

	entry := &models.LedgerEntry{
		AccountID:     playerID,
		VaultID:       &vault.ID,
		BalanceBefore: account.Balance,
		BalanceAfter:  account.Balance - bet.Amount,
		ChangeAmount:  -bet.Amount,
		EntryType:     models.EntryTypeBet,
		Metadata: map[string]any{
			"asset": asset,
			"round": session.CurrentRound,
			"kind":  string(bet.Kind),
		},
	}
	if err := RecordBalanceChange(ctx, uow, entry); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.BetPlacedEvent{
		PlayerID: playerID,
		VaultID:  vault.ID,
		Round:    session.CurrentRound,
		Amount:   bet.Amount,
		Kind:     bet.Kind,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Debugf("Player %d placed %s bet of %d in round %d", playerID, bet.Kind, bet.Amount, session.CurrentRound)
	return slip, nil
}
