package service

import (
	"context"
	"fmt"
	"time"

	"roulette/config"
	"roulette/events"
	"roulette/game"
	"roulette/models"

	log "github.com/sirupsen/logrus"
)

type roundService struct {
	uowFactory UnitOfWorkFactory
	slots      game.SlotSource
	now        func() time.Time
}

// NewRoundService creates a new round service
func NewRoundService(uowFactory UnitOfWorkFactory, slots game.SlotSource) RoundService {
	return &roundService{
		uowFactory: uowFactory,
		slots:      slots,
		now:        time.Now,
	}
}

// InitializeSession creates the session at round 1 accepting bets
func (s *roundService) InitializeSession(ctx context.Context) (*models.GameSession, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	existing, err := uow.GameSessionRepository().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check game session: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyInitialized
	}

	session, err := uow.GameSessionRepository().Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create game session: %w", err)
	}

	uow.EventBus().Publish(events.RoundStartedEvent{
		Round:     session.CurrentRound,
		StartedAt: session.RoundStartTime,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return session, nil
}

// CloseBets transitions the current round from accepting bets to closed. The
// round must have been open for the minimum duration and have at least one
// bet, otherwise there is nothing to resolve.
func (s *roundService) CloseBets(ctx context.Context) (*models.GameSession, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

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

	now := s.now()
	if now.Sub(session.RoundStartTime) < config.Get().MinRoundDuration {
		return nil, ErrRoundTooYoung
	}
	if session.LastBettor == nil {
		return nil, ErrNoBetsInRound
	}

	session.RoundStatus = models.RoundStatusBetsClosed
	session.BetsClosedAt = &now

	if err := uow.GameSessionRepository().Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update game session: %w", err)
	}

	uow.EventBus().Publish(events.BetsClosedEvent{
		Round:    session.CurrentRound,
		ClosedAt: now,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return session, nil
}

// ResolveRound derives the winning number and completes the round
func (s *roundService) ResolveRound(ctx context.Context) (*models.GameSession, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	session, err := uow.GameSessionRepository().GetForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get game session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("game session not initialized")
	}
	if session.RoundStatus != models.RoundStatusBetsClosed {
		return nil, ErrInvalidRoundState
	}

	now := s.now()
	if session.BetsClosedAt == nil || now.Sub(*session.BetsClosedAt) < config.Get().MinBetsClosedDuration {
		return nil, ErrResolveTooSoon
	}
	if session.LastBettor == nil {
		return nil, ErrNoBetsInRound
	}

	slot := s.slots.CurrentSlot()
	winning := game.WinningNumber(*session.LastBettor, now, slot)
	winningNumber := int16(winning)
	log.Infof("Round %d resolved with winning number %d (slot %d)", session.CurrentRound, winning, slot)

	session.RoundStatus = models.RoundStatusCompleted
	session.ResolvedAt = &now
	session.WinningNumber = &winningNumber
	session.LastCompletedRound = session.CurrentRound

	if err := uow.GameSessionRepository().Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update game session: %w", err)
	}

	uow.EventBus().Publish(events.RoundResolvedEvent{
		Round:         session.CurrentRound,
		WinningNumber: winning,
		Slot:          slot,
		LastBettor:    *session.LastBettor,
		ResolvedAt:    now,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return session, nil
}

// StartNewRound opens the next round after a completed one. The previous
// outcome is kept on the session so the completed round stays claimable; it
// is overwritten when the new round resolves.
func (s *roundService) StartNewRound(ctx context.Context) (*models.GameSession, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	session, err := uow.GameSessionRepository().GetForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get game session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("game session not initialized")
	}
	if session.RoundStatus != models.RoundStatusCompleted {
		return nil, ErrInvalidRoundState
	}

	now := s.now()
	if session.ResolvedAt == nil || now.Sub(*session.ResolvedAt) < config.Get().MinNewRoundDelay {
		return nil, ErrNewRoundTooSoon
	}

	session.CurrentRound++
	session.RoundStatus = models.RoundStatusAcceptingBets
	session.RoundStartTime = now
	session.BetsClosedAt = nil
	session.ResolvedAt = nil
	session.LastBettor = nil

	if err := uow.GameSessionRepository().Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update game session: %w", err)
	}

	uow.EventBus().Publish(events.RoundStartedEvent{
		Round:     session.CurrentRound,
		StartedAt: now,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return session, nil
}
