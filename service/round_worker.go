package service

import (
	"context"
	"errors"
	"time"

	"roulette/config"

	log "github.com/sirupsen/logrus"
)

// RoundWorker drives the round state machine on a timer: it closes bets once
// the round has been open long enough, resolves closed rounds after the
// closing delay, and opens the next round after the cooldown. Each tick
// attempts the single transition the current state allows; timing errors just
// mean the transition is not due yet.
type RoundWorker struct {
	rounds RoundService
}

// NewRoundWorker creates a new round worker
func NewRoundWorker(rounds RoundService) *RoundWorker {
	return &RoundWorker{
		rounds: rounds,
	}
}

// Start begins the round worker and returns a cleanup function
func (w *RoundWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})
	interval := config.Get().RoundWorkerInterval

	go func() {
		log.Infof("Round worker started, ticking every %v", interval)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Round worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Round worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				w.tick(ctx)
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// tick attempts every round transition; at most one can succeed per tick
func (w *RoundWorker) tick(ctx context.Context) {
	if session, err := w.rounds.CloseBets(ctx); err == nil {
		log.WithField("round", session.CurrentRound).Info("Betting closed")
		return
	} else if !transitionNotDue(err) {
		log.Errorf("Error closing bets: %v", err)
	}

	if session, err := w.rounds.ResolveRound(ctx); err == nil {
		log.WithFields(log.Fields{
			"round":          session.CurrentRound,
			"winning_number": *session.WinningNumber,
		}).Info("Round resolved")
		return
	} else if !transitionNotDue(err) {
		log.Errorf("Error resolving round: %v", err)
	}

	if session, err := w.rounds.StartNewRound(ctx); err == nil {
		log.WithField("round", session.CurrentRound).Info("New round started")
		return
	} else if !transitionNotDue(err) {
		log.Errorf("Error starting new round: %v", err)
	}
}

// transitionNotDue reports whether the error means the state machine is
// simply not ready for the transition, which is the normal case for most ticks.
func transitionNotDue(err error) bool {
	return errors.Is(err, ErrInvalidRoundState) ||
		errors.Is(err, ErrRoundTooYoung) ||
		errors.Is(err, ErrNoBetsInRound) ||
		errors.Is(err, ErrResolveTooSoon) ||
		errors.Is(err, ErrNewRoundTooSoon)
}
