package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"roulette/config"
	"roulette/database"
	"roulette/events"
	"roulette/game"
	"roulette/repository"
	"roulette/service"
)

// App bundles the wired service layer. The host process embedding this
// package calls the services directly; there is no network transport here.
type App struct {
	Vault   service.VaultService
	Betting service.BettingService
	Rounds  service.RoundService
	Claims  service.ClaimService
}

// NewApp wires the service layer over a database connection
func NewApp(db *database.DB, eventBus *events.Bus) *App {
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	slots := game.NewTimeSlotSource()

	return &App{
		Vault:   service.NewVaultService(uowFactory),
		Betting: service.NewBettingService(uowFactory),
		Rounds:  service.NewRoundService(uowFactory, slots),
		Claims:  service.NewClaimService(uowFactory),
	}
}

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting roulette service...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()
	registerEventLogging(eventBus)

	// Initialize services
	log.Info("Initializing services...")
	app := NewApp(db, eventBus)
	log.Info("Services initialized successfully")

	// Make sure the round state machine exists before the worker starts
	if _, err := app.Rounds.InitializeSession(ctx); err != nil {
		if err != service.ErrAlreadyInitialized {
			return fmt.Errorf("failed to initialize game session: %w", err)
		}
		log.Info("Game session already initialized")
	} else {
		log.Info("Game session initialized at round 1")
	}

	// Start the round worker
	worker := service.NewRoundWorker(app.Rounds)
	stopWorker := worker.Start(ctx)

	// Wait for context cancellation
	log.Infof("Roulette service is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down...")
	stopWorker()

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Info("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}

// registerEventLogging subscribes structured log handlers for the domain events
func registerEventLogging(bus *events.Bus) {
	bus.Subscribe(events.EventTypeRoundResolved, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.RoundResolvedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"round":          e.Round,
			"winning_number": e.WinningNumber,
			"slot":           e.Slot,
		}).Info("Round outcome derived")
	})

	bus.Subscribe(events.EventTypeWinningsClaimed, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.WinningsClaimedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"player_id": e.PlayerID,
			"round":     e.Round,
			"amount":    e.Amount,
		}).Info("Winnings claimed")
	})

	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.BalanceChangeEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"account_id": e.AccountID,
			"entry_type": e.EntryType,
			"change":     e.ChangeAmount,
		}).Debug("Balance changed")
	})
}
