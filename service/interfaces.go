package service

import (
	"context"

	"roulette/events"
	"roulette/models"
)

// AccountRepository defines the interface for custody account data access
type AccountRepository interface {
	// GetByID retrieves an account by its ID
	GetByID(ctx context.Context, accountID int64) (*models.Account, error)

	// Create creates a new account with the initial balance
	Create(ctx context.Context, accountID int64, initialBalance int64) (*models.Account, error)

	// AddBalance adds to an account's balance atomically
	AddBalance(ctx context.Context, accountID int64, amount int64) error

	// DeductBalance deducts from an account's balance atomically, failing if insufficient funds
	DeductBalance(ctx context.Context, accountID int64, amount int64) error
}

// VaultRepository defines the interface for vault data access
type VaultRepository interface {
	// Create creates a new vault for an asset
	Create(ctx context.Context, asset string) (*models.Vault, error)

	// GetByAsset retrieves a vault by asset identifier
	GetByAsset(ctx context.Context, asset string) (*models.Vault, error)

	// GetByAssetForUpdate retrieves a vault by asset and locks the row for the transaction
	GetByAssetForUpdate(ctx context.Context, asset string) (*models.Vault, error)

	// GetByIDForUpdate retrieves a vault by ID and locks the row for the transaction
	GetByIDForUpdate(ctx context.Context, vaultID int64) (*models.Vault, error)

	// Update persists mutated vault balances and the reward index
	Update(ctx context.Context, vault *models.Vault) error
}

// ProviderPositionRepository defines the interface for provider position data access
type ProviderPositionRepository interface {
	// Get retrieves a provider's position in a vault, nil if none exists
	Get(ctx context.Context, vaultID, providerID int64) (*models.ProviderPosition, error)

	// Create creates a new provider position
	Create(ctx context.Context, position *models.ProviderPosition) error

	// Update persists a mutated position
	Update(ctx context.Context, position *models.ProviderPosition) error

	// Delete removes a closed position
	Delete(ctx context.Context, vaultID, providerID int64) error
}

// GameSessionRepository defines the interface for the round state machine
type GameSessionRepository interface {
	// Get retrieves the session, nil if not initialized
	Get(ctx context.Context) (*models.GameSession, error)

	// GetForUpdate retrieves the session and locks the row for the transaction
	GetForUpdate(ctx context.Context) (*models.GameSession, error)

	// Create initializes the session at round 1 accepting bets
	Create(ctx context.Context) (*models.GameSession, error)

	// Update persists mutated session state
	Update(ctx context.Context, session *models.GameSession) error
}

// PlayerBetsRepository defines the interface for per-player wager slips
type PlayerBetsRepository interface {
	// Get retrieves a player's wager slip for a vault, nil if none exists
	Get(ctx context.Context, playerID, vaultID int64) (*models.PlayerBets, error)

	// Save upserts a player's wager slip
	Save(ctx context.Context, bets *models.PlayerBets) error
}

// ClaimRecordRepository defines the interface for claim deduplication records
type ClaimRecordRepository interface {
	// Get retrieves a claim record, nil if none exists
	Get(ctx context.Context, playerID, vaultID, round int64) (*models.ClaimRecord, error)

	// Create creates a claim record, failing if one already exists
	Create(ctx context.Context, record *models.ClaimRecord) error
}

// LedgerEntryRepository defines the interface for the custody audit journal
type LedgerEntryRepository interface {
	// Record creates a new ledger entry
	Record(ctx context.Context, entry *models.LedgerEntry) error

	// GetByAccount returns ledger entries for an account, newest first
	GetByAccount(ctx context.Context, accountID int64, limit int) ([]*models.LedgerEntry, error)
}

// VaultService defines the interface for liquidity provider operations
type VaultService interface {
	// CreateVault creates the pooled vault for an asset
	CreateVault(ctx context.Context, operatorID int64, asset string) (*models.Vault, error)

	// Deposit adds provider capital to the vault
	Deposit(ctx context.Context, providerID int64, asset string, amount int64) (*models.ProviderPosition, error)

	// UnclaimedRewards reports a provider's settled plus pending rewards without
	// mutating any state
	UnclaimedRewards(ctx context.Context, providerID int64, asset string) (int64, error)

	// WithdrawRevenue pays out a provider's accrued rewards, leaving capital in place
	WithdrawRevenue(ctx context.Context, providerID int64, asset string) (int64, error)

	// WithdrawAll closes a provider's position, paying capital plus rewards
	WithdrawAll(ctx context.Context, providerID int64, asset string) (int64, error)

	// WithdrawOwnerRevenue pays accumulated operator revenue to the operator account
	WithdrawOwnerRevenue(ctx context.Context, operatorID int64, asset string) (int64, error)

	// DistributePayoutReserve releases half the payout reserve, split between
	// the operator and the provider pool
	DistributePayoutReserve(ctx context.Context, operatorID int64, asset string) (int64, error)
}

// BettingService defines the interface for wager placement
type BettingService interface {
	// PlaceBet adds a wager entry to the player's slip for the current round
	PlaceBet(ctx context.Context, playerID int64, asset string, bet models.Bet) (*models.PlayerBets, error)
}

// RoundService defines the interface for round lifecycle operations
type RoundService interface {
	// InitializeSession creates the session at round 1 accepting bets
	InitializeSession(ctx context.Context) (*models.GameSession, error)

	// CloseBets transitions the current round from accepting bets to closed
	CloseBets(ctx context.Context) (*models.GameSession, error)

	// ResolveRound derives the winning number and completes the round
	ResolveRound(ctx context.Context) (*models.GameSession, error)

	// StartNewRound opens the next round after a completed one
	StartNewRound(ctx context.Context) (*models.GameSession, error)
}

// ClaimService defines the interface for winnings settlement
type ClaimService interface {
	// ClaimWinnings settles a player's winnings for the last completed round
	ClaimWinnings(ctx context.Context, playerID int64, asset string) (int64, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	VaultRepository() VaultRepository
	ProviderPositionRepository() ProviderPositionRepository
	GameSessionRepository() GameSessionRepository
	PlayerBetsRepository() PlayerBetsRepository
	ClaimRecordRepository() ClaimRecordRepository
	LedgerEntryRepository() LedgerEntryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
