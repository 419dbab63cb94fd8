package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"roulette/database"
	"roulette/models"

	"github.com/jackc/pgx/v5"
)

// PlayerBetsRepository implements the PlayerBetsRepository interface
type PlayerBetsRepository struct {
	q queryable
}

// NewPlayerBetsRepository creates a new player bets repository
func NewPlayerBetsRepository(db *database.DB) *PlayerBetsRepository {
	return &PlayerBetsRepository{q: db.Pool}
}

// newPlayerBetsRepositoryWithTx creates a new player bets repository with a transaction
func newPlayerBetsRepositoryWithTx(tx queryable) *PlayerBetsRepository {
	return &PlayerBetsRepository{q: tx}
}

// Get retrieves a player's wager slip for a vault, nil if none exists.
// The row is locked because callers mutate the slip they read.
func (r *PlayerBetsRepository) Get(ctx context.Context, playerID, vaultID int64) (*models.PlayerBets, error) {
	query := `
		SELECT player_id, vault_id, round, bets, claimed_round, updated_at
		FROM player_bets
		WHERE player_id = $1 AND vault_id = $2
		FOR UPDATE
	`

	var slip models.PlayerBets
	var betsJSON []byte
	err := r.q.QueryRow(ctx, query, playerID, vaultID).Scan(
		&slip.PlayerID,
		&slip.VaultID,
		&slip.Round,
		&betsJSON,
		&slip.ClaimedRound,
		&slip.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bets for player %d in vault %d: %w", playerID, vaultID, err)
	}

	if len(betsJSON) > 0 {
		if err := json.Unmarshal(betsJSON, &slip.Bets); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bets for player %d: %w", playerID, err)
		}
	}

	return &slip, nil
}

// Save upserts a player's wager slip
func (r *PlayerBetsRepository) Save(ctx context.Context, slip *models.PlayerBets) error {
	betsJSON, err := json.Marshal(slip.Bets)
	if err != nil {
		return fmt.Errorf("failed to marshal bets for player %d: %w", slip.PlayerID, err)
	}

	query := `
		INSERT INTO player_bets (player_id, vault_id, round, bets, claimed_round)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (player_id, vault_id)
		DO UPDATE SET round = $3, bets = $4, claimed_round = $5, updated_at = NOW()
		RETURNING updated_at
	`

	err = r.q.QueryRow(ctx, query,
		slip.PlayerID,
		slip.VaultID,
		slip.Round,
		betsJSON,
		slip.ClaimedRound,
	).Scan(&slip.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to save bets for player %d in vault %d: %w", slip.PlayerID, slip.VaultID, err)
	}

	return nil
}
