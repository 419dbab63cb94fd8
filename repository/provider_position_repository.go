package repository

import (
	"context"
	"fmt"

	"roulette/database"
	"roulette/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// ProviderPositionRepository implements the ProviderPositionRepository interface
type ProviderPositionRepository struct {
	q queryable
}

// NewProviderPositionRepository creates a new provider position repository
func NewProviderPositionRepository(db *database.DB) *ProviderPositionRepository {
	return &ProviderPositionRepository{q: db.Pool}
}

// newProviderPositionRepositoryWithTx creates a new provider position repository with a transaction
func newProviderPositionRepositoryWithTx(tx queryable) *ProviderPositionRepository {
	return &ProviderPositionRepository{q: tx}
}

// Get retrieves a provider's position in a vault, nil if none exists.
// The row is locked because every caller mutates the position it reads.
func (r *ProviderPositionRepository) Get(ctx context.Context, vaultID, providerID int64) (*models.ProviderPosition, error) {
	query := `
		SELECT vault_id, provider_id, amount, unclaimed_rewards, last_reward_index, created_at, updated_at
		FROM provider_positions
		WHERE vault_id = $1 AND provider_id = $2
		FOR UPDATE
	`

	var position models.ProviderPosition
	var index pgtype.Numeric
	err := r.q.QueryRow(ctx, query, vaultID, providerID).Scan(
		&position.VaultID,
		&position.ProviderID,
		&position.Amount,
		&position.UnclaimedRewards,
		&index,
		&position.CreatedAt,
		&position.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position for provider %d in vault %d: %w", providerID, vaultID, err)
	}

	position.LastRewardIndex, err = numericToBig(index)
	if err != nil {
		return nil, fmt.Errorf("failed to decode reward index snapshot: %w", err)
	}

	return &position, nil
}

// Create creates a new provider position
func (r *ProviderPositionRepository) Create(ctx context.Context, position *models.ProviderPosition) error {
	query := `
		INSERT INTO provider_positions (vault_id, provider_id, amount, unclaimed_rewards, last_reward_index)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		position.VaultID,
		position.ProviderID,
		position.Amount,
		position.UnclaimedRewards,
		bigToNumeric(position.LastRewardIndex),
	).Scan(&position.CreatedAt, &position.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create position for provider %d in vault %d: %w", position.ProviderID, position.VaultID, err)
	}

	return nil
}

// Update persists a mutated position
func (r *ProviderPositionRepository) Update(ctx context.Context, position *models.ProviderPosition) error {
	query := `
		UPDATE provider_positions
		SET amount = $1, unclaimed_rewards = $2, last_reward_index = $3, updated_at = NOW()
		WHERE vault_id = $4 AND provider_id = $5
	`

	result, err := r.q.Exec(ctx, query,
		position.Amount,
		position.UnclaimedRewards,
		bigToNumeric(position.LastRewardIndex),
		position.VaultID,
		position.ProviderID,
	)
	if err != nil {
		return fmt.Errorf("failed to update position for provider %d in vault %d: %w", position.ProviderID, position.VaultID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("position for provider %d in vault %d not found", position.ProviderID, position.VaultID)
	}

	return nil
}

// Delete removes a closed position
func (r *ProviderPositionRepository) Delete(ctx context.Context, vaultID, providerID int64) error {
	query := `
		DELETE FROM provider_positions
		WHERE vault_id = $1 AND provider_id = $2
	`

	result, err := r.q.Exec(ctx, query, vaultID, providerID)
	if err != nil {
		return fmt.Errorf("failed to delete position for provider %d in vault %d: %w", providerID, vaultID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("position for provider %d in vault %d not found", providerID, vaultID)
	}

	return nil
}
