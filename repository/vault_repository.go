package repository

import (
	"context"
	"fmt"

	"roulette/database"
	"roulette/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// VaultRepository implements the VaultRepository interface
type VaultRepository struct {
	q queryable
}

// NewVaultRepository creates a new vault repository
func NewVaultRepository(db *database.DB) *VaultRepository {
	return &VaultRepository{q: db.Pool}
}

// newVaultRepositoryWithTx creates a new vault repository with a transaction
func newVaultRepositoryWithTx(tx queryable) *VaultRepository {
	return &VaultRepository{q: tx}
}

const vaultColumns = `id, asset, total_liquidity, total_provider_capital, owner_revenue, payout_reserve, reward_index, created_at, updated_at`

func (r *VaultRepository) scanVault(row pgx.Row) (*models.Vault, error) {
	var vault models.Vault
	var index pgtype.Numeric
	err := row.Scan(
		&vault.ID,
		&vault.Asset,
		&vault.TotalLiquidity,
		&vault.TotalProviderCapital,
		&vault.OwnerRevenue,
		&vault.PayoutReserve,
		&index,
		&vault.CreatedAt,
		&vault.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	vault.RewardIndex, err = numericToBig(index)
	if err != nil {
		return nil, fmt.Errorf("failed to decode reward index: %w", err)
	}
	return &vault, nil
}

// Create creates a new vault for an asset
func (r *VaultRepository) Create(ctx context.Context, asset string) (*models.Vault, error) {
	query := `
		INSERT INTO vaults (asset)
		VALUES ($1)
		RETURNING ` + vaultColumns

	vault, err := r.scanVault(r.q.QueryRow(ctx, query, asset))
	if err != nil {
		return nil, fmt.Errorf("failed to create vault for asset %s: %w", asset, err)
	}

	return vault, nil
}

// GetByAsset retrieves a vault by asset identifier
func (r *VaultRepository) GetByAsset(ctx context.Context, asset string) (*models.Vault, error) {
	query := `SELECT ` + vaultColumns + ` FROM vaults WHERE asset = $1`

	vault, err := r.scanVault(r.q.QueryRow(ctx, query, asset))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vault for asset %s: %w", asset, err)
	}

	return vault, nil
}

// GetByAssetForUpdate retrieves a vault by asset and locks the row for the transaction
func (r *VaultRepository) GetByAssetForUpdate(ctx context.Context, asset string) (*models.Vault, error) {
	query := `SELECT ` + vaultColumns + ` FROM vaults WHERE asset = $1 FOR UPDATE`

	vault, err := r.scanVault(r.q.QueryRow(ctx, query, asset))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock vault for asset %s: %w", asset, err)
	}

	return vault, nil
}

// GetByIDForUpdate retrieves a vault by ID and locks the row for the transaction
func (r *VaultRepository) GetByIDForUpdate(ctx context.Context, vaultID int64) (*models.Vault, error) {
	query := `SELECT ` + vaultColumns + ` FROM vaults WHERE id = $1 FOR UPDATE`

	vault, err := r.scanVault(r.q.QueryRow(ctx, query, vaultID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock vault %d: %w", vaultID, err)
	}

	return vault, nil
}

// Update persists mutated vault balances and the reward index
func (r *VaultRepository) Update(ctx context.Context, vault *models.Vault) error {
	query := `
		UPDATE vaults
		SET total_liquidity = $1,
		    total_provider_capital = $2,
		    owner_revenue = $3,
		    payout_reserve = $4,
		    reward_index = $5,
		    updated_at = NOW()
		WHERE id = $6
	`

	result, err := r.q.Exec(ctx, query,
		vault.TotalLiquidity,
		vault.TotalProviderCapital,
		vault.OwnerRevenue,
		vault.PayoutReserve,
		bigToNumeric(vault.RewardIndex),
		vault.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update vault %d: %w", vault.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("vault %d not found", vault.ID)
	}

	return nil
}
