package repository

import (
	"context"
	"fmt"

	"roulette/database"
	"roulette/models"

	"github.com/jackc/pgx/v5"
)

// ClaimRecordRepository implements the ClaimRecordRepository interface
type ClaimRecordRepository struct {
	q queryable
}

// NewClaimRecordRepository creates a new claim record repository
func NewClaimRecordRepository(db *database.DB) *ClaimRecordRepository {
	return &ClaimRecordRepository{q: db.Pool}
}

// newClaimRecordRepositoryWithTx creates a new claim record repository with a transaction
func newClaimRecordRepositoryWithTx(tx queryable) *ClaimRecordRepository {
	return &ClaimRecordRepository{q: tx}
}

// Get retrieves a claim record, nil if none exists
func (r *ClaimRecordRepository) Get(ctx context.Context, playerID, vaultID, round int64) (*models.ClaimRecord, error) {
	query := `
		SELECT player_id, vault_id, round, amount, claimed, created_at
		FROM claim_records
		WHERE player_id = $1 AND vault_id = $2 AND round = $3
	`

	var record models.ClaimRecord
	err := r.q.QueryRow(ctx, query, playerID, vaultID, round).Scan(
		&record.PlayerID,
		&record.VaultID,
		&record.Round,
		&record.Amount,
		&record.Claimed,
		&record.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get claim record for player %d round %d: %w", playerID, round, err)
	}

	return &record, nil
}

// Create creates a claim record, failing if one already exists
func (r *ClaimRecordRepository) Create(ctx context.Context, record *models.ClaimRecord) error {
	query := `
		INSERT INTO claim_records (player_id, vault_id, round, amount, claimed)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		record.PlayerID,
		record.VaultID,
		record.Round,
		record.Amount,
		record.Claimed,
	).Scan(&record.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create claim record for player %d round %d: %w", record.PlayerID, record.Round, err)
	}

	return nil
}
