package repository

import (
	"context"
	"fmt"

	"roulette/database"
	"roulette/models"

	"github.com/jackc/pgx/v5"
)

// GameSessionRepository implements the GameSessionRepository interface
type GameSessionRepository struct {
	q queryable
}

// NewGameSessionRepository creates a new game session repository
func NewGameSessionRepository(db *database.DB) *GameSessionRepository {
	return &GameSessionRepository{q: db.Pool}
}

// newGameSessionRepositoryWithTx creates a new game session repository with a transaction
func newGameSessionRepositoryWithTx(tx queryable) *GameSessionRepository {
	return &GameSessionRepository{q: tx}
}

const sessionColumns = `current_round, round_status, round_start_time, bets_closed_at, resolved_at, winning_number, last_bettor, last_completed_round, updated_at`

func (r *GameSessionRepository) scanSession(row pgx.Row) (*models.GameSession, error) {
	var session models.GameSession
	err := row.Scan(
		&session.CurrentRound,
		&session.RoundStatus,
		&session.RoundStartTime,
		&session.BetsClosedAt,
		&session.ResolvedAt,
		&session.WinningNumber,
		&session.LastBettor,
		&session.LastCompletedRound,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Get retrieves the session, nil if not initialized
func (r *GameSessionRepository) Get(ctx context.Context) (*models.GameSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM game_sessions WHERE id = 1`

	session, err := r.scanSession(r.q.QueryRow(ctx, query))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game session: %w", err)
	}

	return session, nil
}

// GetForUpdate retrieves the session and locks the row for the transaction
func (r *GameSessionRepository) GetForUpdate(ctx context.Context) (*models.GameSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM game_sessions WHERE id = 1 FOR UPDATE`

	session, err := r.scanSession(r.q.QueryRow(ctx, query))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock game session: %w", err)
	}

	return session, nil
}

// Create initializes the session at round 1 accepting bets
func (r *GameSessionRepository) Create(ctx context.Context) (*models.GameSession, error) {
	query := `
		INSERT INTO game_sessions (id)
		VALUES (1)
		RETURNING ` + sessionColumns

	session, err := r.scanSession(r.q.QueryRow(ctx, query))
	if err != nil {
		return nil, fmt.Errorf("failed to create game session: %w", err)
	}

	return session, nil
}

// Update persists mutated session state
func (r *GameSessionRepository) Update(ctx context.Context, session *models.GameSession) error {
	query := `
		UPDATE game_sessions
		SET current_round = $1,
		    round_status = $2,
		    round_start_time = $3,
		    bets_closed_at = $4,
		    resolved_at = $5,
		    winning_number = $6,
		    last_bettor = $7,
		    last_completed_round = $8,
		    updated_at = NOW()
		WHERE id = 1
	`

	result, err := r.q.Exec(ctx, query,
		session.CurrentRound,
		session.RoundStatus,
		session.RoundStartTime,
		session.BetsClosedAt,
		session.ResolvedAt,
		session.WinningNumber,
		session.LastBettor,
		session.LastCompletedRound,
	)
	if err != nil {
		return fmt.Errorf("failed to update game session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("game session not initialized")
	}

	return nil
}
