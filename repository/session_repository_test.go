package repository

import (
	"context"
	"testing"
	"time"

	"roulette/models"
	"roulette/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameSessionRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGameSessionRepository(testDB.DB)
	ctx := context.Background()

	t.Run("get before initialization", func(t *testing.T) {
		session, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("create singleton", func(t *testing.T) {
		session, err := repo.Create(ctx)
		require.NoError(t, err)
		require.NotNil(t, session)

		assert.Equal(t, int64(1), session.CurrentRound)
		assert.Equal(t, models.RoundStatusAcceptingBets, session.RoundStatus)
		assert.Nil(t, session.BetsClosedAt)
		assert.Nil(t, session.WinningNumber)
		assert.Nil(t, session.LastBettor)
		assert.Equal(t, int64(0), session.LastCompletedRound)

		// Only one session row can exist
		_, err = repo.Create(ctx)
		assert.Error(t, err)
	})

	t.Run("update through round lifecycle", func(t *testing.T) {
		session, err := repo.GetForUpdate(ctx)
		require.NoError(t, err)
		require.NotNil(t, session)

		now := time.Now().UTC().Truncate(time.Microsecond)
		bettor := int64(42)
		winning := int16(17)

		session.RoundStatus = models.RoundStatusCompleted
		session.BetsClosedAt = &now
		session.ResolvedAt = &now
		session.WinningNumber = &winning
		session.LastBettor = &bettor
		session.LastCompletedRound = session.CurrentRound

		require.NoError(t, repo.Update(ctx, session))

		loaded, err := repo.Get(ctx)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, models.RoundStatusCompleted, loaded.RoundStatus)
		require.NotNil(t, loaded.WinningNumber)
		assert.Equal(t, int16(17), *loaded.WinningNumber)
		require.NotNil(t, loaded.LastBettor)
		assert.Equal(t, int64(42), *loaded.LastBettor)
		assert.Equal(t, session.CurrentRound, loaded.LastCompletedRound)
	})

	t.Run("update clears nullable fields for new round", func(t *testing.T) {
		session, err := repo.GetForUpdate(ctx)
		require.NoError(t, err)
		require.NotNil(t, session)

		session.CurrentRound++
		session.RoundStatus = models.RoundStatusAcceptingBets
		session.RoundStartTime = time.Now()
		session.BetsClosedAt = nil
		session.ResolvedAt = nil
		session.WinningNumber = nil
		session.LastBettor = nil

		require.NoError(t, repo.Update(ctx, session))

		loaded, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), loaded.CurrentRound)
		assert.Nil(t, loaded.BetsClosedAt)
		assert.Nil(t, loaded.ResolvedAt)
		assert.Nil(t, loaded.WinningNumber)
		assert.Nil(t, loaded.LastBettor)
	})
}

func TestPlayerBetsRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	vaultRepo := NewVaultRepository(testDB.DB)
	accountRepo := NewAccountRepository(testDB.DB)
	repo := NewPlayerBetsRepository(testDB.DB)
	ctx := context.Background()

	vault, err := vaultRepo.Create(ctx, "chips")
	require.NoError(t, err)

	_, err = accountRepo.Create(ctx, 42, 100000)
	require.NoError(t, err)

	t.Run("slip not found", func(t *testing.T) {
		slip, err := repo.Get(ctx, 42, vault.ID)
		require.NoError(t, err)
		assert.Nil(t, slip)
	})

	t.Run("save and get round trip", func(t *testing.T) {
		slip := testutil.CreateTestSlip(42, vault.ID, 5,
			testutil.CreateTestBet(100, 17),
			models.Bet{Amount: 200, Kind: models.BetRed},
			models.Bet{Amount: 300, Kind: models.BetSplit, Numbers: []int16{13, 14}},
		)

		require.NoError(t, repo.Save(ctx, slip))

		loaded, err := repo.Get(ctx, 42, vault.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, int64(5), loaded.Round)
		require.Len(t, loaded.Bets, 3)
		assert.Equal(t, models.BetStraight, loaded.Bets[0].Kind)
		assert.Equal(t, []int16{17}, loaded.Bets[0].Numbers)
		assert.Equal(t, models.BetRed, loaded.Bets[1].Kind)
		assert.Nil(t, loaded.Bets[1].Numbers)
		assert.Equal(t, []int16{13, 14}, loaded.Bets[2].Numbers)

		// The column must hold a plain JSON array, not a base64 string
		var raw string
		err = testDB.DB.Pool.QueryRow(ctx,
			`SELECT bets->0->>'numbers' FROM player_bets WHERE player_id = $1 AND vault_id = $2`,
			int64(42), vault.ID,
		).Scan(&raw)
		require.NoError(t, err)
		assert.Equal(t, "[17]", raw)
	})

	t.Run("save supersedes previous round", func(t *testing.T) {
		slip := testutil.CreateTestSlip(42, vault.ID, 6,
			testutil.CreateTestBet(500, 0),
		)
		slip.ClaimedRound = 5

		require.NoError(t, repo.Save(ctx, slip))

		loaded, err := repo.Get(ctx, 42, vault.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(6), loaded.Round)
		assert.Equal(t, int64(5), loaded.ClaimedRound)
		require.Len(t, loaded.Bets, 1)
		assert.Equal(t, int64(500), loaded.Bets[0].Amount)
	})
}

func TestClaimRecordRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	accountRepo := NewAccountRepository(testDB.DB)
	vaultRepo := NewVaultRepository(testDB.DB)
	repo := NewClaimRecordRepository(testDB.DB)
	ctx := context.Background()

	_, err := accountRepo.Create(ctx, 42, 100000)
	require.NoError(t, err)
	chips, err := vaultRepo.Create(ctx, "chips")
	require.NoError(t, err)
	gold, err := vaultRepo.Create(ctx, "gold")
	require.NoError(t, err)

	t.Run("record not found", func(t *testing.T) {
		record, err := repo.Get(ctx, 42, chips.ID, 5)
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("create and get", func(t *testing.T) {
		record := &models.ClaimRecord{
			PlayerID: 42,
			VaultID:  chips.ID,
			Round:    5,
			Amount:   3600,
			Claimed:  true,
		}
		require.NoError(t, repo.Create(ctx, record))
		assert.False(t, record.CreatedAt.IsZero())

		loaded, err := repo.Get(ctx, 42, chips.ID, 5)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, chips.ID, loaded.VaultID)
		assert.Equal(t, int64(3600), loaded.Amount)
		assert.True(t, loaded.Claimed)
	})

	t.Run("duplicate claim rejected", func(t *testing.T) {
		record := &models.ClaimRecord{PlayerID: 42, VaultID: chips.ID, Round: 5, Amount: 3600, Claimed: true}
		err := repo.Create(ctx, record)
		assert.Error(t, err)
	})

	t.Run("same round in another vault is its own record", func(t *testing.T) {
		record := &models.ClaimRecord{PlayerID: 42, VaultID: gold.ID, Round: 5, Amount: 100, Claimed: true}
		require.NoError(t, repo.Create(ctx, record))

		loaded, err := repo.Get(ctx, 42, gold.ID, 5)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, int64(100), loaded.Amount)
	})
}

func TestLedgerEntryRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	vaultRepo := NewVaultRepository(testDB.DB)
	accountRepo := NewAccountRepository(testDB.DB)
	repo := NewLedgerEntryRepository(testDB.DB)
	ctx := context.Background()

	vault, err := vaultRepo.Create(ctx, "chips")
	require.NoError(t, err)

	_, err = accountRepo.Create(ctx, 42, 100000)
	require.NoError(t, err)

	t.Run("record and read back", func(t *testing.T) {
		entry := &models.LedgerEntry{
			AccountID:     42,
			VaultID:       &vault.ID,
			BalanceBefore: 100000,
			BalanceAfter:  92900,
			ChangeAmount:  -7100,
			EntryType:     models.EntryTypeBet,
			Metadata: map[string]any{
				"asset": "chips",
				"round": 5,
			},
		}
		require.NoError(t, repo.Record(ctx, entry))
		assert.NotZero(t, entry.ID)

		entries, err := repo.GetByAccount(ctx, 42, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, models.EntryTypeBet, entries[0].EntryType)
		assert.Equal(t, int64(-7100), entries[0].ChangeAmount)
		assert.Equal(t, "chips", entries[0].Metadata["asset"])
	})

	t.Run("newest first with limit", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			entry := &models.LedgerEntry{
				AccountID:     42,
				BalanceBefore: 92900,
				BalanceAfter:  92900 + int64(i+1)*100,
				ChangeAmount:  int64(i+1) * 100,
				EntryType:     models.EntryTypePayout,
			}
			require.NoError(t, repo.Record(ctx, entry))
		}

		entries, err := repo.GetByAccount(ctx, 42, 2)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("no entries for unknown account", func(t *testing.T) {
		entries, err := repo.GetByAccount(ctx, 999999, 10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
