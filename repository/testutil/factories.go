package testutil

import (
	"math/big"
	"time"

	"roulette/models"
)

// CreateTestAccount creates a test account with default values
func CreateTestAccount(accountID int64) *models.Account {
	now := time.Now()
	return &models.Account{
		ID:        accountID,
		Balance:   100000,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestAccountWithBalance creates a test account with a specific balance
func CreateTestAccountWithBalance(accountID int64, balance int64) *models.Account {
	account := CreateTestAccount(accountID)
	account.Balance = balance
	return account
}

// CreateTestVault creates a test vault with default values
func CreateTestVault(asset string) *models.Vault {
	now := time.Now()
	return &models.Vault{
		ID:          1,
		Asset:       asset,
		RewardIndex: big.NewInt(0),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// CreateTestVaultWithLiquidity creates a test vault holding provider capital
func CreateTestVaultWithLiquidity(asset string, capital int64) *models.Vault {
	vault := CreateTestVault(asset)
	vault.TotalLiquidity = capital
	vault.TotalProviderCapital = capital
	return vault
}

// CreateTestPosition creates a test provider position
func CreateTestPosition(vaultID, providerID int64, amount int64) *models.ProviderPosition {
	now := time.Now()
	return &models.ProviderPosition{
		VaultID:         vaultID,
		ProviderID:      providerID,
		Amount:          amount,
		LastRewardIndex: big.NewInt(0),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// CreateTestSession creates a test game session accepting bets
func CreateTestSession(round int64) *models.GameSession {
	now := time.Now()
	return &models.GameSession{
		CurrentRound:   round,
		RoundStatus:    models.RoundStatusAcceptingBets,
		RoundStartTime: now,
		UpdatedAt:      now,
	}
}

// CreateTestBet creates a single straight-up wager entry
func CreateTestBet(amount int64, number int16) models.Bet {
	return models.Bet{
		Amount:  amount,
		Kind:    models.BetStraight,
		Numbers: []int16{number},
	}
}

// CreateTestSlip creates a player's wager slip for a round
func CreateTestSlip(playerID, vaultID, round int64, bets ...models.Bet) *models.PlayerBets {
	return &models.PlayerBets{
		PlayerID:  playerID,
		VaultID:   vaultID,
		Round:     round,
		Bets:      bets,
		UpdatedAt: time.Now(),
	}
}
