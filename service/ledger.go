package service

import (
	"context"
	"fmt"

	"roulette/events"
	"roulette/models"
)

// RecordBalanceChange records a ledger entry and emits the balance change event.
// This is the single entry point for all custody balance changes in the system.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, entry *models.LedgerEntry) error {
	if err := uow.LedgerEntryRepository().Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}

	// Emitted after the transaction commits
	event := events.BalanceChangeEvent{
		AccountID:    entry.AccountID,
		OldBalance:   entry.BalanceBefore,
		NewBalance:   entry.BalanceAfter,
		EntryType:    entry.EntryType,
		ChangeAmount: entry.ChangeAmount,
	}
	uow.EventBus().Publish(event)

	return nil
}
