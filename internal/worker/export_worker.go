// Package worker contains the export worker that mirrors committed
// ledger transactions to the configured spreadsheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"finman/internal/amqp"
	"finman/internal/export"
	"finman/internal/storage"
)

// ExportWorker consumes transaction-posted events and appends the rows
// to the export target, tracking per-row sync status in SQLite.
type ExportWorker struct {
	storage   *storage.SQLiteRepository
	writer    export.LedgerWriter
	batchSize int
}

func NewExportWorker(storage *storage.SQLiteRepository, writer export.LedgerWriter, batchSize int) *ExportWorker {
	return &ExportWorker{
		storage:   storage,
		writer:    writer,
		batchSize: batchSize,
	}
}

// HandleTransactionPosted processes a single transaction-posted message
// from AMQP.
func (w *ExportWorker) HandleTransactionPosted(ctx context.Context, msg *amqp.TransactionPostedMessage) error {
	slog.InfoContext(ctx, "Processing transaction posted event",
		"transaction_id", msg.TransactionID,
		"event_id", msg.EventID)

	return w.exportTransaction(ctx, msg.TransactionID)
}

// ProcessPendingTransactions exports any transactions still marked
// pending. This is a backup mechanism in case AMQP messages are lost.
func (w *ExportWorker) ProcessPendingTransactions(ctx context.Context) error {
	pending, err := w.storage.ListPendingSyncTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending transactions: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, p := range pending {
		if err := w.exportTransaction(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction", "transaction_id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck drains the pending backlog at worker startup. Useful
// to recover from missed AMQP messages or worker downtime.
func (w *ExportWorker) StartupSyncCheck(ctx context.Context) error {
	// Larger batch for the startup pass.
	pending, err := w.storage.ListPendingSyncTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list pending transactions for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		if err := w.exportTransaction(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction during startup",
				"transaction_id", p.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup export completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *ExportWorker) exportTransaction(ctx context.Context, id int64) error {
	txn, err := w.storage.GetTransaction(ctx, id)
	if err != nil {
		if markErr := w.storage.MarkTransactionSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "transaction_id", id, "error", markErr)
		}
		return fmt.Errorf("get transaction: %w", err)
	}

	ref, err := w.writer.Append(ctx, txn)
	if err != nil {
		if markErr := w.storage.MarkTransactionSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "transaction_id", id, "error", markErr)
		}
		return fmt.Errorf("append to export target: %w", err)
	}

	if err := w.storage.MarkTransactionSynced(ctx, id); err != nil {
		// The row is already on the sheet. A later sweep may append it
		// again; the transaction ID column makes that visible.
		slog.ErrorContext(ctx, "Failed to mark as synced", "transaction_id", id, "error", err)
	}

	slog.InfoContext(ctx, "Successfully exported transaction",
		"transaction_id", id,
		"sheets_ref", ref,
		"description", txn.Description,
		"amount_cents", txn.Amount.Cents)

	return nil
}
