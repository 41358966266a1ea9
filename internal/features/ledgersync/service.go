package ledgersync

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go-salesdash/internal/config"
	"go-salesdash/internal/features/expense"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// LedgerSyncService imports expense rows from the external accounting
// Postgres into the shared Mongo ledger. The accounts team owns the source
// of truth; the dashboard only mirrors it.
type LedgerSyncService interface {
	Enabled() bool
	RunSync(ctx context.Context) error
}

type LedgerSyncServiceImpl struct {
	cfg         *config.Config
	expenseRepo expense.ExpenseRepository
	logger      *zap.Logger
}

func NewLedgerSyncService(cfg *config.Config, expenseRepo expense.ExpenseRepository, logger *zap.Logger) LedgerSyncService {
	return &LedgerSyncServiceImpl{
		cfg:         cfg,
		expenseRepo: expenseRepo,
		logger:      logger,
	}
}

func (s *LedgerSyncServiceImpl) Enabled() bool {
	return s.cfg.AccountingPgDSN != ""
}

func (s *LedgerSyncServiceImpl) RunSync(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}

	db, err := sql.Open("postgres", s.cfg.AccountingPgDSN)
	if err != nil {
		return fmt.Errorf("failed to open accounting database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping accounting database: %w", err)
	}

	// A rolling window is enough: the ledger is append-mostly and old rows
	// don't change after month close.
	since := time.Now().AddDate(0, -3, 0)

	rows, err := db.QueryContext(ctx,
		`SELECT id::text, entry_date, category, amount, COALESCE(description, '')
		 FROM expense_entries
		 WHERE entry_date >= $1
		 ORDER BY entry_date`, since)
	if err != nil {
		return fmt.Errorf("failed to query expense entries: %w", err)
	}
	defer rows.Close()

	synced := 0
	for rows.Next() {
		var entry expense.Entry
		if err := rows.Scan(&entry.SourceRef, &entry.Date, &entry.Category, &entry.Amount, &entry.Description); err != nil {
			return fmt.Errorf("failed to scan expense entry: %w", err)
		}

		if err := s.expenseRepo.UpsertBySourceRef(ctx, &entry); err != nil {
			return fmt.Errorf("failed to upsert expense entry %s: %w", entry.SourceRef, err)
		}
		synced++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed reading expense entries: %w", err)
	}

	s.logger.Info("ledger sync completed", zap.Int("entries", synced))
	return nil
}
