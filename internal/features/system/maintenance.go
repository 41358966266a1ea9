package system

import (
	"context"
	"time"

	"go-salesdash/internal/config"
	"go-salesdash/internal/database"
	"go-salesdash/internal/features/ledgersync"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// MaintenanceService owns the background schedule: the nightly ledger sync
// and the app-log retention prune.
type MaintenanceService struct {
	cfg        *config.Config
	db         *database.MongodbDB
	ledgerSync ledgersync.LedgerSyncService
	logger     *zap.Logger
	scheduler  *cron.Cron
}

func NewMaintenanceService(
	cfg *config.Config,
	db *database.MongodbDB,
	ledgerSync ledgersync.LedgerSyncService,
	logger *zap.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		cfg:        cfg,
		db:         db,
		ledgerSync: ledgerSync,
		logger:     logger,
		scheduler:  cron.New(),
	}
}

// Register wires the maintenance scheduler into the fx lifecycle.
func Register(lc fx.Lifecycle, s *MaintenanceService) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.Start()
		},
		OnStop: func(ctx context.Context) error {
			s.Stop()
			return nil
		},
	})
}

func (s *MaintenanceService) Start() error {
	if s.ledgerSync.Enabled() {
		if _, err := s.scheduler.AddFunc(s.cfg.LedgerSyncSchedule, s.runLedgerSync); err != nil {
			return err
		}
	} else {
		s.logger.Info("ledger sync disabled: no accounting DSN configured")
	}

	if _, err := s.scheduler.AddFunc("45 3 * * *", s.pruneLogs); err != nil {
		return err
	}

	s.scheduler.Start()
	return nil
}

func (s *MaintenanceService) Stop() {
	s.scheduler.Stop()
}

func (s *MaintenanceService) runLedgerSync() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.ledgerSync.RunSync(ctx); err != nil {
		s.logger.Error("ledger sync failed", zap.Error(err))
	}
}

func (s *MaintenanceService) pruneLogs() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().AddDate(0, 0, -s.cfg.LogRetentionDays)
	res, err := s.db.Core.Collection("app_logs").DeleteMany(ctx, bson.M{
		"created_on_utc": bson.M{"$lt": cutoff},
	})
	if err != nil {
		s.logger.Error("log prune failed", zap.Error(err))
		return
	}
	s.logger.Info("pruned app logs", zap.Int64("deleted", res.DeletedCount))
}
