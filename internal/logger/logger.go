package logger

import (
	"go-salesdash/internal/config"
	"go-salesdash/internal/database"

	"go.uber.org/zap"
)

// NewLogger builds the zap logger and tees every entry into the core
// database so adapter failures stay visible after the process restarts.
func NewLogger(cfg *config.Config, db *database.MongodbDB) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Enable Caller so the DB writer can record the function name
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	dbWriter := NewDBLogWriter(db, cfg)
	finalCore := NewDBCore(baseLogger.Core(), dbWriter)

	return zap.New(finalCore, zap.AddCaller()), nil
}
