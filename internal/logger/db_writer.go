package logger

import (
	"context"
	"fmt"
	"time"

	"go-salesdash/internal/config"
	"go-salesdash/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level        zapcore.Level
	Message      string
	BusinessLine string
	Operation    string
	Caller       string // Function name
}

type logRecord struct {
	AppId        string    `bson:"app_id"`
	Message      string    `bson:"message"`
	BusinessLine string    `bson:"line,omitempty"`
	Operation    string    `bson:"op,omitempty"`
	Caller       string    `bson:"caller,omitempty"`
	LogLevelId   int       `bson:"level"`
	CreatedOnUtc time.Time `bson:"created_on_utc"`
}

// DBLogWriter handles the async writing
type DBLogWriter struct {
	collection *mongo.Collection
	logChan    chan LogEntry
	appId      string
}

// NewDBLogWriter initializes the worker
func NewDBLogWriter(db *database.MongodbDB, cfg *config.Config) *DBLogWriter {
	writer := &DBLogWriter{
		collection: db.Core.Collection("app_logs"),
		logChan:    make(chan LogEntry, 1000), // Buffer 1000 logs
		appId:      cfg.AppId,
	}

	// Start the background worker immediately
	go writer.processLogs()

	return writer
}

// AddLog is called by our Zap hook
func (w *DBLogWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
		// Log pushed to channel
	default:
		// Channel full: drop log rather than block the request path
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

func (w *DBLogWriter) processLogs() {
	for entry := range w.logChan {
		record := logRecord{
			AppId:        w.appId,
			Message:      entry.Message,
			BusinessLine: entry.BusinessLine,
			Operation:    entry.Operation,
			Caller:       entry.Caller,
			LogLevelId:   mapLevelToInt(entry.Level),
			CreatedOnUtc: time.Now().UTC(),
		}

		// Insert into DB (safely ignore errors to keep app running)
		w.collection.InsertOne(context.Background(), record)
	}
}

func mapLevelToInt(l zapcore.Level) int {
	switch l {
	case zapcore.DebugLevel:
		return 10
	case zapcore.InfoLevel:
		return 20
	case zapcore.WarnLevel:
		return 30
	case zapcore.ErrorLevel:
		return 40
	case zapcore.FatalLevel:
		return 50
	default:
		return 20
	}
}
