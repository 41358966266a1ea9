package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	SolarDBName string
	Eco4DBName  string
	CoreDBName  string // users, preferences, expense ledger, app logs
	SkipAuth    bool
	Environment string
	AppId       string

	// Ledger sync from the external accounting Postgres. Empty DSN disables the job.
	AccountingPgDSN    string
	LedgerSyncSchedule string
	LogRetentionDays   int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		JWTSecret:          getEnv("JWT_SECRET", "secret"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		SolarDBName:        getEnv("SOLAR_DB_NAME", "solar-sales"),
		Eco4DBName:         getEnv("ECO4_DB_NAME", "eco4-sales"),
		CoreDBName:         getEnv("CORE_DB_NAME", "salesdash"),
		SkipAuth:           getEnv("SKIP_AUTH", "false") == "true",
		Environment:        getEnv("ENVIRONMENT", "development"),
		AppId:              getEnv("APP_ID", "go-salesdash"),
		AccountingPgDSN:    getEnv("ACCOUNTING_PG_DSN", ""),
		LedgerSyncSchedule: getEnv("LEDGER_SYNC_SCHEDULE", "15 2 * * *"),
		LogRetentionDays:   getEnvInt("LOG_RETENTION_DAYS", 30),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
