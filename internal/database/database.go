package database

import (
	"context"
	"log"
	"time"

	"go-salesdash/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
)

// MongodbDB bundles the three logical databases the dashboard reads from:
// the Solar lead store, the ECO4 lead store, and the shared core database
// (users, preferences, expense ledger, app logs). The two lead stores have
// deliberately different schemas; only their adapters know the shapes.
type MongodbDB struct {
	Solar *mongo.Database
	Eco4  *mongo.Database
	Core  *mongo.Database
}

// NewDatabase creates the MongoDB connection with lifecycle management
func NewDatabase(lc fx.Lifecycle, cfg *config.Config) (*MongodbDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	log.Println("Connected to MongoDB!")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("Disconnecting from MongoDB...")
			return client.Disconnect(ctx)
		},
	})

	return &MongodbDB{
		Solar: client.Database(cfg.SolarDBName),
		Eco4:  client.Database(cfg.Eco4DBName),
		Core:  client.Database(cfg.CoreDBName),
	}, nil
}
