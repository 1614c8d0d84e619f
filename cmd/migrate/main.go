package main

import (
	"context"
	"time"

	mongoMigration "doctortravel/internal/migrations/mongo"
	postgresMigration "doctortravel/internal/migrations/postgres"
	"doctortravel/pkg/config"
)

const JobName = "migrate"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	cfg.SetPostgres()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting migration job")
	migrateMongo(ctx, cfg)
	migratePostgres(cfg)
	cfg.Log.Info("Migration completed successfully")
}

func migrateMongo(ctx context.Context, cfg *config.Config) {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	if err := mongoMigration.RunMigration(ctx, db, cfg.Log); err != nil {
		cfg.Log.Fatal("Mongo migration failed", "error", err)
	}
}

func migratePostgres(cfg *config.Config) {
	if err := postgresMigration.RunMigration(cfg.Client.Postgres, cfg.Log); err != nil {
		cfg.Log.Fatal("Postgres migration failed", "error", err)
	}
}
