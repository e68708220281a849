// migrate applies the embedded schema migrations and exits.
//
// Usage: go run ./cmd/migrate
package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"shop-backoffice/internal/config"
	"shop-backoffice/internal/db"
	"shop-backoffice/internal/logging"
	"shop-backoffice/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DB.URL, cfg.DB.MaxConns)
	if err != nil {
		logger.WithError(err).Fatal("connect")
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, migrations.FS, logger); err != nil {
		logger.WithError(err).Fatal("migrate")
	}
	logger.Info("all migrations processed")
}
