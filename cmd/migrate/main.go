package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/UhaiMong/Bank-Manaagement/configs"
	"github.com/UhaiMong/Bank-Manaagement/internal/ledger"
	"github.com/UhaiMong/Bank-Manaagement/internal/logger"
	"github.com/UhaiMong/Bank-Manaagement/internal/seed"
	"github.com/UhaiMong/Bank-Manaagement/internal/store"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()

	configs.LoadConfig()

	db, err := store.NewPostgres(configs.AppConfig.DB.DSN)
	if err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Log.Fatal("migration failed", zap.Error(err))
	}
	logger.Log.Info("migrations loaded")

	if configs.AppConfig.Seed.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		engine := ledger.NewEngine(db, logger.Log)
		if err := seed.Run(ctx, db, engine); err != nil {
			logger.Log.Fatal("seed failed", zap.Error(err))
		}
	}
}
