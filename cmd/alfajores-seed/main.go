package main

import (
	"context"

	"go.uber.org/zap"

	appconfig "github.com/example/alfajores-platform/internal/platform/config"
	"github.com/example/alfajores-platform/internal/platform/db"
	"github.com/example/alfajores-platform/internal/platform/logging"
	"github.com/example/alfajores-platform/internal/platform/run"
	"github.com/example/alfajores-platform/internal/reviews"
	"github.com/example/alfajores-platform/internal/seed"
	"github.com/example/alfajores-platform/internal/store"
)

func main() {
	cfg := appconfig.Load()
	log, err := logging.New("alfajores-seed", cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	pool, err := db.Open(ctx)
	if err != nil {
		log.Error("database open", zap.Error(err))
		run.Exit(1)
	}
	defer pool.Close()

	users := store.NewPostgresUserStore(pool)
	alfajores := store.NewPostgresAlfajorStore(pool)
	revstore := store.NewPostgresReviewStore(pool)

	seeder := &seed.Seeder{
		Users:     users,
		Alfajores: alfajores,
		Reviews:   &reviews.Service{Reviews: revstore, Alfajores: alfajores, Users: users},
	}

	sum, err := seeder.Run(ctx)
	if err != nil {
		log.Error("seed", zap.Error(err))
		run.Exit(1)
	}

	log.Info("seed complete",
		zap.Int("users", sum.Users),
		zap.Int("alfajores", sum.Alfajores),
		zap.Int("reviews", sum.Reviews),
	)
}
