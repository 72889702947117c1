package main

import (
	"context"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authsvc "github.com/example/alfajores-platform/internal/auth"
	"github.com/example/alfajores-platform/internal/config"
	"github.com/example/alfajores-platform/internal/handlers"
	"github.com/example/alfajores-platform/internal/platform/analytics"
	"github.com/example/alfajores-platform/internal/platform/auth"
	appconfig "github.com/example/alfajores-platform/internal/platform/config"
	"github.com/example/alfajores-platform/internal/platform/db"
	"github.com/example/alfajores-platform/internal/platform/httpserver"
	"github.com/example/alfajores-platform/internal/platform/logging"
	"github.com/example/alfajores-platform/internal/platform/natsconn"
	"github.com/example/alfajores-platform/internal/platform/run"
	"github.com/example/alfajores-platform/internal/reviews"
	"github.com/example/alfajores-platform/internal/stats"
	"github.com/example/alfajores-platform/internal/store"
	"github.com/example/alfajores-platform/internal/tokens"
)

func main() {
	cfg := appconfig.Load()
	log, err := logging.New(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	authCfg, err := config.LoadAuth()
	if err != nil {
		log.Error("auth config", zap.Error(err))
		run.Exit(1)
	}

	pool, err := db.Open(context.Background())
	if err != nil {
		log.Error("database open", zap.Error(err))
		run.Exit(1)
	}
	defer pool.Close()

	users := store.NewPostgresUserStore(pool)
	alfajores := store.NewPostgresAlfajorStore(pool)
	revstore := store.NewPostgresReviewStore(pool)

	tokenSvc := tokens.Service{Secret: authCfg.JWTSecret, AccessTokenTTL: authCfg.AccessTokenTTL}
	accounts := authsvc.Service{Users: users, Tokens: tokenSvc}
	reviewSvc := &reviews.Service{Reviews: revstore, Alfajores: alfajores, Users: users}
	statsSvc := &stats.Service{Reviews: revstore, Alfajores: alfajores}

	// analytics are best effort; a nil publisher drops events
	var events *analytics.Publisher
	if nc, err := natsconn.Connect(natsconn.Options{}); err != nil {
		log.Warn("nats connect, analytics disabled", zap.Error(err))
	} else {
		defer nc.Close()
		if js, err := nc.JetStream(); err != nil {
			log.Warn("jetstream init, analytics disabled", zap.Error(err))
		} else {
			events = analytics.New(js, log)
		}
	}

	verifier := auth.JWTVerifier{Secret: authCfg.JWTSecret}

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{
		ReadyFunc: func() error { return pool.Ping(context.Background()) },
	})

	r.Post("/v1/auth/register", handlers.Register(accounts, events))
	r.Post("/v1/auth/login", handlers.Login(accounts, events))

	r.Get("/v1/alfajores", handlers.ListAlfajores(alfajores))
	r.Get("/v1/alfajores/{alfajor_id}", handlers.GetAlfajor(alfajores, events))
	r.Get("/v1/alfajores/{alfajor_id}/reviews", handlers.ListAlfajorReviews(reviewSvc))

	r.Get("/v1/stats/top-rated", handlers.TopRated(statsSvc))
	r.Get("/v1/stats/most-reviewed", handlers.MostReviewed(statsSvc))

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier))
		r.Get("/v1/auth/me", handlers.Me(users))
		r.Post("/v1/alfajores", handlers.CreateAlfajor(alfajores, events))
		r.Post("/v1/reviews", handlers.CreateReview(reviewSvc, events))
		r.Put("/v1/reviews/{review_id}", handlers.UpdateReview(reviewSvc, events))
		r.Delete("/v1/reviews/{review_id}", handlers.DeleteReview(reviewSvc, events))
		r.Get("/v1/stats/me", handlers.MyStats(statsSvc))
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, Router: r})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}
