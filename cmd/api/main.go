package main

import (
	"context"

	"github.com/abhishek622/devvault/internal/auth"
	"github.com/abhishek622/devvault/internal/cache"
	"github.com/abhishek622/devvault/internal/config"
	"github.com/abhishek622/devvault/internal/database"
	"github.com/abhishek622/devvault/internal/handler"
	"github.com/abhishek622/devvault/internal/logger"
	"github.com/abhishek622/devvault/internal/markdown"
	"github.com/abhishek622/devvault/internal/repository"
	"github.com/abhishek622/devvault/pkg"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

type application struct {
	DB      *pgxpool.Pool
	Logger  *zap.Logger
	Config  *config.Config
	Handler *handler.Handler
}

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, _ := logger.NewLogger(cfg.Env)
	defer log.Sync()
	sugar := log.Sugar()
	sugar.Infof("config loaded, env=%s", cfg.Env)

	pool, err := database.Connect(ctx, cfg.DB.DSN, database.Options{
		MaxConns:    cfg.DB.MaxConns,
		MaxConnLife: cfg.DB.MaxConnLife,
	})
	if err != nil {
		sugar.Fatal(err)
	}
	defer pool.Close()

	if cfg.DB.ApplySchema {
		if err := database.ApplySchema(ctx, pool); err != nil {
			sugar.Fatal(err)
		}
		sugar.Info("schema applied")
	}

	var listingCache *cache.ListingCache
	if cfg.CacheEnabled() {
		rdb := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := cache.Ping(ctx, rdb); err != nil {
			sugar.Warnf("redis unreachable, listing cache disabled: %v", err)
		} else {
			listingCache = cache.NewListingCache(rdb, cfg.Redis.TTL)
			sugar.Infof("listing cache enabled, addr=%s ttl=%s", cfg.Redis.Addr, cfg.Redis.TTL)
		}
	}

	crypto, err := pkg.NewCrypto(cfg.Crypto.Secret)
	if err != nil {
		sugar.Fatal(err)
	}

	repo := repository.NewRepository(pool)

	handlerApp := &handler.Handler{
		Logger:       log,
		Store:        repo,
		Cache:        listingCache,
		Markdown:     markdown.NewRenderer(),
		TokenMaker:   auth.NewJWTMaker(cfg.Session.JWTSecret),
		Crypto:       crypto,
		SessionTTL:   cfg.Session.TTL,
		CookieName:   cfg.Session.CookieName,
		CookieSecure: cfg.Session.Secure,
	}

	app := &application{
		DB:      pool,
		Logger:  log,
		Config:  cfg,
		Handler: handlerApp,
	}

	if err := app.serve(); err != nil {
		sugar.Fatal(err)
	}
}
