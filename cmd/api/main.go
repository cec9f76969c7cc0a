package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	httpadp "loanverse/internal/adapter/http"
	mw "loanverse/internal/adapter/middleware"
	"loanverse/internal/adapter/store/gormstore"
	"loanverse/internal/adapter/store/redisstore"
	"loanverse/internal/auth"
	"loanverse/internal/config"
	"loanverse/internal/domain/store"
	"loanverse/internal/infrastructure/cache"
	"loanverse/internal/infrastructure/db"
	"loanverse/internal/usecase/analytics"
	identityuc "loanverse/internal/usecase/identity"
	"loanverse/internal/usecase/marketplace"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	st, rdb, err := openStore(cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	ctx := context.Background()
	idUC, err := identityuc.NewUsecase(ctx, st, tm)
	if err != nil {
		log.Fatalf("identity: %v", err)
	}
	mkUC, err := marketplace.NewUsecase(ctx, st)
	if err != nil {
		log.Fatalf("marketplace: %v", err)
	}
	anUC := analytics.NewUsecase(mkUC)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger(), echomw.Recover())

	handlers := httpadp.Handlers{
		Base:      httpadp.NewHandler(),
		Auth:      httpadp.NewAuthHandler(idUC),
		Offers:    httpadp.NewOfferHandler(mkUC),
		Admin:     httpadp.NewAdminHandler(idUC, mkUC),
		Analytics: httpadp.NewAnalyticsHandler(anUC),
	}

	// The idempotency guard needs redis; it only runs when redis is the
	// configured backend.
	var extra []echo.MiddlewareFunc
	if rdb != nil {
		extra = append(extra, mw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))
	}
	httpadp.RegisterRoutes(e, tm, handlers, extra...)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s (storage=%s)", addr, cfg.StorageBackend)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

func openStore(cfg *config.Config) (store.Store, *redis.Client, error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.New(rdb), rdb, nil
	case config.BackendMySQL:
		gdb, err := db.OpenMySQL(cfg.MySQLDSN())
		if err != nil {
			return nil, nil, err
		}
		st, err := gormstore.New(gdb)
		return st, nil, err
	default: // sqlite
		gdb, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		st, err := gormstore.New(gdb)
		return st, nil, err
	}
}
