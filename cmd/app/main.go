package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dungpasoftware/van-edu-be/internal/config"
	"github.com/dungpasoftware/van-edu-be/internal/infra/db/migrations"
	pg "github.com/dungpasoftware/van-edu-be/internal/infra/db/postgres"
	"github.com/dungpasoftware/van-edu-be/internal/infra/logging"
	red "github.com/dungpasoftware/van-edu-be/internal/infra/redis"
	"github.com/dungpasoftware/van-edu-be/internal/infra/sched"
	"github.com/dungpasoftware/van-edu-be/internal/infra/web"
	"github.com/dungpasoftware/van-edu-be/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logging, verbose)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	// ---- Postgres ----
	if err := migrations.Run(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal().Err(err).Msg("apply migrations")
	}
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	userRepo := pg.NewUserRepo(pool)
	packageRepo := pg.NewPackageRepo(pool)
	paymentRepo := pg.NewPaymentRepo(pool)
	categoryRepo := pg.NewCategoryRepo(pool)
	courseRepo := pg.NewCourseRepo(pool)
	lessonRepo := pg.NewLessonRepo(pool)
	tm := pg.NewTxManager(pool)

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo, logger)
	packageUC := usecase.NewPackageUseCase(packageRepo, logger)
	paymentUC := usecase.NewPaymentUseCase(paymentRepo, packageRepo, userRepo, tm, locker, logger)
	authUC := usecase.NewAuthUseCase(userUC, userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, logger)
	contentUC := usecase.NewContentUseCase(categoryRepo, courseRepo, lessonRepo, userRepo, logger)
	_ = packageUC
	_ = authUC
	_ = contentUC

	// ---- Expiry worker ----
	worker := sched.NewExpiryWorker(paymentUC, cfg.Sweeper.Interval, cfg.Sweeper.DailyAt, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Ops HTTP server (health, readiness, metrics) ----
	srv := web.NewServer(cfg.Ops.Port, pool, redisClient, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error().Err(err).Msg("ops server stopped")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("ops server shutdown")
	}
}
