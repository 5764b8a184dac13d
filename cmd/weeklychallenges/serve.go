package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"weekly-challenges/internal/auth"
	"weekly-challenges/internal/config"
	"weekly-challenges/internal/httpapi"
	"weekly-challenges/internal/logging"
	"weekly-challenges/internal/metrics"
	"weekly-challenges/internal/repository"
	"weekly-challenges/internal/service"
)

const shutdownTimeout = 10 * time.Second

type ServeCmd struct{}

func (c *ServeCmd) Run(globals *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, db, err := bootstrap(globals)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("db handle: %w", err)
	}
	defer sqlDB.Close()

	if err := repository.Migrate(db); err != nil {
		return err
	}

	if cfg.InsecureSecret() {
		log.Warn("SECRET_KEY is not set: tokens are signed with the public fallback key, do not deploy this configuration")
	}

	tokens, err := auth.NewTokenService([]byte(cfg.SecretKey), cfg.Algorithm, cfg.TokenTTL())
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	entryRepo := repository.NewDailyEntryRepository(db)

	authSvc, err := service.NewAuthService(userRepo, tokens, cfg.TokenTTL())
	if err != nil {
		return fmt.Errorf("auth service: %w", err)
	}
	m := metrics.New()

	handler := httpapi.NewRouter(httpapi.Deps{
		Auth:           authSvc,
		Challenges:     service.NewChallengeService(challengeRepo),
		Days:           service.NewDayService(challengeRepo, entryRepo),
		Progress:       service.NewProgressService(challengeRepo, entryRepo),
		Metrics:        m,
		Log:            log,
		AllowedOrigins: cfg.AllowedOrigins(),
		Ping:           sqlDB.PingContext,
	})

	if cfg.StatsInterval > 0 {
		stats := service.NewStatsService(userRepo, challengeRepo, m, log.WithField("component", "stats"))
		scheduler := service.NewSchedulerService(time.UTC, log)
		if _, err := scheduler.ScheduleInterval(cfg.StatsInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := stats.Report(jobCtx); err != nil {
				log.WithError(err).Warn("stats report failed")
			}
		}); err != nil {
			return fmt.Errorf("schedule stats: %w", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("weekly challenges API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("shutdown complete")
	return nil
}

// bootstrap loads config, builds the logger and opens the database.
func bootstrap(globals *Globals) (config.Config, *logrus.Logger, *gorm.DB, error) {
	cfg, err := config.Load(globals.EnvFile)
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("config: %w", err)
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("logging: %w", err)
	}
	db, err := repository.NewDB(cfg.DatabaseURL, log)
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("db: %w", err)
	}
	return cfg, log, db, nil
}
