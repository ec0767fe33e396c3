package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/swaranjjalii/daily-execution-app/internal/api"
	"github.com/swaranjjalii/daily-execution-app/internal/repository"
	"github.com/swaranjjalii/daily-execution-app/internal/service"
	"github.com/swaranjjalii/daily-execution-app/pkg/cleanup"
	"github.com/swaranjjalii/daily-execution-app/pkg/config"
	"github.com/swaranjjalii/daily-execution-app/pkg/logger"
)

func main() {
	cfg := config.New()
	l, logCloser, err := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		log.Fatal("setting up logger error: ", err)
	}
	slog.SetDefault(l)
	cleanup.Register(&cleanup.Job{Name: "closing log file", F: logCloser.Close})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv := openStore(ctx, cfg)
	repo := repository.NewUserDataRepo(kv, cfg.StorageKey, repository.WithLogger(l))
	serv := api.New(&api.ServicesList{
		StreakService: service.NewStreakService(repo, service.WithLogger(l)),
	})
	if err := serv.Run(ctx, cfg.APIAddress); err != nil {
		slog.Error("server error", slog.String("error", err.Error()))
	}
	cleanup.CleanUp()
}

// openStore connects the configured backend. A backend that cannot be reached
// leaves the app running without persistence.
func openStore(ctx context.Context, cfg *config.Config) repository.KVStoreI {
	storeLog := slog.With(slog.String("backend", cfg.StorageBackend))
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		kv, err := repository.OpenSQLiteKV(ctx, cfg.SQLitePath)
		if err != nil {
			storeLog.Warn("opening storage error", slog.String("error", err.Error()))
			return nil
		}
		cleanup.Register(&cleanup.Job{Name: "closing sqlite kv", F: kv.Close})
		return kv
	case config.BackendPostgres:
		kv, err := repository.NewPostgresKV(ctx, &repository.PGCfg{
			Address:  cfg.PostgresAddress,
			Username: cfg.PostgresUser,
			Password: cfg.PostgresPassword,
			DB:       cfg.PostgresDB,
		})
		if err != nil {
			storeLog.Warn("opening storage error", slog.String("error", err.Error()))
			return nil
		}
		return kv
	case config.BackendRedis:
		kv, err := repository.NewRedisKV(ctx, &repository.RedisCfg{
			Address:  cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			storeLog.Warn("opening storage error", slog.String("error", err.Error()))
			return nil
		}
		cleanup.Register(&cleanup.Job{Name: "closing redis client", F: kv.Close})
		return kv
	default:
		storeLog.Warn("persistence disabled")
		return nil
	}
}
