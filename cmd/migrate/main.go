package main

import (
	"database/sql"
	"log"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/pressly/goose"

	"github.com/swaranjjalii/daily-execution-app/internal/repository"
	"github.com/swaranjjalii/daily-execution-app/pkg/config"
)

// Applies the Postgres schema used by the postgres storage backend.
func main() {
	cfg := config.New()
	pgCfg := repository.PGCfg{
		Address:  cfg.PostgresAddress,
		Username: cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		DB:       cfg.PostgresDB,
	}
	db, err := sql.Open("postgres", pgCfg.ConnString()+"?sslmode=disable")
	if err != nil {
		log.Fatal("opening db error: ", err)
	}
	defer db.Close()
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("goose dialect error: ", err)
	}
	if err := goose.Up(db, cfg.MigrationsDir); err != nil {
		log.Fatal("migrations error: ", err)
	}
	slog.Info("migrations applied", slog.String("dir", cfg.MigrationsDir))
}
