package db

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"warehouse-backend/internal/config"
)

func DSN(cfg *config.Config) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
	)
}

func Connect(cfg *config.Config) *pgxpool.Pool {
	poolCfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		log.Fatalf("db config invalid: %v", err)
	}
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Database.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	return pool
}
