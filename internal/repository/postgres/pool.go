package postgres

import (
	"context"
	"fmt"

	"github.com/aidka-pyramidka/post-in-a-social-media/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool 根据配置创建 Postgres 连接池
func NewPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsnFor(config.AppConfig.DBName))
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}

	cfg.MaxConns = 25

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}

func dsnFor(dbName string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		dbName)
}
