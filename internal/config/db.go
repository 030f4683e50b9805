package config

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DBConfig holds database connection parameters
type DBConfig struct {
	DSN             string
	ConnectRetries  uint64
	ConnectInterval time.Duration
}

// LoadDBConfig loads database configuration from environment variables.
// DATABASE_URL wins over the individual DB_* variables.
func LoadDBConfig() (*DBConfig, error) {
	retries := getEnvInt64("DB_CONNECT_RETRIES", 5)
	if retries < 0 {
		return nil, fmt.Errorf("DB_CONNECT_RETRIES must not be negative, got %d", retries)
	}
	cfg := &DBConfig{
		ConnectRetries:  uint64(retries),
		ConnectInterval: getEnvDuration("DB_CONNECT_INTERVAL", 5*time.Second),
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DSN = url
		return cfg, nil
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	if dbHost == "" || dbPort == "" || dbUser == "" || dbName == "" {
		return nil, fmt.Errorf("database environment variables not set (DATABASE_URL or DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}

	cfg.DSN = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName)
	return cfg, nil
}

// ConnectDB establishes a connection pool to PostgreSQL, retrying while the
// database is not reachable yet.
func ConnectDB(ctx context.Context, cfg *DBConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	poolCfg.MaxConns = 10
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.HealthCheckPeriod = 30 * time.Second

	var pool *pgxpool.Pool
	attempt := 0
	backoff := retry.WithMaxRetries(cfg.ConnectRetries, retry.NewConstant(cfg.ConnectInterval))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		p, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = p.Ping(ctx); err == nil {
				pool = p
				return nil
			}
			p.Close()
		}
		logger.Warn("failed to connect to database, retrying",
			"attempt", attempt, "interval", cfg.ConnectInterval, "error", err)
		return retry.RetryableError(err)
	})
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", attempt, err)
	}

	logger.Info("connected to PostgreSQL")
	return pool, nil
}

// Migrate applies the embedded goose migrations to the database behind pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("unable to apply migrations: %w", err)
	}

	logger.Info("migrations applied successfully")
	return nil
}
