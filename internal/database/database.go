/*
Package database manages the Postgres connection pool backing the saved-
routine store. The service is optional: without a configured DSN the server
falls back to in-memory persistence.
*/
package database

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
)

// Service represents a service that interacts with the database.
type Service interface {
	// Health returns a map of health status information.
	Health() map[string]string

	// Close terminates the database connection pool.
	Close()

	// Pool exposes the underlying connection pool.
	Pool() *pgxpool.Pool
}

type service struct {
	pool *pgxpool.Pool
}

// DSN assembles the connection string from the environment. Empty when no
// database is configured.
func DSN() string {
	host := os.Getenv("VITAPLAN_DB_HOST")
	if host == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("VITAPLAN_DB_USERNAME"),
		os.Getenv("VITAPLAN_DB_PASSWORD"),
		host,
		os.Getenv("VITAPLAN_DB_PORT"),
		os.Getenv("VITAPLAN_DB_DATABASE"),
	)
}

// Connect opens the pool and verifies the connection.
func Connect(ctx context.Context, dsn string) (Service, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &service{pool: pool}, nil
}

func (s *service) Pool() *pgxpool.Pool {
	return s.pool
}

// Health checks the health of the database connection and reports pool
// statistics.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	poolStats := s.pool.Stat()
	stats["status"] = "up"
	stats["total_conns"] = strconv.Itoa(int(poolStats.TotalConns()))
	stats["idle_conns"] = strconv.Itoa(int(poolStats.IdleConns()))
	stats["acquired_conns"] = strconv.Itoa(int(poolStats.AcquiredConns()))
	stats["max_conns"] = strconv.Itoa(int(poolStats.MaxConns()))
	stats["acquire_count"] = strconv.FormatInt(poolStats.AcquireCount(), 10)

	if poolStats.AcquiredConns() > (poolStats.MaxConns() * 8 / 10) { // 80% capacity
		stats["message"] = "The database connection pool is experiencing heavy load."
	}

	return stats
}

// Close closes the database connection pool.
func (s *service) Close() {
	s.pool.Close()
}
