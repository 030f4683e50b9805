// Package health aggregates readiness checks of the service's dependencies.
package health

import (
	"context"
	"time"
)

// Checker represents a dependency health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// Service runs every checker on Report.
type Service struct {
	checkers []Checker
}

// NewService aggregates dependency checkers.
func NewService(checkers ...Checker) *Service {
	return &Service{checkers: checkers}
}

// Report runs all checkers and returns "ok" or the error text per checker name.
func (s *Service) Report(ctx context.Context) (map[string]string, bool) {
	report := make(map[string]string, len(s.checkers))
	healthy := true
	for _, ch := range s.checkers {
		if err := ch.Check(ctx); err != nil {
			report[ch.Name()] = err.Error()
			healthy = false
			continue
		}
		report[ch.Name()] = "ok"
	}
	return report, healthy
}

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PostgresChecker pings the connection pool with a one second timeout.
type PostgresChecker struct {
	pool Pinger
}

func NewPostgresChecker(pool Pinger) *PostgresChecker {
	return &PostgresChecker{pool: pool}
}

func (c *PostgresChecker) Name() string { return "postgres" }

func (c *PostgresChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return c.pool.Ping(ctx)
}
