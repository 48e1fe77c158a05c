package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"geniehr/internal/domain/auth"
	"geniehr/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return err
	}
	if cfg.Environment == "production" {
		return nil
	}
	return ensureDemoWorkers(ctx, pool)
}

// ensureDemoWorkers loads a small roster in non-production environments so
// batch creation has payees to work with out of the box.
func ensureDemoWorkers(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM workers").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	workers := []struct {
		name       string
		workerType string
		country    string
		currency   string
		gross      float64
	}{
		{"Maria Santos", "employee", "Philippines", "PHP", 85000},
		{"Jonas Weber", "employee", "Germany", "EUR", 5200},
		{"Priya Nair", "contractor", "India", "EUR", 3100},
		{"Lucas Almeida", "employee", "Brazil", "BRL", 9800},
		{"Emma Clarke", "employee", "United Kingdom", "GBP", 4300},
	}
	for _, w := range workers {
		if _, err := pool.Exec(ctx, `
      INSERT INTO workers (full_name, worker_type, country, currency, monthly_gross, status, payroll_ready)
      VALUES ($1, $2, $3, $4, $5, 'active', true)
    `, w.name, w.workerType, w.country, w.currency, w.gross); err != nil {
			return err
		}
	}
	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	err = pool.QueryRow(ctx, "INSERT INTO users (email, password_hash, status) VALUES ($1, $2, 'active') RETURNING id", email, hash).Scan(&id)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, "INSERT INTO user_roles (user_id, role) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING", id, auth.RoleAdmin)
	return err
}
