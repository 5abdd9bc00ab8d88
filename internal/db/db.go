// Package db provides a pgxpool-based connection pool with prepared statement
// registration and schema bootstrap for the card tables.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/cardgraph/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Create the tables and register prepared statements on every new
	// connection. The statements reference the tables, so order matters.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		if err := EnsureSchema(ctx, conn); err != nil {
			return err
		}
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// schema creates the card tables when missing.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS ` + config.CardTeamsTable + ` (
		name       TEXT PRIMARY KEY,
		color      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS ` + config.CardPlayersTable + ` (
		name       TEXT PRIMARY KEY,
		teams      TEXT[] NOT NULL,
		years      INT[] NOT NULL,
		card_count INT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS ` + config.CardConnectionsTable + ` (
		player TEXT NOT NULL,
		team   TEXT NOT NULL,
		year   INT NOT NULL,
		PRIMARY KEY (player, team, year)
	)`,
}

// Execer is satisfied by *pgx.Conn, *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// EnsureSchema creates the card tables if they do not exist.
func EnsureSchema(ctx context.Context, db Execer) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// registerPreparedStatements registers every statement the seed command uses.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Seed: upserts
		"upsert_team": `INSERT INTO ` + config.CardTeamsTable + ` (name, color) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET color = EXCLUDED.color, updated_at = NOW()`,
		"upsert_player": `INSERT INTO ` + config.CardPlayersTable + ` (name, teams, years, card_count) VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO UPDATE SET
				teams = EXCLUDED.teams,
				years = EXCLUDED.years,
				card_count = EXCLUDED.card_count,
				updated_at = NOW()`,
		"insert_connection": `INSERT INTO ` + config.CardConnectionsTable + ` (player, team, year) VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING`,

		// Seed: prune rows that are no longer generated
		"prune_teams":   `DELETE FROM ` + config.CardTeamsTable + ` WHERE NOT (name = ANY($1::text[]))`,
		"prune_players": `DELETE FROM ` + config.CardPlayersTable + ` WHERE NOT (name = ANY($1::text[]))`,
		"prune_connections": `DELETE FROM ` + config.CardConnectionsTable + ` c WHERE NOT EXISTS (
			SELECT 1 FROM unnest($1::text[], $2::text[], $3::int[]) AS k(player, team, year)
			WHERE k.player = c.player AND k.team = c.team AND k.year = c.year)`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
