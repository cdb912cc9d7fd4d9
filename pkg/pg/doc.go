// Package pg provides utilities for interacting with PostgreSQL using the
// pgx/v5 driver. It offers a thin abstraction around connection pooling,
// migrations, health checks, and common error helpers so the storage layers
// can bootstrap a resilient database connection with a few lines of code.
//
// The package exposes three cooperating building blocks:
//
//   - Config – a declarative struct whose fields are populated from
//     environment variables. It controls connection pool limits, health-check
//     cadence, and migration paths.
//
//   - Connect – opens a *pgxpool.Pool based on Config, retrying with
//     backoff until the database becomes available.
//
//   - Migrate – runs goose schema migrations against the same connection
//     pool, guaranteeing the notifications, preferences, and subscriptions
//     tables exist before the service starts serving traffic.
//
// # Usage
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    panic(err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//	    panic(err)
//	}
//
// # Error Handling
//
// Helpers such as [pg.IsNotFound] and [pg.IsDuplicateKey] classify errors
// returned by pgx so the storage implementations can translate them into
// their own sentinels.
package pg
