// Package redis provides convenient helpers for connecting to a Redis server.
//
// The package wraps the go-redis client and adds:
//
//   - Robust `Connect` which retries the connection using the supplied
//     configuration.
//   - Health-check helpers to integrate Redis into liveness / readiness
//     probes.
//
// The presence package builds its cross-process tracker on the client
// returned from Connect.
//
// Configuration is described by the `Config` struct whose fields are
// populated from environment variables.
//
// # Usage
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    // handle error, probably terminate the application
//	}
//	defer client.Close()
//
//	tracker := presence.NewRedisTracker(client)
//
// Register a health-check in your observability stack:
//
//	checker := redis.Healthcheck(client)
//	if err := checker(ctx); err != nil {
//	    // redis is not healthy
//	}
//
// # Errors
//
// The package wraps go-redis failures in its own sentinels (ErrInvalidURL,
// ErrUnavailable, ErrHealthcheck), so callers can classify them with
// errors.Is while the underlying cause stays unwrappable.
package redis
