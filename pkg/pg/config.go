package pg

import "time"

// Config controls the connection pool, the startup retry loop, and the
// migration runner. The defaults suit a single notification-service
// instance; raise the pool limits for bulk-heavy deployments.
type Config struct {
	DSN               string        `env:"POSTGRES_DSN,required"`
	MaxOpenConns      int32         `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns      int32         `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"5"`
	HealthCheckPeriod time.Duration `env:"POSTGRES_HEALTHCHECK_PERIOD" envDefault:"1m"`
	MaxConnIdleTime   time.Duration `env:"POSTGRES_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime   time.Duration `env:"POSTGRES_MAX_CONN_LIFETIME" envDefault:"30m"`

	ConnectAttempts int           `env:"POSTGRES_CONNECT_ATTEMPTS" envDefault:"3"`
	ConnectBackoff  time.Duration `env:"POSTGRES_CONNECT_BACKOFF" envDefault:"5s"`

	MigrationsPath  string `env:"POSTGRES_MIGRATIONS_PATH" envDefault:"migrations"`
	MigrationsTable string `env:"POSTGRES_MIGRATIONS_TABLE" envDefault:"schema_migrations"`
}
