package redis

import "time"

// Config controls the client connection and the startup retry loop.
type Config struct {
	URL             string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
	ConnectAttempts int           `env:"REDIS_CONNECT_ATTEMPTS" envDefault:"3"`
	ConnectBackoff  time.Duration `env:"REDIS_CONNECT_BACKOFF" envDefault:"5s"`
	ConnectTimeout  time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}
