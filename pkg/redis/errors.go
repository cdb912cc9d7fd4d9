package redis

import "errors"

var (
	ErrInvalidURL  = errors.New("redis: invalid connection URL")
	ErrUnavailable = errors.New("redis: server did not become ready")
	ErrHealthcheck = errors.New("redis: healthcheck failed")
)
