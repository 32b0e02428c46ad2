package config

import "time"

// DistanceConfig selects and tunes the distance service client
type DistanceConfig struct {
	// Transport: "local" resolves in-process from the reference catalog,
	// "http" and "grpc" call a distance service
	Transport string `mapstructure:"transport" validate:"required,oneof=local http grpc"`

	// HTTP base URL of the distance service
	Address string `mapstructure:"address" validate:"omitempty,url"`

	// gRPC address (host:port)
	GRPCAddress string `mapstructure:"grpc_address"`

	// Per-request timeout
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`

	RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`
	Retry          RetryConfig          `mapstructure:"retry"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`

	// Optional Redis URL memoizing resolved corridors on the service side
	RedisURL string `mapstructure:"redis_url" validate:"redisurl"`

	// Great-circle distances are multiplied by this to approximate sea routes
	RouteFactor float64 `mapstructure:"route_factor" validate:"min=1"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Maximum requests per second
	Requests int `mapstructure:"requests" validate:"min=1"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" validate:"min=1"`
}

// RetryConfig holds retry configuration for failed requests
type RetryConfig struct {
	// Maximum number of retry attempts
	MaxAttempts int `mapstructure:"max_attempts" validate:"min=0"`

	// Base duration for exponential backoff
	BackoffBase time.Duration `mapstructure:"backoff_base"`
}

// CircuitBreakerConfig holds circuit breaker thresholds
type CircuitBreakerConfig struct {
	// Consecutive failures before the circuit opens
	MaxFailures int `mapstructure:"max_failures" validate:"min=1"`

	// Time the circuit stays open before a trial request
	ResetTimeout time.Duration `mapstructure:"reset_timeout" validate:"required"`
}
