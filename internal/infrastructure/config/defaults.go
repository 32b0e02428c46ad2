package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "voyage-estimator.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "voyage"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "voyage_estimator"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Distance defaults
	if cfg.Distance.Transport == "" {
		cfg.Distance.Transport = "local"
	}
	if cfg.Distance.Address == "" {
		cfg.Distance.Address = "http://localhost:8090"
	}
	if cfg.Distance.GRPCAddress == "" {
		cfg.Distance.GRPCAddress = "localhost:50061"
	}
	if cfg.Distance.Timeout == 0 {
		cfg.Distance.Timeout = 30 * time.Second
	}
	if cfg.Distance.RateLimit.Requests == 0 {
		cfg.Distance.RateLimit.Requests = 5
	}
	if cfg.Distance.RateLimit.Burst == 0 {
		cfg.Distance.RateLimit.Burst = 10
	}
	if cfg.Distance.Retry.MaxAttempts == 0 {
		cfg.Distance.Retry.MaxAttempts = 3
	}
	if cfg.Distance.Retry.BackoffBase == 0 {
		cfg.Distance.Retry.BackoffBase = 500 * time.Millisecond
	}
	if cfg.Distance.CircuitBreaker.MaxFailures == 0 {
		cfg.Distance.CircuitBreaker.MaxFailures = 5
	}
	if cfg.Distance.CircuitBreaker.ResetTimeout == 0 {
		cfg.Distance.CircuitBreaker.ResetTimeout = 60 * time.Second
	}
	if cfg.Distance.RouteFactor == 0 {
		cfg.Distance.RouteFactor = 1.18
	}

	// Reference defaults
	if cfg.Reference.CatalogPath == "" {
		cfg.Reference.CatalogPath = "configs/catalog.yaml"
	}

	// Server defaults
	if cfg.Server.Address == "" {
		cfg.Server.Address = "localhost:8080"
	}
	if cfg.Server.GRPCAddress == "" {
		cfg.Server.GRPCAddress = "localhost:50061"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
