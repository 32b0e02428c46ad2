package config

import "time"

// ServerConfig holds the REST and gRPC listener configuration
type ServerConfig struct {
	// HTTP listen address (host:port)
	Address string `mapstructure:"address" validate:"required,nefield=GRPCAddress"`

	// gRPC listen address of the distance service
	GRPCAddress string `mapstructure:"grpc_address" validate:"required"`

	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"required"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}

// ReferenceConfig locates the reference data catalog
type ReferenceConfig struct {
	// YAML catalog of ports, vessels, commodities, currencies, units, prices and corridors
	CatalogPath string `mapstructure:"catalog_path" validate:"required"`
}
