package config

import (
	"fmt"
	"io"
	"os"
)

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Log format: json, text
	Format string `mapstructure:"format" validate:"required,oneof=json text"`

	// Output destination: stdout, stderr, file
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr file"`

	// File path (required if output is "file")
	FilePath string `mapstructure:"file_path" validate:"required_if=Output file"`
}

// OpenOutput returns the configured log destination and a function closing it
func (c LoggingConfig) OpenOutput() (io.Writer, func() error, error) {
	noop := func() error { return nil }
	switch c.Output {
	case "stderr":
		return os.Stderr, noop, nil
	case "file":
		f, err := os.OpenFile(c.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return f, f.Close, nil
	default:
		return os.Stdout, noop, nil
	}
}
