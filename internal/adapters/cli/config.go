package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/voyage-estimator/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage voyage estimator configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (VE_* prefix)
2. Config file (config.yaml)
3. Default values

User preferences (default currency, last saved estimate) are stored in
~/.voyage-estimator/config.json

Examples:
  voyage-estimator config show
  voyage-estimator config set-currency EUR`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCurrencyCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Failed to load config: %v\nUsing default configuration.\n", err)
				cfg = config.LoadConfigOrDefault("")
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Failed to load user config: %v\n", err)
				userCfg = &config.UserConfig{}
			}

			fmt.Fprintln(out, "Voyage Estimator Configuration")
			fmt.Fprintln(out, "==============================")

			fmt.Fprintln(out, "User Preferences:")
			fmt.Fprintf(out, "  Config file:      %s\n", userConfigHandler.GetConfigPath())
			fmt.Fprintf(out, "  Currency:         %s\n", orNotSet(userCfg.DefaultCurrency))
			fmt.Fprintf(out, "  Last estimate:    %s\n", orNotSet(userCfg.LastEstimateID))
			if len(userCfg.RecentEstimateIDs) > 1 {
				fmt.Fprintf(out, "  Recent:           %s\n", strings.Join(userCfg.RecentEstimateIDs, ", "))
			}

			fmt.Fprintln(out, "\nDatabase:")
			fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == "sqlite":
				fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
			default:
				fmt.Fprintf(out, "  Host:             %s:%d\n", cfg.Database.Host, cfg.Database.Port)
				fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
				fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
			}
			fmt.Fprintf(out, "  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)

			fmt.Fprintln(out, "\nDistance Service:")
			fmt.Fprintf(out, "  Transport:        %s\n", cfg.Distance.Transport)
			switch cfg.Distance.Transport {
			case "http":
				fmt.Fprintf(out, "  Address:          %s\n", cfg.Distance.Address)
				fmt.Fprintf(out, "  Rate Limit:       %d req/s (burst: %d)\n",
					cfg.Distance.RateLimit.Requests, cfg.Distance.RateLimit.Burst)
				fmt.Fprintf(out, "  Max Retries:      %d\n", cfg.Distance.Retry.MaxAttempts)
			case "grpc":
				fmt.Fprintf(out, "  Address:          %s\n", cfg.Distance.GRPCAddress)
			default:
				fmt.Fprintf(out, "  Route Factor:     %.2f\n", cfg.Distance.RouteFactor)
			}
			fmt.Fprintf(out, "  Timeout:          %s\n", cfg.Distance.Timeout)
			if cfg.Distance.RedisURL != "" {
				fmt.Fprintf(out, "  Redis:            %s\n", maskPassword(cfg.Distance.RedisURL))
			}

			fmt.Fprintln(out, "\nReference Data:")
			fmt.Fprintf(out, "  Catalog:          %s\n", cfg.Reference.CatalogPath)

			fmt.Fprintln(out, "\nServer:")
			fmt.Fprintf(out, "  Address:          %s\n", cfg.Server.Address)
			fmt.Fprintf(out, "  gRPC Address:     %s\n", cfg.Server.GRPCAddress)

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

			fmt.Fprintln(out, "\nMetrics:")
			fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Metrics.Enabled)
			fmt.Fprintf(out, "  Path:             %s\n", cfg.Metrics.Path)

			return nil
		},
	}
}

func newConfigSetCurrencyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-currency <code>",
		Short: "Set the default analysis currency",
		Long: `Set the currency analyses are priced in when --currency is not given.

Example:
  voyage-estimator config set-currency USD`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(strings.TrimSpace(args[0]))
			if len(code) != 3 {
				return fmt.Errorf("currency must be a three-letter code, got %q", args[0])
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.SetDefaultCurrency(code); err != nil {
				return fmt.Errorf("failed to set default currency: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Default currency set to %s\n", code)
			return nil
		},
	}
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "xxxxx")
	return u.String()
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
