package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/voyage-estimator/internal/infrastructure/config"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "voyage-estimator",
		Short: "Voyage estimator - price cargoes against the fleet",
		Long: `Voyage estimator builds voyage schedules for cargo contracts, prices
bunkers and running costs, and ranks the fleet by final profit.

Commands run in-process against the configured database and reference
catalog. 'serve' exposes the same operations over REST.

Examples:
  voyage-estimator analyze --cargo cargo.yaml
  voyage-estimator analyze --cargo cargo.yaml --vessel 1 --save --reference SOY-2025-01
  voyage-estimator estimate list
  voyage-estimator estimate show
  voyage-estimator estimate export --out estimate.xlsx
  voyage-estimator distance Santos Qingdao
  voyage-estimator serve`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml, ./configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(NewAnalyzeCommand())
	rootCmd.AddCommand(NewEstimateCommand())
	rootCmd.AddCommand(NewCatalogCommand())
	rootCmd.AddCommand(NewDistanceCommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewHealthCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadApp loads configuration and wires the application. Unless serving,
// logs go to stderr so command output stays clean.
func loadApp(serving bool) (*App, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if !serving && cfg.Logging.Output == "stdout" {
		cfg.Logging.Output = "stderr"
	}
	return NewApp(cfg)
}
