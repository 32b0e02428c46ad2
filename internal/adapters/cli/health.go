package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type healthResponse struct {
	Code int `json:"code"`
	Data struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
	} `json:"data"`
}

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check a running server's health",
		Long:  `Verify that a 'voyage-estimator serve' instance is running and responsive.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			health, err := probeHealth(ctx, server)
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "✓ Server is healthy")
			fmt.Fprintf(out, "  Status:          %s\n", health.Data.Status)
			fmt.Fprintf(out, "  Open sessions:   %d\n", health.Data.Sessions)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "Server base URL")
	return cmd
}

func probeHealth(ctx context.Context, server string) (*healthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(server, "/")+"/health", nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("malformed health response: %w", err)
	}
	return &health, nil
}
