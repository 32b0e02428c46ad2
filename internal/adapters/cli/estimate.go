package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/voyage-estimator/internal/adapters/export"
	"github.com/andrescamacho/voyage-estimator/internal/application/estimate/commands"
	"github.com/andrescamacho/voyage-estimator/internal/application/estimate/queries"
	"github.com/andrescamacho/voyage-estimator/internal/domain/estimate"
)

// NewEstimateCommand creates the estimate command with subcommands
func NewEstimateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Manage saved estimates",
		Long: `Inspect, save, export and generate voyages from saved estimates.

Commands that take an estimate id fall back to the estimate last saved
from this machine.

Examples:
  voyage-estimator estimate list --limit 10
  voyage-estimator estimate show 6f1c...
  voyage-estimator estimate save --file analysis.json --reference SOY-2025-01
  voyage-estimator estimate generate
  voyage-estimator estimate export --out estimate.xlsx`,
	}

	cmd.AddCommand(newEstimateListCommand())
	cmd.AddCommand(newEstimateShowCommand())
	cmd.AddCommand(newEstimateSaveCommand())
	cmd.AddCommand(newEstimateGenerateCommand())
	cmd.AddCommand(newEstimateExportCommand())

	return cmd
}

func newEstimateListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved estimates, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(false)
			if err != nil {
				return err
			}
			defer app.Close()

			resp, err := app.Mediator.Send(app.Context(cmd.Context()), &queries.ListEstimatesQuery{Limit: limit})
			if err != nil {
				return err
			}
			estimates := resp.(*queries.ListEstimatesResponse).Estimates

			out := cmd.OutOrStdout()
			if len(estimates) == 0 {
				fmt.Fprintln(out, "No estimates saved")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tReference\tStatus\tCurrency\tVoyage\tUpdated")
			fmt.Fprintln(w, "──\t─────────\t──────\t────────\t──────\t───────")
			for _, e := range estimates {
				voyage := e.VoyageID
				if voyage == "" {
					voyage = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					e.ID, e.Reference, e.Status, e.Currency, voyage, e.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of estimates to list")
	return cmd
}

func newEstimateShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [estimate-id]",
		Short: "Show the chosen vessel's schedule and finance",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveEstimateID(args)
			if err != nil {
				return err
			}
			app, err := loadApp(false)
			if err != nil {
				return err
			}
			defer app.Close()

			resp, err := app.Mediator.Send(app.Context(cmd.Context()), &queries.GetEstimateQuery{ID: id})
			if err != nil {
				return err
			}
			found := resp.(*queries.GetEstimateResponse)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(found.Document)
			}

			fmt.Fprintf(out, "Estimate %s", found.Estimate.ID)
			if found.Estimate.Reference != "" {
				fmt.Fprintf(out, " (%s)", found.Estimate.Reference)
			}
			fmt.Fprintf(out, " - %s\n\n", found.Estimate.Status)

			chosen, ok := found.Document.Chosen()
			if !ok {
				fmt.Fprintln(out, "No vessel analysed")
				return nil
			}
			printAnalysis(out, *chosen, found.Document.Currency)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the analysis document as JSON")
	return cmd
}

func newEstimateSaveCommand() *cobra.Command {
	var (
		file      string
		id        string
		reference string
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save an analysis document (JSON) as an estimate",
		Long: `Validate and save an analysis document, as printed by
'voyage-estimator analyze --json'. An existing id is updated, an unknown
id is created.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read analysis document: %w", err)
			}
			doc, err := estimate.DecodeDocument(string(data))
			if err != nil {
				return err
			}

			app, err := loadApp(false)
			if err != nil {
				return err
			}
			defer app.Close()

			return saveDocument(app.Context(cmd.Context()), cmd, app, id, reference, doc)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Analysis document file [required]")
	cmd.Flags().StringVar(&id, "id", "", "Estimate id to update")
	cmd.Flags().StringVar(&reference, "reference", "", "Estimate reference")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newEstimateGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate [estimate-id]",
		Short: "Generate the voyage of a saved estimate",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveEstimateID(args)
			if err != nil {
				return err
			}
			app, err := loadApp(false)
			if err != nil {
				return err
			}
			defer app.Close()

			resp, err := app.Mediator.Send(app.Context(cmd.Context()), &commands.GenerateVoyageCommand{EstimateID: id})
			if err != nil {
				return err
			}
			generated := resp.(*commands.GenerateVoyageResponse)
			v := generated.Voyage
			fmt.Fprintf(cmd.OutOrStdout(), "Voyage %s generated for estimate %s\n", v.ID, id)
			fmt.Fprintf(cmd.OutOrStdout(), "  Vessel:  %s\n  Sails:   %s\n  Arrives: %s\n  Profit:  %s %s\n",
				v.VesselName, v.FirstETD, v.LastETA, formatMoney(v.Profit), v.Currency)
			return nil
		},
	}
}

func newEstimateExportCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export [estimate-id]",
		Short: "Export the chosen vessel's schedule and finance to xlsx",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveEstimateID(args)
			if err != nil {
				return err
			}
			app, err := loadApp(false)
			if err != nil {
				return err
			}
			defer app.Close()

			resp, err := app.Mediator.Send(app.Context(cmd.Context()), &queries.GetEstimateQuery{ID: id})
			if err != nil {
				return err
			}
			doc := resp.(*queries.GetEstimateResponse).Document
			chosen, ok := doc.Chosen()
			if !ok {
				return fmt.Errorf("estimate %s has no analysed vessel", id)
			}

			if outPath == "" {
				outPath = fmt.Sprintf("estimate-%s.xlsx", id)
			}
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			if err := export.WriteEstimateWorkbook(f, *chosen, doc.Currency); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default: estimate-<id>.xlsx)")
	return cmd
}

func printAnalysis(out io.Writer, a estimate.ShipAnalysis, currency string) {
	fmt.Fprintf(out, "Vessel: %s (%.0f dwt)\n\n", a.Vessel.Name, a.Vessel.DWT)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tPort\tActivity\tSpeed\tDistance\tSECA\tPort days\tETA\tETD")
	fmt.Fprintln(w, "─\t────\t────────\t─────\t────────\t────\t─────────\t───\t───")
	for i, leg := range a.PortCalls {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.0f\t%.0f\t%s\t%s\t%s\n",
			i+1, leg.PortName, leg.Activity, leg.SpeedSetting,
			leg.Distance, leg.SecDistance, formatDays(leg.PortDays),
			leg.ETA.String(), leg.ETD.String())
	}
	w.Flush()

	m := a.Finance
	fmt.Fprintf(out, "\nFinance (%s)\n", currency)
	fmt.Fprintf(out, "  Revenue:        %s\n", formatMoney(m.Revenue))
	fmt.Fprintf(out, "  Bunker cost:    %s\n", formatMoney(m.BunkerCost))
	fmt.Fprintf(out, "  Voyage cost:    %s\n", formatMoney(m.VoyageCost))
	fmt.Fprintf(out, "  OpEx:           %s\n", formatMoney(m.OpEx))
	fmt.Fprintf(out, "  Final profit:   %s\n", formatMoney(m.FinalProfit))
	fmt.Fprintf(out, "  TCE:            %s/day\n", formatMoney(m.TCE))
	fmt.Fprintf(out, "  Duration:       %s days (%s at sea)\n", formatDays(m.TotalDuration), formatDays(m.SeaDays))
	for _, warning := range a.Warnings {
		fmt.Fprintf(out, "Warning: %s\n", warning)
	}
}
