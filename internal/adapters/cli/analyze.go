package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/voyage-estimator/internal/application/estimate/commands"
	"github.com/andrescamacho/voyage-estimator/internal/domain/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/vessel"
)

// NewAnalyzeCommand creates the analyze command
func NewAnalyzeCommand() *cobra.Command {
	var (
		cargoPath string
		vesselIDs []int
		currency  string
		save      bool
		reference string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Rank the fleet for one or more cargoes",
		Long: `Build a voyage schedule for every candidate vessel, price it and rank
the vessels by final profit.

The cargo file is YAML or JSON: either a list of cargoes or a document
with a 'cargoes' key. Without --vessel every active ship is a candidate.

Examples:
  voyage-estimator analyze --cargo cargo.yaml
  voyage-estimator analyze --cargo cargo.yaml --vessel 1 --vessel 2
  voyage-estimator analyze --cargo cargo.yaml --save --reference SOY-2025-01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cargoes, err := readCargoes(cargoPath)
			if err != nil {
				return err
			}

			app, err := loadApp(false)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx := app.Context(cmd.Context())

			vessels, err := selectVessels(ctx, app, vesselIDs)
			if err != nil {
				return err
			}
			if currency == "" {
				currency = defaultCurrency()
			}

			resp, err := app.Mediator.Send(ctx, &commands.AnalyzeCargoCommand{
				Cargoes:  cargoes,
				Vessels:  vessels,
				Currency: currency,
			})
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}
			doc := resp.(*commands.AnalyzeCargoResponse).Document

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(doc); err != nil {
					return err
				}
			} else {
				printRanking(out, doc)
			}

			if !save {
				return nil
			}
			return saveDocument(ctx, cmd, app, "", reference, doc)
		},
	}

	cmd.Flags().StringVar(&cargoPath, "cargo", "", "Cargo file (YAML or JSON) [required]")
	cmd.Flags().IntSliceVar(&vesselIDs, "vessel", nil, "Candidate vessel id (repeatable)")
	cmd.Flags().StringVar(&currency, "currency", "", "Analysis currency (default: user config, then cargo)")
	cmd.Flags().BoolVar(&save, "save", false, "Save the analysis as an estimate")
	cmd.Flags().StringVar(&reference, "reference", "", "Estimate reference when saving")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the analysis document as JSON")
	_ = cmd.MarkFlagRequired("cargo")

	return cmd
}

func selectVessels(ctx context.Context, app *App, ids []int) ([]vessel.Vessel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	fleet, err := app.Catalog.Ships(ctx, false)
	if err != nil {
		return nil, err
	}
	selected := make([]vessel.Vessel, 0, len(ids))
	for _, id := range ids {
		v, ok := estimate.FindVessel(fleet, id, "")
		if !ok {
			return nil, fmt.Errorf("vessel %d not found in the reference catalog", id)
		}
		selected = append(selected, *v)
	}
	return selected, nil
}

func saveDocument(ctx context.Context, cmd *cobra.Command, app *App, id, reference string, doc estimate.AnalysisDocument) error {
	resp, err := app.Mediator.Send(ctx, &commands.SaveEstimateCommand{
		ID:        id,
		Reference: reference,
		Document:  doc,
	})
	if err != nil {
		return fmt.Errorf("failed to save estimate: %w", err)
	}
	saved := resp.(*commands.SaveEstimateResponse)
	if !saved.Validation.IsValid {
		return fmt.Errorf("estimate not saved:\n  - %s", strings.Join(saved.Validation.Messages, "\n  - "))
	}

	if err := rememberEstimate(saved.Estimate.ID); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to remember estimate: %v\n", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nEstimate saved: %s\n", saved.Estimate.ID)
	return nil
}

func printRanking(out io.Writer, doc estimate.AnalysisDocument) {
	fmt.Fprintf(out, "Fleet ranking (%s)\n\n", doc.Currency)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tVessel\tDWT\tSuitable\tRevenue\tVoyage cost\tFinal profit\tTCE\tDays")
	fmt.Fprintln(w, "─\t──────\t───\t────────\t───────\t───────────\t────────────\t───\t────")
	for i, a := range doc.AllShips {
		suitable := "yes"
		if !a.Suitable {
			suitable = "no"
		}
		fmt.Fprintf(w, "%d\t%s\t%.0f\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			a.Vessel.Name,
			a.Vessel.DWT,
			suitable,
			formatMoney(a.Finance.Revenue),
			formatMoney(a.Finance.VoyageCost),
			formatMoney(a.Finance.FinalProfit),
			formatMoney(a.Finance.TCE),
			formatDays(a.Finance.TotalDuration),
		)
	}
	w.Flush()

	for _, a := range doc.AllShips {
		for _, warning := range a.Warnings {
			fmt.Fprintf(out, "Warning (%s): %s\n", a.Vessel.Name, warning)
		}
	}
}
