package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
)

// NewCatalogCommand creates the catalog command with subcommands
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the reference catalog",
		Long: `List the ports, vessels and bunker prices estimates are built from.

Examples:
  voyage-estimator catalog ports
  voyage-estimator catalog ships --all
  voyage-estimator catalog prices`,
	}

	cmd.AddCommand(newCatalogPortsCommand())
	cmd.AddCommand(newCatalogShipsCommand())
	cmd.AddCommand(newCatalogPricesCommand())

	return cmd
}

func newCatalogPortsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List ports",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(false)
			if err != nil {
				return err
			}
			defer app.Close()

			ports, err := app.Catalog.Ports(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tName\tCountry\tLat\tLon\tSECA\tEurope")
			fmt.Fprintln(w, "──\t────\t───────\t───\t───\t────\t──────")
			for _, p := range ports {
				fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%.2f\t%t\t%t\n",
					p.ID, p.Name, p.Country, p.Latitude, p.Longitude, p.IsSeca, p.IsEurope)
			}
			return w.Flush()
		},
	}
}

func newCatalogShipsCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "ships",
		Short: "List vessels",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(false)
			if err != nil {
				return err
			}
			defer app.Close()

			ships, err := app.Catalog.Ships(cmd.Context(), !all)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tName\tDWT\tBallast kn\tLaden kn\tOpen port\tOpen date\tGrades")
			fmt.Fprintln(w, "──\t────\t───\t──────────\t────────\t─────────\t─────────\t──────")
			for _, s := range ships {
				grades := make([]string, 0, len(s.Grades))
				for _, g := range s.Grades {
					grades = append(grades, g.Grade)
				}
				fmt.Fprintf(w, "%d\t%s\t%.0f\t%.1f\t%.1f\t%s\t%s\t%s\n",
					s.ID, s.Name, s.DWT, s.BallastSpeed, s.LadenSpeed, s.OpenPort, s.OpenDate, strings.Join(grades, ","))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include inactive vessels")
	return cmd
}

func newCatalogPricesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prices",
		Short: "List average bunker prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(false)
			if err != nil {
				return err
			}
			defer app.Close()

			prices, err := app.Catalog.AverageBunkerPrices(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "Grade\tAverage price")
			fmt.Fprintln(w, "─────\t─────────────")
			for _, p := range prices {
				fmt.Fprintf(w, "%s\t%s\n", p.Grade, formatMoney(p.AveragePrice))
			}
			return w.Flush()
		},
	}
}

// NewDistanceCommand creates the distance command
func NewDistanceCommand() *cobra.Command {
	var via string

	cmd := &cobra.Command{
		Use:   "distance <from> <to>",
		Short: "Resolve the sailing distance between two ports",
		Long: `Ask the configured distance client for one port pair.

Examples:
  voyage-estimator distance Santos Qingdao
  voyage-estimator distance Rotterdam Qingdao --via "Cape of Good Hope"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(false)
			if err != nil {
				return err
			}
			defer app.Close()

			results, err := app.Distances.GetPortDistance(app.Context(cmd.Context()), []routing.PortPairRequest{{
				FromPort:     args[0],
				ToPort:       args[1],
				RoutingPoint: via,
			}})
			if err != nil {
				return err
			}
			if len(results) == 0 || results[0].Distance == 0 {
				return fmt.Errorf("no route known between %s and %s", args[0], args[1])
			}

			r := results[0]
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s -> %s: %.0f nm (%.0f nm SECA)\n", r.FromPort, r.ToPort, r.Distance, r.SecaDistance)
			for _, rp := range r.RoutingPoints {
				alternates := make([]string, 0, len(rp.AlternateRPs))
				for _, alt := range rp.AlternateRPs {
					alternates = append(alternates, alt.Name)
				}
				fmt.Fprintf(out, "  via %s", rp.Name)
				if len(alternates) > 0 {
					fmt.Fprintf(out, " (alternates: %s)", strings.Join(alternates, ", "))
				}
				fmt.Fprintln(out)
			}
			for _, seg := range r.Segments {
				fmt.Fprintf(out, "  %s -> %s: %.0f nm\n", seg.FromPort, seg.ToPort, seg.Distance)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&via, "via", "", "Requested routing point")
	return cmd
}
