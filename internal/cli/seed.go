package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"region-latency-demo/internal/app"
	"region-latency-demo/internal/seeder"

	"github.com/spf13/cobra"
)

func newSeedCommand(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "seed [region...]",
		Short: "Seed the given regions, or every configured region one after another",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.config(cmd)
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			var reports []*seeder.Report
			if len(args) == 0 {
				reports, err = a.Seeder.SeedAll(cmd.Context())
			} else {
				for _, code := range args {
					var report *seeder.Report
					report, err = a.Seeder.SeedRegion(cmd.Context(), code)
					if err != nil {
						err = fmt.Errorf("failed to seed region %s: %w", code, err)
						break
					}
					reports = append(reports, report)
				}
			}

			if printErr := printReports(cmd.OutOrStdout(), reports, asJSON); printErr != nil {
				return printErr
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print reports as JSON")
	return cmd
}

func printReports(w io.Writer, reports []*seeder.Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REGION\tPHASE\tROWS\tELAPSED")
	for _, report := range reports {
		for _, phase := range report.Phases {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", report.Region, phase.Phase, phase.Rows, phase.Elapsed)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", report.Region, "total", report.TotalRows, report.Elapsed)
	}
	return tw.Flush()
}
