package cli

import (
	"fmt"
	"text/tabwriter"

	"region-latency-demo/internal/app"

	"github.com/spf13/cobra"
)

func newCountCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "count [region...]",
		Short: "Print the number of seeded users per region",
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

			codes := args
			if len(codes) == 0 {
				codes = a.Regions.Codes()
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "REGION\tUSERS")
			for _, code := range codes {
				count, err := a.Seeder.RecordCount(cmd.Context(), code)
				if err != nil {
					tw.Flush()
					return err
				}
				fmt.Fprintf(tw, "%s\t%d\n", code, count)
			}
			return tw.Flush()
		},
	}
}
