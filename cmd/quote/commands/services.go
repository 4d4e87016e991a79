package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func servicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List services and their rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSERVICE\tAREA\tRATE\tMINIMUM")
			for _, sr := range calc.Rules() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t$%.2f/sqft\t$%.0f\n",
					sr.ID, sr.Rule.Label, sr.Rule.Source, sr.Rule.RatePerSqFt, sr.Rule.Minimum)
			}
			return tw.Flush()
		},
	}
}
