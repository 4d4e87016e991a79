package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"property-estimate-service/internal/domain"
)

func estimateCmd() *cobra.Command {
	var (
		service  string
		parcel   float64
		building float64
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Price a service offline from known areas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var loc domain.Location
			if cmd.Flags().Changed("parcel") {
				loc.ParcelSqFt = domain.Float(parcel)
			}
			if cmd.Flags().Changed("building") {
				loc.BuildingSqFt = domain.Float(building)
			}

			price, ok := calc.ComputeEstimate(service, loc)
			if !ok {
				return fmt.Errorf("no estimate for service %q", service)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: $%d\n", service, price)
			return nil
		},
	}

	cmd.Flags().StringVar(&service, "service", "", "service id (run quote services for the list)")
	cmd.Flags().Float64Var(&parcel, "parcel", 0, "parcel area in sq ft (default size when omitted)")
	cmd.Flags().Float64Var(&building, "building", 0, "building footprint in sq ft (default size when omitted)")
	_ = cmd.MarkFlagRequired("service")
	return cmd
}
