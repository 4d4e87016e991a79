package commands

import (
	"github.com/spf13/cobra"

	"property-estimate-service/internal/services"
)

var calc = services.DefaultCalculator()

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "quote",
		Short:        "Price exterior cleaning services for a property",
		SilenceUsage: true,
	}

	root.AddCommand(servicesCmd(), estimateCmd(), addressCmd())
	return root
}
