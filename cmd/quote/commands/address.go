package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"property-estimate-service/internal/app"
	"property-estimate-service/internal/config"
	"property-estimate-service/internal/domain"
	"property-estimate-service/internal/services"
)

func addressCmd() *cobra.Command {
	var service string

	cmd := &cobra.Command{
		Use:   "address TEXT",
		Short: "Resolve an address through the configured maps provider and price it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadDotEnv()
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			a, err := app.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), a.ResolveTimeout())
			defer cancel()

			svc, err := services.NewQuoteService(a.Resolver, services.NewSessionStore(time.Hour), services.QuoteOptions{
				Office:         a.Office(),
				GIS:            a.Parcels,
				ResolveTimeout: a.ResolveTimeout(),
			})
			if err != nil {
				return err
			}
			defer svc.Close()

			q, err := svc.NewQuote(ctx)
			if err != nil {
				return err
			}
			if _, err := svc.SelectService(q.ID, service); err != nil {
				return err
			}
			if q, err = svc.SubmitAddress(ctx, q.ID, args[0]); err != nil {
				return err
			}

			printQuote(cmd.OutOrStdout(), q)

			link, err := svc.Confirm(q.ID, cfg.ScheduleURL)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schedule:    %s\n", link)
			return nil
		},
	}

	cmd.Flags().StringVar(&service, "service", "", "service id (run quote services for the list)")
	_ = cmd.MarkFlagRequired("service")
	return cmd
}

func printQuote(w io.Writer, q domain.Quote) {
	loc := q.Location
	fmt.Fprintf(w, "Address:     %s\n", loc.Address)
	fmt.Fprintf(w, "Coordinates: %.5f, %.5f\n", loc.Lat, loc.Lon)
	fmt.Fprintf(w, "Parcel:      %s\n", sqft(loc.ParcelSqFt))
	fmt.Fprintf(w, "Building:    %s\n", sqft(loc.BuildingSqFt))
	if loc.DistanceMiles != nil && loc.TravelMinutes != nil {
		fmt.Fprintf(w, "Travel:      %.1f mi, %.0f min\n", *loc.DistanceMiles, *loc.TravelMinutes)
	}
	if q.Estimate != nil {
		fmt.Fprintf(w, "Estimate:    %s $%d\n", q.Service, *q.Estimate)
	}
}

func sqft(v *float64) string {
	if v == nil {
		return "unknown (default size used)"
	}
	return fmt.Sprintf("%.0f sq ft", *v)
}
