package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"property-estimate-service/internal/api"
	"property-estimate-service/internal/app"
	"property-estimate-service/internal/config"
	"property-estimate-service/internal/services"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQL or Redis caches, ORS or Azure Maps, the
// parcel index) behind ports and starts the HTTP server.
func main() {
	if !config.LoadDotEnv() {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	svc, err := services.NewQuoteService(a.Resolver, services.NewSessionStore(cfg.SessionTTL), services.QuoteOptions{
		Office:         a.Office(),
		GIS:            a.Parcels,
		Listener:       services.LogListener{},
		Debounce:       cfg.Debounce,
		ResolveTimeout: a.ResolveTimeout(),
	})
	if err != nil {
		log.Fatal(err)
	}
	defer svc.Close()

	go sweepSessions(ctx, svc, time.Minute)

	router := api.NewRouter(svc, svc.Calculator(), cfg.ScheduleURL)

	// Timeouts cover a cold-cache geocode plus route lookup.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown failed: err=%v", err)
		}
	}()

	log.Printf("Server listening addr=:%s maps=%s", cfg.Port, cfg.MapsProvider)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}

func sweepSessions(ctx context.Context, svc *services.QuoteService, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := svc.Sweep(); n > 0 {
				log.Printf("expired quotes: count=%d", n)
			}
		}
	}
}
