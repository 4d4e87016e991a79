package api

import (
	"net/http"
	"property-estimate-service/internal/api/handlers"
	"property-estimate-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(svc handlers.QuoteService, calc *services.Calculator, scheduleURL string) http.Handler {
	mux := http.NewServeMux()

	serviceHandler := &handlers.ServiceHandler{Calc: calc}
	quoteHandler := &handlers.QuoteHandler{
		Svc:         svc,
		ScheduleURL: scheduleURL,
	}

	mux.HandleFunc("GET /health", handlers.Health)
	mux.HandleFunc("GET /services", serviceHandler.List)
	mux.HandleFunc("GET /estimate", serviceHandler.Estimate)

	mux.HandleFunc("POST /quotes", quoteHandler.Create)
	mux.HandleFunc("GET /quotes/{id}", quoteHandler.Get)
	mux.HandleFunc("PUT /quotes/{id}/service", quoteHandler.SelectService)
	mux.HandleFunc("POST /quotes/{id}/address", quoteHandler.SubmitAddress)
	mux.HandleFunc("POST /quotes/{id}/point", quoteHandler.SubmitPoint)
	mux.HandleFunc("POST /quotes/{id}/confirm", quoteHandler.Confirm)

	return requestIDMiddleware(loggingMiddleware(mux))
}
