package handlers

import (
	"net/http"
	"property-estimate-service/internal/api/dto"
	"property-estimate-service/internal/domain"
	"property-estimate-service/internal/services"
	"strconv"
	"strings"
)

type ServiceHandler struct {
	Calc *services.Calculator
}

// List returns the pricing table.
func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	rules := h.Calc.Rules()

	res := dto.ListServicesResponse{Services: make([]dto.ServiceResponse, 0, len(rules))}
	for _, sr := range rules {
		res.Services = append(res.Services, dto.ServiceResponse{
			ID:          sr.ID,
			Label:       sr.Rule.Label,
			Source:      string(sr.Rule.Source),
			RatePerSqFt: sr.Rule.RatePerSqFt,
			Minimum:     sr.Rule.Minimum,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Estimate prices a service for the given areas without a session.
// Missing areas use the default sizes.
func (h *ServiceHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	service := strings.TrimSpace(q.Get("service"))
	if service == "" {
		writeError(w, r, http.StatusBadRequest, "service is required")
		return
	}

	var loc domain.Location
	for _, f := range []struct {
		name string
		dst  **float64
	}{
		{"parcel_sqft", &loc.ParcelSqFt},
		{"building_sqft", &loc.BuildingSqFt},
	} {
		raw := strings.TrimSpace(q.Get(f.name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, f.name+" must be a number")
			return
		}
		*f.dst = domain.Float(v)
	}

	price, ok := h.Calc.ComputeEstimate(service, loc)
	if !ok {
		writeError(w, r, http.StatusUnprocessableEntity, "no estimate for this service and size")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.EstimateResponse{Service: service, Estimate: price})
}
