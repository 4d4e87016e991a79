package handlers

import (
	"context"
	"net/http"
	"property-estimate-service/internal/api/dto"
	"property-estimate-service/internal/domain"
	"strings"
)

// QuoteService is the subset of services.QuoteService the handlers need.
type QuoteService interface {
	NewQuote(ctx context.Context) (domain.Quote, error)
	Quote(id string) (domain.Quote, error)
	SelectService(id, service string) (domain.Quote, error)
	SubmitAddress(ctx context.Context, id, text string) (domain.Quote, error)
	SubmitPoint(ctx context.Context, id string, at domain.Coordinates) (domain.Quote, error)
	TypeAddress(id, text string) error
	Confirm(id, base string) (string, error)
}

type QuoteHandler struct {
	Svc         QuoteService
	ScheduleURL string
}

func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	q, err := h.Svc.NewQuote(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toQuoteResponse(q))
}

func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := h.Svc.Quote(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toQuoteResponse(q))
}

func (h *QuoteHandler) SelectService(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectServiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	q, err := h.Svc.SelectService(r.PathValue("id"), req.Service)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toQuoteResponse(q))
}

// SubmitAddress resolves an address immediately, or schedules it when the
// client reports the user is still typing.
func (h *QuoteHandler) SubmitAddress(w http.ResponseWriter, r *http.Request) {
	var req dto.AddressRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id := r.PathValue("id")
	if req.Typing {
		if err := h.Svc.TypeAddress(id, req.Address); err != nil {
			writeServiceError(w, r, err)
			return
		}
		q, err := h.Svc.Quote(id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusAccepted, toQuoteResponse(q))
		return
	}

	if strings.TrimSpace(req.Address) == "" {
		writeError(w, r, http.StatusBadRequest, "address is required")
		return
	}

	q, err := h.Svc.SubmitAddress(r.Context(), id, req.Address)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toQuoteResponse(q))
}

func (h *QuoteHandler) SubmitPoint(w http.ResponseWriter, r *http.Request) {
	var req dto.PointRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Lat == nil || req.Lon == nil {
		writeError(w, r, http.StatusBadRequest, "lat and lon are required")
		return
	}

	at := domain.Coordinates{Lat: *req.Lat, Lon: *req.Lon}
	if !at.Valid() {
		writeError(w, r, http.StatusBadRequest, "lat or lon out of range")
		return
	}

	q, err := h.Svc.SubmitPoint(r.Context(), r.PathValue("id"), at)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toQuoteResponse(q))
}

func (h *QuoteHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	u, err := h.Svc.Confirm(r.PathValue("id"), h.ScheduleURL)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ConfirmResponse{URL: u})
}

func toQuoteResponse(q domain.Quote) dto.QuoteResponse {
	return dto.QuoteResponse{
		ID:          q.ID,
		Service:     q.Service,
		Estimate:    q.Estimate,
		CanContinue: q.CanContinue,
		Location: dto.LocationResponse{
			Lat:           q.Location.Lat,
			Lon:           q.Location.Lon,
			Address:       q.Location.Address,
			ParcelSqFt:    q.Location.ParcelSqFt,
			BuildingSqFt:  q.Location.BuildingSqFt,
			DistanceMiles: q.Location.DistanceMiles,
			TravelMinutes: q.Location.TravelMinutes,
		},
		UpdatedAt: q.UpdatedAt,
	}
}
