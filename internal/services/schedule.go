package services

import (
	"errors"
	"fmt"
	"net/url"
	"property-estimate-service/internal/domain"
	"strconv"
	"time"
)

var ErrNotReady = errors.New("quote has no estimate")

// SchedulingURL builds the link the continue action navigates to.
func SchedulingURL(base string, q domain.Quote, now time.Time) (string, error) {
	if q.Service == "" || q.Estimate == nil {
		return "", ErrNotReady
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("scheduling url: parse base %q: %w", base, err)
	}

	params := u.Query()
	params.Set("service", q.Service)
	params.Set("estimate", strconv.Itoa(*q.Estimate))
	params.Set("address", q.Location.Address)
	params.Set("lat", formatFloat(&q.Location.Lat))
	params.Set("lon", formatFloat(&q.Location.Lon))
	params.Set("parcelSqFt", formatFloat(q.Location.ParcelSqFt))
	params.Set("buildingSqFt", formatFloat(q.Location.BuildingSqFt))
	params.Set("timestamp", now.UTC().Format(time.RFC3339))
	u.RawQuery = params.Encode()

	return u.String(), nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
