package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"property-estimate-service/internal/domain"
	"property-estimate-service/internal/ports"
	"strings"
)

type ParcelSeed struct {
	ParcelID     string  `json:"parcel_id"`
	Address      string  `json:"address"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	ParcelSqFt   float64 `json:"parcel_sqft"`
	BuildingSqFt float64 `json:"building_sqft"`
}

// LoadParcelSeeds reads and validates parcel records from a JSON file.
func LoadParcelSeeds(jsonPath string) ([]ports.Parcel, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed parcels: read %q: %w", jsonPath, err)
	}

	var data []ParcelSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed parcels: parse json: %w", err)
	}

	rows := make([]ports.Parcel, 0, len(data))
	for i, item := range data {
		id := strings.TrimSpace(item.ParcelID)
		if id == "" {
			return nil, fmt.Errorf("seed parcels: item at index %d: parcel_id cannot be empty", i+1)
		}

		if !(domain.Coordinates{Lat: item.Lat, Lon: item.Lon}).Valid() {
			return nil, fmt.Errorf("seed parcels: parcel_id=%s: invalid coordinates (%v, %v)", id, item.Lat, item.Lon)
		}

		if item.ParcelSqFt < 0 || item.BuildingSqFt < 0 {
			return nil, fmt.Errorf("seed parcels: parcel_id=%s: areas must not be negative", id)
		}

		rows = append(rows, ports.Parcel{
			ID:           id,
			Address:      strings.TrimSpace(item.Address),
			Lat:          item.Lat,
			Lon:          item.Lon,
			ParcelSqFt:   item.ParcelSqFt,
			BuildingSqFt: item.BuildingSqFt,
		})
	}

	return rows, nil
}

// Populate the parcels table from a JSON file.
func SeedFromJSON(ctx context.Context, repo *SQLParcelRepository, jsonPath string) (int, error) {
	parcels, err := LoadParcelSeeds(jsonPath)
	if err != nil {
		return 0, err
	}

	if err := repo.UpsertParcels(ctx, parcels); err != nil {
		return 0, fmt.Errorf("seed parcels: %w", err)
	}

	return len(parcels), nil
}
