package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"property-estimate-service/internal/platform/db"
	"property-estimate-service/internal/ports"
)

// SQL-backed implementation of the ParcelRepository port.
type SQLParcelRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLParcelRepository(conn *sql.DB, dialect db.Dialect) *SQLParcelRepository {
	return &SQLParcelRepository{DB: conn, Dialect: dialect}
}

// Return all parcels stored in the database.
func (s *SQLParcelRepository) ListParcels(ctx context.Context) ([]ports.Parcel, error) {
	if s.DB == nil {
		return nil, errors.New("parcel repository: DB is nil")
	}

	query := `
	SELECT
		parcel_id,
		address,
		lat,
		lon,
		parcel_sqft,
		building_sqft
	FROM parcels
	ORDER BY parcel_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list parcels: query parcels table: %w", err)
	}
	defer rows.Close()

	parcels := make([]ports.Parcel, 0, 64)
	for rows.Next() {
		var p ports.Parcel
		if err := rows.Scan(&p.ID, &p.Address, &p.Lat, &p.Lon, &p.ParcelSqFt, &p.BuildingSqFt); err != nil {
			return nil, fmt.Errorf("list parcels: scan row: %w", err)
		}
		parcels = append(parcels, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list parcels: row iteration: %w", err)
	}

	return parcels, nil
}

// UpsertParcels inserts or replaces parcels in a single transaction.
func (s *SQLParcelRepository) UpsertParcels(ctx context.Context, parcels []ports.Parcel) error {
	if s.DB == nil {
		return errors.New("parcel repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert parcels: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	INSERT INTO parcels (parcel_id, address, lat, lon, parcel_sqft, building_sqft)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (parcel_id) DO UPDATE
	SET address = excluded.address,
		lat = excluded.lat,
		lon = excluded.lon,
		parcel_sqft = excluded.parcel_sqft,
		building_sqft = excluded.building_sqft;
	`))
	if err != nil {
		return fmt.Errorf("upsert parcels: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range parcels {
		if _, err := stmt.ExecContext(ctx, p.ID, p.Address, p.Lat, p.Lon, p.ParcelSqFt, p.BuildingSqFt); err != nil {
			return fmt.Errorf("upsert parcels: insert parcel_id=%s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert parcels: commit tx: %w", err)
	}

	return nil
}
