package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/i474232898/urbo/internal/common"
	"github.com/i474232898/urbo/internal/planning"
)

// PostgresStore is a planning.Store backed by PostGIS-enabled Postgres.
// Each Save is its own autocommitted statement.
type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewConnectionPool creates a pgx v5 connection pool for url.
func NewConnectionPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	return pgxpool.NewWithConfig(ctx, cfg)
}

// NewPostgresStore creates a PostgresStore on an existing pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, now: time.Now}
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresStore) stamp(id *uuid.UUID, createdAt *time.Time) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	if createdAt.IsZero() {
		*createdAt = s.now().UTC()
	}
}

const insertGeocode = `
INSERT INTO geocode (id, address, latitude, longitude, ref_location, geocode_response, created_at)
VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($4, $3), 4326), $5, $6)`

// SaveGeocode inserts a geocode record.
func (s *PostgresStore) SaveGeocode(ctx context.Context, rec planning.GeocodeRecord) (planning.GeocodeRecord, error) {
	s.stamp(&rec.ID, &rec.CreatedAt)
	_, err := s.pool.Exec(ctx, insertGeocode,
		rec.ID, rec.Address, rec.Latitude, rec.Longitude, jsonArg(rec.Raw), rec.CreatedAt)
	if err != nil {
		return planning.GeocodeRecord{}, fmt.Errorf("insert geocode: %w", err)
	}
	return rec, nil
}

const selectGeocodeByAddress = `
SELECT id, address, latitude, longitude, geocode_response, created_at
FROM geocode
WHERE address = $1
ORDER BY created_at, id
LIMIT 1`

// FindGeocodeByAddress returns the oldest record whose address matches exactly.
func (s *PostgresStore) FindGeocodeByAddress(ctx context.Context, address string) (planning.GeocodeRecord, error) {
	var (
		rec planning.GeocodeRecord
		raw []byte
	)
	err := s.pool.QueryRow(ctx, selectGeocodeByAddress, address).
		Scan(&rec.ID, &rec.Address, &rec.Latitude, &rec.Longitude, &raw, &rec.CreatedAt)
	if err != nil {
		return planning.GeocodeRecord{}, notFound(err, "select geocode")
	}
	rec.Raw = raw
	return rec, nil
}

const insertNearbyPlaces = `
INSERT INTO nearby_places (id, keywords, ref_latitude, ref_longitude, ref_location, radius, region, nearby_places_response, created_at)
VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($4, $3), 4326)::geography, $5, $6, $7, $8)`

// SaveNearbyPlaces inserts a places record with its keywords in delimited form.
func (s *PostgresStore) SaveNearbyPlaces(ctx context.Context, rec planning.NearbyPlacesRecord) (planning.NearbyPlacesRecord, error) {
	s.stamp(&rec.ID, &rec.CreatedAt)
	kw := common.JoinKeywords(rec.Keywords)
	_, err := s.pool.Exec(ctx, insertNearbyPlaces,
		rec.ID, kw, rec.RefLocation.Lat, rec.RefLocation.Lon, rec.Radius, rec.Region, jsonArg(rec.Raw), rec.CreatedAt)
	if err != nil {
		return planning.NearbyPlacesRecord{}, fmt.Errorf("insert nearby places: %w", err)
	}
	rec.Keywords = common.SplitKeywords(kw)
	return rec, nil
}

const selectNearbyPlaces = `
SELECT id, keywords, ref_latitude, ref_longitude, radius, region, nearby_places_response, created_at
FROM nearby_places
WHERE keywords = $1 AND ref_latitude = $2 AND ref_longitude = $3 AND radius = $4 AND region = $5
ORDER BY created_at, id
LIMIT 1`

// FindNearbyPlaces returns the oldest record matching every query field exactly.
func (s *PostgresStore) FindNearbyPlaces(ctx context.Context, q planning.NearbyPlacesQuery) (planning.NearbyPlacesRecord, error) {
	var (
		rec planning.NearbyPlacesRecord
		kw  string
		raw []byte
	)
	err := s.pool.QueryRow(ctx, selectNearbyPlaces,
		common.JoinKeywords(q.Keywords), q.RefLocation.Lat, q.RefLocation.Lon, q.Radius, q.Region).
		Scan(&rec.ID, &kw, &rec.RefLocation.Lat, &rec.RefLocation.Lon, &rec.Radius, &rec.Region, &raw, &rec.CreatedAt)
	if err != nil {
		return planning.NearbyPlacesRecord{}, notFound(err, "select nearby places")
	}
	rec.Keywords = common.SplitKeywords(kw)
	rec.Raw = raw
	return rec, nil
}

const insertAirQuality = `
INSERT INTO airpollution (id, latitude, longitude, center_coordinates, air_pollution_response, created_at)
VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($5, $4), 4326), $6, $7)`

// SaveAirQuality inserts an air-quality record.
func (s *PostgresStore) SaveAirQuality(ctx context.Context, rec planning.AirQualityRecord) (planning.AirQualityRecord, error) {
	s.stamp(&rec.ID, &rec.CreatedAt)
	if len(rec.Snapshots) == 0 {
		rec.Snapshots = json.RawMessage(`[]`)
	}
	_, err := s.pool.Exec(ctx, insertAirQuality,
		rec.ID, rec.Center.Lat, rec.Center.Lon, rec.ReportedCenter.Lat, rec.ReportedCenter.Lon,
		[]byte(rec.Snapshots), rec.CreatedAt)
	if err != nil {
		return planning.AirQualityRecord{}, fmt.Errorf("insert air quality: %w", err)
	}
	return rec, nil
}

const selectAirQuality = `
SELECT id, latitude, longitude,
       COALESCE(ST_Y(center_coordinates), latitude), COALESCE(ST_X(center_coordinates), longitude),
       air_pollution_response, created_at
FROM airpollution
WHERE latitude = $1 AND longitude = $2
ORDER BY created_at, id
LIMIT 1`

// FindAirQuality returns the oldest record centered exactly on center.
func (s *PostgresStore) FindAirQuality(ctx context.Context, center planning.Point) (planning.AirQualityRecord, error) {
	var (
		rec planning.AirQualityRecord
		raw []byte
	)
	err := s.pool.QueryRow(ctx, selectAirQuality, center.Lat, center.Lon).
		Scan(&rec.ID, &rec.Center.Lat, &rec.Center.Lon, &rec.ReportedCenter.Lat, &rec.ReportedCenter.Lon, &raw, &rec.CreatedAt)
	if err != nil {
		return planning.AirQualityRecord{}, notFound(err, "select air quality")
	}
	rec.Snapshots = raw
	return rec, nil
}

const insertStaticMap = `
INSERT INTO stillmap (id, latitude, longitude, center, zoom, size, map_img, created_at)
VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($3, $2), 4326), $4, $5, $6, $7)`

// SaveStaticMap inserts a static map record with the image bytes inline.
func (s *PostgresStore) SaveStaticMap(ctx context.Context, rec planning.StaticMapRecord) (planning.StaticMapRecord, error) {
	s.stamp(&rec.ID, &rec.CreatedAt)
	_, err := s.pool.Exec(ctx, insertStaticMap,
		rec.ID, rec.Center.Lat, rec.Center.Lon, rec.Zoom, rec.Size, rec.Image, rec.CreatedAt)
	if err != nil {
		return planning.StaticMapRecord{}, fmt.Errorf("insert static map: %w", err)
	}
	return rec, nil
}

const selectStaticMap = `
SELECT id, latitude, longitude, zoom, size, map_img, created_at
FROM stillmap
WHERE latitude = $1 AND longitude = $2
ORDER BY created_at, id
LIMIT 1`

// FindStaticMap returns the oldest record centered exactly on center.
func (s *PostgresStore) FindStaticMap(ctx context.Context, center planning.Point) (planning.StaticMapRecord, error) {
	var rec planning.StaticMapRecord
	err := s.pool.QueryRow(ctx, selectStaticMap, center.Lat, center.Lon).
		Scan(&rec.ID, &rec.Center.Lat, &rec.Center.Lon, &rec.Zoom, &rec.Size, &rec.Image, &rec.CreatedAt)
	if err != nil {
		return planning.StaticMapRecord{}, notFound(err, "select static map")
	}
	return rec, nil
}

// jsonArg passes an empty payload as SQL NULL.
func jsonArg(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

func notFound(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return planning.ErrNoRecord
	}
	return fmt.Errorf("%s: %w", op, err)
}
