package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/urbo/internal/common"
	"github.com/i474232898/urbo/internal/planning"
)

type nearbyRow struct {
	keywords string
	rec      planning.NearbyPlacesRecord
}

// MemoryStore is a concurrency-safe in-memory planning.Store.
// Rows are append-only and kept in insertion order.
type MemoryStore struct {
	mu sync.RWMutex

	geocodes   []planning.GeocodeRecord
	nearby     []nearbyRow
	airQuality []planning.AirQualityRecord
	staticMaps []planning.StaticMapRecord

	now func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) stamp(id *uuid.UUID, createdAt *time.Time) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	if createdAt.IsZero() {
		*createdAt = s.now().UTC()
	}
}

// SaveGeocode appends a geocode record.
func (s *MemoryStore) SaveGeocode(_ context.Context, rec planning.GeocodeRecord) (planning.GeocodeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(&rec.ID, &rec.CreatedAt)
	rec.Raw = cloneBytes(rec.Raw)
	s.geocodes = append(s.geocodes, rec)
	return rec, nil
}

// FindGeocodeByAddress returns the oldest record whose address matches exactly.
func (s *MemoryStore) FindGeocodeByAddress(_ context.Context, address string) (planning.GeocodeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.geocodes {
		if rec.Address == address {
			return rec, nil
		}
	}
	return planning.GeocodeRecord{}, planning.ErrNoRecord
}

// SaveNearbyPlaces appends a places record. Keywords go through the same
// delimited form the Postgres store uses.
func (s *MemoryStore) SaveNearbyPlaces(_ context.Context, rec planning.NearbyPlacesRecord) (planning.NearbyPlacesRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(&rec.ID, &rec.CreatedAt)
	kw := common.JoinKeywords(rec.Keywords)
	rec.Keywords = common.SplitKeywords(kw)
	rec.Raw = cloneBytes(rec.Raw)
	s.nearby = append(s.nearby, nearbyRow{keywords: kw, rec: rec})
	return rec, nil
}

// FindNearbyPlaces returns the oldest record matching every query field exactly.
func (s *MemoryStore) FindNearbyPlaces(_ context.Context, q planning.NearbyPlacesQuery) (planning.NearbyPlacesRecord, error) {
	kw := common.JoinKeywords(q.Keywords)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, row := range s.nearby {
		if row.keywords == kw &&
			row.rec.RefLocation == q.RefLocation &&
			row.rec.Radius == q.Radius &&
			row.rec.Region == q.Region {
			return row.rec, nil
		}
	}
	return planning.NearbyPlacesRecord{}, planning.ErrNoRecord
}

// SaveAirQuality appends an air-quality record.
func (s *MemoryStore) SaveAirQuality(_ context.Context, rec planning.AirQualityRecord) (planning.AirQualityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(&rec.ID, &rec.CreatedAt)
	rec.Snapshots = cloneBytes(rec.Snapshots)
	s.airQuality = append(s.airQuality, rec)
	return rec, nil
}

// FindAirQuality returns the oldest record centered exactly on center.
func (s *MemoryStore) FindAirQuality(_ context.Context, center planning.Point) (planning.AirQualityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.airQuality {
		if rec.Center == center {
			return rec, nil
		}
	}
	return planning.AirQualityRecord{}, planning.ErrNoRecord
}

// SaveStaticMap appends a static map record.
func (s *MemoryStore) SaveStaticMap(_ context.Context, rec planning.StaticMapRecord) (planning.StaticMapRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(&rec.ID, &rec.CreatedAt)
	rec.Image = cloneBytes(rec.Image)
	s.staticMaps = append(s.staticMaps, rec)
	return rec, nil
}

// FindStaticMap returns the oldest record centered exactly on center.
func (s *MemoryStore) FindStaticMap(_ context.Context, center planning.Point) (planning.StaticMapRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.staticMaps {
		if rec.Center == center {
			return rec, nil
		}
	}
	return planning.StaticMapRecord{}, planning.ErrNoRecord
}

// Counts reports how many rows each table holds.
func (s *MemoryStore) Counts() (geocodes, nearby, airQuality, staticMaps int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.geocodes), len(s.nearby), len(s.airQuality), len(s.staticMaps)
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
