package planning

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Point is a WGS 84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// WKT renders the point in the POINT(lon lat) form used by the geometry columns.
func (p Point) WKT() string {
	return fmt.Sprintf("POINT(%v %v)", p.Lon, p.Lat)
}

// GeocodeRecord is one persisted forward or reverse geocode lookup.
type GeocodeRecord struct {
	ID        uuid.UUID       `json:"id"`
	Address   string          `json:"address"`
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	Raw       json.RawMessage `json:"geocode_response"`
	CreatedAt time.Time       `json:"created_at"`
}

// Location returns the record's coordinate.
func (g GeocodeRecord) Location() Point {
	return Point{Lat: g.Latitude, Lon: g.Longitude}
}

// NearbyPlacesRecord is one persisted places search.
type NearbyPlacesRecord struct {
	ID          uuid.UUID       `json:"id"`
	Keywords    []string        `json:"keywords"`
	RefLocation Point           `json:"ref_location"`
	Radius      int             `json:"radius"`
	Region      string          `json:"region"`
	Raw         json.RawMessage `json:"nearby_places_response"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PlaceCount returns the number of suggested locations in the raw payload.
// Payloads that don't carry the list count as zero.
func (n NearbyPlacesRecord) PlaceCount() int {
	var payload struct {
		SuggestedLocations []json.RawMessage `json:"suggestedLocations"`
	}
	if err := json.Unmarshal(n.Raw, &payload); err != nil {
		return 0
	}
	return len(payload.SuggestedLocations)
}

// NearbyPlacesQuery identifies a places search. Two queries are the same
// lookup only when every field is equal.
type NearbyPlacesQuery struct {
	Keywords    []string
	RefLocation Point
	Radius      int
	Region      string
}

// PollutantSnapshot is the typed view of one provider reading. Components
// stays raw so pollutants the provider omitted are not reported as zero.
type PollutantSnapshot struct {
	Main struct {
		AQI int `json:"aqi"`
	} `json:"main"`
	Components json.RawMessage `json:"components"`
	Dt         int64           `json:"dt"`
}

// Timestamp returns the reading time in UTC.
func (s PollutantSnapshot) Timestamp() time.Time {
	return time.Unix(s.Dt, 0).UTC()
}

// AirQualityRecord is one persisted air-quality lookup. Center is the
// requested coordinate and the lookup key; ReportedCenter is the coordinate
// the provider answered for. Snapshots is the provider's raw list.
type AirQualityRecord struct {
	ID             uuid.UUID       `json:"id"`
	Center         Point           `json:"requested_coordinates"`
	ReportedCenter Point           `json:"center_coordinates"`
	Snapshots      json.RawMessage `json:"air_pollution_response"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Current decodes the first reading of the list. ok is false when the
// list is empty.
func (a AirQualityRecord) Current() (snap PollutantSnapshot, ok bool, err error) {
	var list []json.RawMessage
	if len(a.Snapshots) > 0 {
		if err := json.Unmarshal(a.Snapshots, &list); err != nil {
			return snap, false, fmt.Errorf("decode air pollution list: %w", err)
		}
	}
	if len(list) == 0 {
		return snap, false, nil
	}
	if err := json.Unmarshal(list[0], &snap); err != nil {
		return snap, false, fmt.Errorf("decode air pollution reading: %w", err)
	}
	return snap, true, nil
}

// StaticMapRecord is one persisted still map image.
type StaticMapRecord struct {
	ID        uuid.UUID `json:"id"`
	Center    Point     `json:"center"`
	Zoom      int       `json:"zoom"`
	Size      string    `json:"size"`
	Image     []byte    `json:"map_img"`
	CreatedAt time.Time `json:"created_at"`
}
