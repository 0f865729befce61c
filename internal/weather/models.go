package weather

import (
	"fmt"
	"time"
)

// Location is the immutable identity of the place a report was generated for.
// It is used for display and tagging only, never for computation.
type Location struct {
	ZipCode string  `json:"zip_code"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	TzID    string  `json:"tz_id"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s: %s, %s", l.ZipCode, l.Name, l.Region)
}

// Observation is one hour of weather enriched with the sunrise/sunset of its
// own calendar day. A valid sequence is non-empty and strictly ascending by
// Time.
type Observation struct {
	Time       time.Time `json:"time"`
	TempF      float64   `json:"temp_f"`
	FeelsLikeF float64   `json:"feelslike_f"`
	Humidity   float64   `json:"humidity"`
	PrecipMM   float64   `json:"precip_mm"`
	WindMPH    float64   `json:"wind_mph"`
	Sunrise    time.Time `json:"sunrise"`
	Sunset     time.Time `json:"sunset"`
}

// LocationQuery identifies a place to fetch forecasts for. A ZIP code wins
// when present; otherwise coordinates, otherwise "city,country".
type LocationQuery struct {
	ZipCode string
	City    string
	Country string
	Lat     *float64
	Lon     *float64
}

// Query returns the value to pass as the provider's location parameter.
func (q LocationQuery) Query() string {
	if q.ZipCode != "" {
		return q.ZipCode
	}
	if q.Lat != nil && q.Lon != nil {
		return fmt.Sprintf("%f,%f", *q.Lat, *q.Lon)
	}
	if q.Country != "" {
		return fmt.Sprintf("%s,%s", q.City, q.Country)
	}
	return q.City
}

// Key returns a canonical string key for indexing this query in stores.
func (q LocationQuery) Key() string {
	return q.Query()
}
