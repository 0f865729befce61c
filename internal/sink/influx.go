package sink

import (
	"context"
	"fmt"
	"time"

	client "github.com/influxdata/influxdb/client/v2"

	"weatherwatch/internal/weather"
)

// InfluxConfig describes the connection settings for an InfluxDB sink.
type InfluxConfig struct {
	Addr     string
	Username string
	Password string
	Database string
}

// InfluxSink writes the flat export record to InfluxDB as one point per
// cycle, tagged with the location identity.
type InfluxSink struct {
	conn     client.Client
	database string
}

func NewInfluxSink(cfg InfluxConfig) (*InfluxSink, error) {
	conn, err := client.NewHTTPClient(client.HTTPConfig{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create InfluxDB client: %w", err)
	}
	return &InfluxSink{conn: conn, database: cfg.Database}, nil
}

func (s *InfluxSink) Name() string { return "influxdb" }

func (s *InfluxSink) Sink(ctx context.Context, r *weather.WeatherReport) error {
	record, err := r.FlatRecord()
	if err != nil {
		return err
	}

	tags := map[string]string{
		"zip_code": r.Location.ZipCode,
		"name":     r.Location.Name,
		"region":   r.Location.Region,
		"country":  r.Location.Country,
	}

	bp, err := client.NewBatchPoints(client.BatchPointsConfig{
		Database:  s.database,
		Precision: "s",
	})
	if err != nil {
		return fmt.Errorf("could not create a point batch for InfluxDB: %w", err)
	}

	pt, err := client.NewPoint("weather_report", tags, influxFields(record), r.GeneratedAt)
	if err != nil {
		return fmt.Errorf("could not create data point for InfluxDB: %w", err)
	}
	bp.AddPoint(pt)

	if err := s.conn.Write(bp); err != nil {
		return fmt.Errorf("could not write point batch to InfluxDB: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (s *InfluxSink) Close() error {
	return s.conn.Close()
}

// influxFields narrows the flat record to field types InfluxDB accepts:
// timestamps become RFC3339 strings, absent values are dropped, and the
// tag-duplicated identity strings stay out of the field set.
func influxFields(record map[string]any) map[string]any {
	fields := make(map[string]any, len(record))
	for k, v := range record {
		switch k {
		case "zip_code", "name", "region", "country":
			continue
		}
		switch val := v.(type) {
		case nil:
			continue
		case time.Time:
			fields[k] = val.Format(time.RFC3339)
		default:
			fields[k] = val
		}
	}
	return fields
}
