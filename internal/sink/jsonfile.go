package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"weatherwatch/internal/weather"
)

// StatsJSONSink dumps the flat export record to
// <dir>/<timestamp>_weather_stats.json, one file per cycle.
type StatsJSONSink struct {
	dir string
}

func NewStatsJSONSink(dir string) *StatsJSONSink {
	return &StatsJSONSink{dir: dir}
}

func (s *StatsJSONSink) Name() string { return "stats-json" }

func (s *StatsJSONSink) Sink(ctx context.Context, r *weather.WeatherReport) error {
	record, err := r.FlatRecord()
	if err != nil {
		return err
	}

	// Map keys marshal in sorted order.
	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal stats record: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.dir, fileStamp(r.GeneratedAt)+"_weather_stats.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write stats file: %w", err)
	}
	return nil
}

// fileStamp renders a timestamp safe for filenames.
func fileStamp(t time.Time) string {
	return t.Format("20060102T150405")
}
