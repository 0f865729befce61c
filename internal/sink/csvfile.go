package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"weatherwatch/internal/weather"
)

// ObservationCSVSink dumps the retained observation sequence to
// <dir>/<timestamp>_weather.csv for downstream analysis.
type ObservationCSVSink struct {
	dir string
}

func NewObservationCSVSink(dir string) *ObservationCSVSink {
	return &ObservationCSVSink{dir: dir}
}

func (s *ObservationCSVSink) Name() string { return "observations-csv" }

func (s *ObservationCSVSink) Sink(ctx context.Context, r *weather.WeatherReport) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.dir, fileStamp(r.GeneratedAt)+"_weather.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create observations file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "temp_f", "feelslike_f", "humidity", "precip_mm", "wind_mph", "sunrise", "sunset"}); err != nil {
		return err
	}
	for _, o := range r.Observations {
		row := []string{
			o.Time.Format(time.RFC3339),
			formatFloat(o.TempF),
			formatFloat(o.FeelsLikeF),
			formatFloat(o.Humidity),
			formatFloat(o.PrecipMM),
			formatFloat(o.WindMPH),
			o.Sunrise.Format(time.RFC3339),
			o.Sunset.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write observations file: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
