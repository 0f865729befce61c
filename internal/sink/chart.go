package sink

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"weatherwatch/internal/weather"
)

// ChartSink renders the temperature and feels-like series plus the freeze
// threshold to a PNG in <dir>/<timestamp>_weather.png. Rendering is memoized
// per report identity in a cache the sink owns, so the chat sink can reuse
// the same image without re-rendering.
type ChartSink struct {
	dir string

	mu       sync.Mutex
	cachedID string
	cached   []byte
}

func NewChartSink(dir string) *ChartSink {
	return &ChartSink{dir: dir}
}

func (s *ChartSink) Name() string { return "chart-png" }

func (s *ChartSink) Sink(ctx context.Context, r *weather.WeatherReport) error {
	png, err := s.Render(r)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.dir, fileStamp(r.GeneratedAt)+"_weather.png")
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("write chart file: %w", err)
	}
	return nil
}

// Render returns the PNG for the report, rendering at most once per report
// identity.
func (s *ChartSink) Render(r *weather.WeatherReport) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cachedID == r.ID() && s.cached != nil {
		return s.cached, nil
	}

	png, err := renderChart(r)
	if err != nil {
		return nil, err
	}
	s.cachedID = r.ID()
	s.cached = png
	return png, nil
}

func renderChart(r *weather.WeatherReport) ([]byte, error) {
	if len(r.Observations) == 0 {
		return nil, weather.ErrEmptySequence
	}

	times := make([]time.Time, 0, len(r.Observations))
	temps := make([]float64, 0, len(r.Observations))
	feels := make([]float64, 0, len(r.Observations))
	for _, o := range r.Observations {
		times = append(times, o.Time)
		temps = append(temps, o.TempF)
		feels = append(feels, o.FeelsLikeF)
	}

	graph := chart.Chart{
		Title: r.Location.String(),
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("01-02 15:04"),
		},
		YAxis: chart.YAxis{
			Name: "°F",
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "temp_f",
				XValues: times,
				YValues: temps,
			},
			chart.TimeSeries{
				Name:    "feelslike_f",
				XValues: times,
				YValues: feels,
			},
			chart.TimeSeries{
				Name:    "freeze threshold",
				XValues: []time.Time{times[0], times[len(times)-1]},
				YValues: []float64{weather.FreezeThresholdF, weather.FreezeThresholdF},
				Style: chart.Style{
					StrokeColor:     drawing.ColorBlue,
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
