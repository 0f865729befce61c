package weather

import (
	"errors"
	"math"
	"testing"
	"time"
)

func mustTime(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func tempObs(ts string, temp float64) Observation {
	return Observation{Time: mustTime(ts), TempF: temp, Humidity: 80}
}

func TestTimeWindow(t *testing.T) {
	sunrise1 := mustTime("2025-02-22 07:21")
	sunset1 := mustTime("2025-02-22 18:27")
	sunrise2 := mustTime("2025-02-23 07:20")
	sunset2 := mustTime("2025-02-23 18:28")

	seq := []Observation{
		{Time: mustTime("2025-02-22 22:00"), Sunrise: sunrise1, Sunset: sunset1},
		{Time: mustTime("2025-02-23 00:00"), Sunrise: sunrise2, Sunset: sunset2},
		{Time: mustTime("2025-02-23 01:00"), Sunrise: sunrise2, Sunset: sunset2},
	}

	w, err := NewTimeWindow(seq)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if w.ObservedHours != 4 {
		t.Errorf("expected 4 observed hours, got %d", w.ObservedHours)
	}
	if !w.FromTime.Equal(seq[0].Time) || !w.ToTime.Equal(seq[2].Time) {
		t.Errorf("unexpected window bounds: %v - %v", w.FromTime, w.ToTime)
	}
	if !w.Sunrise.Equal(sunrise1) {
		t.Errorf("expected earliest sunrise %v, got %v", sunrise1, w.Sunrise)
	}
	if !w.Sunset.Equal(sunset2) {
		t.Errorf("expected latest sunset %v, got %v", sunset2, w.Sunset)
	}
}

func TestTemperatureSummaryTieBreaksEarliest(t *testing.T) {
	seq := []Observation{
		tempObs("2025-02-22 00:00", 30),
		tempObs("2025-02-22 01:00", 25),
		tempObs("2025-02-22 02:00", 25),
		tempObs("2025-02-22 03:00", 30),
	}

	s, err := NewTemperatureSummary(seq)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.MinTemp != 25 || !s.MinTempTime.Equal(mustTime("2025-02-22 01:00")) {
		t.Errorf("expected min 25 at 01:00, got %v at %v", s.MinTemp, s.MinTempTime)
	}
	if s.MaxTemp != 30 || !s.MaxTempTime.Equal(mustTime("2025-02-22 00:00")) {
		t.Errorf("expected max 30 at 00:00, got %v at %v", s.MaxTemp, s.MaxTempTime)
	}
	if s.AvgTemp != 27.5 {
		t.Errorf("expected avg 27.5, got %v", s.AvgTemp)
	}
	if s.MinTemp > s.AvgTemp || s.AvgTemp > s.MaxTemp {
		t.Errorf("min <= avg <= max violated: %v %v %v", s.MinTemp, s.AvgTemp, s.MaxTemp)
	}
	if s.AvgHumidity != 80 {
		t.Errorf("expected avg humidity 80, got %v", s.AvgHumidity)
	}
}

func TestRainfallSummary(t *testing.T) {
	dry := []Observation{
		tempObs("2025-02-22 00:00", 40),
		tempObs("2025-02-22 01:00", 41),
	}

	s, err := NewRainfallSummary(dry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.HasRain || s.TotalRainMM != 0 {
		t.Errorf("expected dry summary, got %+v", s)
	}
	if !s.RainStartTime.IsZero() || !s.RainEndTime.IsZero() {
		t.Errorf("expected absent rain times, got %+v", s)
	}

	wet := []Observation{
		{Time: mustTime("2025-02-22 00:00"), PrecipMM: 0},
		{Time: mustTime("2025-02-22 01:00"), PrecipMM: 1.2},
		{Time: mustTime("2025-02-22 02:00"), PrecipMM: 0},
		{Time: mustTime("2025-02-22 03:00"), PrecipMM: 0.3},
		{Time: mustTime("2025-02-22 04:00"), PrecipMM: 0},
	}

	s, err = NewRainfallSummary(wet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.HasRain {
		t.Fatal("expected rain")
	}
	if math.Abs(s.TotalRainMM-1.5) > 1e-9 {
		t.Errorf("expected total 1.5mm, got %v", s.TotalRainMM)
	}
	if !s.RainStartTime.Equal(mustTime("2025-02-22 01:00")) {
		t.Errorf("unexpected rain start: %v", s.RainStartTime)
	}
	if !s.RainEndTime.Equal(mustTime("2025-02-22 03:00")) {
		t.Errorf("unexpected rain end: %v", s.RainEndTime)
	}
}

func TestWindSummaryTieBreaksEarliest(t *testing.T) {
	seq := []Observation{
		{Time: mustTime("2025-02-22 00:00"), WindMPH: 4},
		{Time: mustTime("2025-02-22 01:00"), WindMPH: 9.6},
		{Time: mustTime("2025-02-22 02:00"), WindMPH: 9.6},
		{Time: mustTime("2025-02-22 03:00"), WindMPH: 2},
	}

	s, err := NewWindSummary(seq)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.MaxWindMPH != 9.6 || !s.MaxWindTime.Equal(mustTime("2025-02-22 01:00")) {
		t.Errorf("expected max 9.6 at 01:00, got %v at %v", s.MaxWindMPH, s.MaxWindTime)
	}
	if math.Abs(s.AvgWindMPH-6.3) > 1e-9 {
		t.Errorf("expected avg 6.3, got %v", s.AvgWindMPH)
	}
}

func TestAggregatorsRejectEmptySequence(t *testing.T) {
	if _, err := NewTimeWindow(nil); !errors.Is(err, ErrEmptySequence) {
		t.Errorf("TimeWindow: expected ErrEmptySequence, got %v", err)
	}
	if _, err := NewTemperatureSummary(nil); !errors.Is(err, ErrEmptySequence) {
		t.Errorf("TemperatureSummary: expected ErrEmptySequence, got %v", err)
	}
	if _, err := NewRainfallSummary(nil); !errors.Is(err, ErrEmptySequence) {
		t.Errorf("RainfallSummary: expected ErrEmptySequence, got %v", err)
	}
	if _, err := NewWindSummary(nil); !errors.Is(err, ErrEmptySequence) {
		t.Errorf("WindSummary: expected ErrEmptySequence, got %v", err)
	}
	if _, err := NewFrostWindow(nil, RecoveryCompat); !errors.Is(err, ErrEmptySequence) {
		t.Errorf("FrostWindow: expected ErrEmptySequence, got %v", err)
	}
}
