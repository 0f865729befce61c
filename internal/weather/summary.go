package weather

import (
	"fmt"
	"time"
)

// TimeWindow describes the span the observation sequence covers.
type TimeWindow struct {
	ObservedHours int       `json:"observed_hours"`
	FromTime      time.Time `json:"from_time"`
	ToTime        time.Time `json:"to_time"`
	Sunset        time.Time `json:"sunset"`
	Sunrise       time.Time `json:"sunrise"`
}

// NewTimeWindow derives the window metadata: inclusive hour span, sequence
// extremes, earliest sunrise and latest sunset across the covered days.
func NewTimeWindow(seq []Observation) (TimeWindow, error) {
	if len(seq) == 0 {
		return TimeWindow{}, ErrEmptySequence
	}
	w := TimeWindow{
		FromTime: seq[0].Time,
		ToTime:   seq[len(seq)-1].Time,
		Sunrise:  seq[0].Sunrise,
		Sunset:   seq[0].Sunset,
	}
	for _, o := range seq[1:] {
		if o.Sunrise.Before(w.Sunrise) {
			w.Sunrise = o.Sunrise
		}
		if o.Sunset.After(w.Sunset) {
			w.Sunset = o.Sunset
		}
	}
	w.ObservedHours = int(w.ToTime.Sub(w.FromTime).Hours()) + 1
	return w, nil
}

func (w TimeWindow) heading() string { return "" }

func (w TimeWindow) lines(meta reportMeta) []string {
	return []string{
		fmt.Sprintf("🌡️ Weather Report for %s 🌡️", meta.location),
		fmt.Sprintf("Generated at: %s", meta.generatedAt.Format("Mon, Jan 02 2006 @ 03:04PM")),
		fmt.Sprintf("From: %s to %s", w.FromTime.Format("2006-01-02T15:04:05"), w.ToTime.Format("2006-01-02T15:04:05")),
		"",
		fmt.Sprintf("🌅 Sunrise: %s", clockString(w.Sunrise)),
		fmt.Sprintf("🌇 Sunset: %s", clockString(w.Sunset)),
	}
}

func (w TimeWindow) fields() map[string]any {
	return map[string]any{
		"observed_hours": w.ObservedHours,
		"from_time":      w.FromTime,
		"to_time":        w.ToTime,
		"sunrise":        w.Sunrise,
		"sunset":         w.Sunset,
	}
}

// TemperatureSummary holds temperature and humidity extremes and averages.
// Ties on the extremes resolve to the earliest occurrence.
type TemperatureSummary struct {
	MinTemp     float64   `json:"min_temp"`
	MinTempTime time.Time `json:"min_temp_time"`
	MaxTemp     float64   `json:"max_temp"`
	MaxTempTime time.Time `json:"max_temp_time"`
	AvgTemp     float64   `json:"avg_temp"`
	AvgHumidity float64   `json:"avg_humidity"`
}

func NewTemperatureSummary(seq []Observation) (TemperatureSummary, error) {
	if len(seq) == 0 {
		return TemperatureSummary{}, ErrEmptySequence
	}
	s := TemperatureSummary{
		MinTemp:     seq[0].TempF,
		MinTempTime: seq[0].Time,
		MaxTemp:     seq[0].TempF,
		MaxTempTime: seq[0].Time,
	}
	var sumTemp, sumHumidity float64
	for _, o := range seq {
		// Strict comparisons keep the earliest observation on ties.
		if o.TempF < s.MinTemp {
			s.MinTemp = o.TempF
			s.MinTempTime = o.Time
		}
		if o.TempF > s.MaxTemp {
			s.MaxTemp = o.TempF
			s.MaxTempTime = o.Time
		}
		sumTemp += o.TempF
		sumHumidity += o.Humidity
	}
	n := float64(len(seq))
	s.AvgTemp = sumTemp / n
	s.AvgHumidity = sumHumidity / n
	return s, nil
}

func (s TemperatureSummary) heading() string { return "Temperatures" }

func (s TemperatureSummary) lines(meta reportMeta) []string {
	return []string{
		fmt.Sprintf("⬇️ Lowest temp: %vF at %s", s.MinTemp, timestampString(s.MinTempTime)),
		fmt.Sprintf("⬆️ Highest temp: %vF at %s", s.MaxTemp, timestampString(s.MaxTempTime)),
		fmt.Sprintf("🦆 Average humidity: %.1f%%", s.AvgHumidity),
	}
}

func (s TemperatureSummary) fields() map[string]any {
	return map[string]any{
		"min_temp":      s.MinTemp,
		"min_temp_time": s.MinTempTime,
		"max_temp":      s.MaxTemp,
		"max_temp_time": s.MaxTempTime,
		"avg_temp":      s.AvgTemp,
		"avg_humidity":  s.AvgHumidity,
	}
}

// RainfallSummary reports whether any rain falls inside the window and, if
// so, its total and first/last occurrence. The times are zero when HasRain is
// false.
type RainfallSummary struct {
	HasRain       bool      `json:"has_rain"`
	TotalRainMM   float64   `json:"total_rain_mm"`
	RainStartTime time.Time `json:"rain_start_time,omitempty"`
	RainEndTime   time.Time `json:"rain_end_time,omitempty"`
}

func NewRainfallSummary(seq []Observation) (RainfallSummary, error) {
	if len(seq) == 0 {
		return RainfallSummary{}, ErrEmptySequence
	}
	var s RainfallSummary
	for _, o := range seq {
		s.TotalRainMM += o.PrecipMM
		if o.PrecipMM > 0 {
			if !s.HasRain {
				s.HasRain = true
				s.RainStartTime = o.Time
			}
			s.RainEndTime = o.Time
		}
	}
	return s, nil
}

func (s RainfallSummary) heading() string { return "Rainfall" }

func (s RainfallSummary) lines(meta reportMeta) []string {
	if !s.HasRain {
		return []string{fmt.Sprintf("🌵 No rain in the next %d hours", meta.observedHours)}
	}
	return []string{
		fmt.Sprintf("⚠️ Total rain: %.2fmm", s.TotalRainMM),
		fmt.Sprintf("☔️ Rain starts: %s", timestampString(s.RainStartTime)),
		fmt.Sprintf("☔️ Rain ends: %s", timestampString(s.RainEndTime)),
	}
}

func (s RainfallSummary) fields() map[string]any {
	f := map[string]any{
		"has_rain":        s.HasRain,
		"total_rain_mm":   s.TotalRainMM,
		"rain_start_time": nil,
		"rain_end_time":   nil,
	}
	if s.HasRain {
		f["rain_start_time"] = s.RainStartTime
		f["rain_end_time"] = s.RainEndTime
	}
	return f
}

// WindSummary holds the average and maximum wind speed; ties on the maximum
// resolve to the earliest occurrence, the same as temperature.
type WindSummary struct {
	AvgWindMPH  float64   `json:"avg_wind_mph"`
	MaxWindMPH  float64   `json:"max_wind_mph"`
	MaxWindTime time.Time `json:"max_wind_time"`
}

func NewWindSummary(seq []Observation) (WindSummary, error) {
	if len(seq) == 0 {
		return WindSummary{}, ErrEmptySequence
	}
	s := WindSummary{
		MaxWindMPH:  seq[0].WindMPH,
		MaxWindTime: seq[0].Time,
	}
	var sum float64
	for _, o := range seq {
		if o.WindMPH > s.MaxWindMPH {
			s.MaxWindMPH = o.WindMPH
			s.MaxWindTime = o.Time
		}
		sum += o.WindMPH
	}
	s.AvgWindMPH = sum / float64(len(seq))
	return s, nil
}

func (s WindSummary) heading() string { return "Wind" }

func (s WindSummary) lines(meta reportMeta) []string {
	return []string{
		fmt.Sprintf("🌬️ Average wind: %.1fmph", s.AvgWindMPH),
		fmt.Sprintf("🌬️ Max wind: %.1fmph at %s", s.MaxWindMPH, timestampString(s.MaxWindTime)),
	}
}

func (s WindSummary) fields() map[string]any {
	return map[string]any{
		"avg_wind_mph":  s.AvgWindMPH,
		"max_wind_mph":  s.MaxWindMPH,
		"max_wind_time": s.MaxWindTime,
	}
}

func clockString(t time.Time) string {
	return t.Format("03:04PM")
}

func timestampString(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
