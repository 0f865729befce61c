package weather

import (
	"fmt"
	"sort"
	"time"
)

const (
	dayLayout   = "2006-01-02"
	hourLayout  = "2006-01-02 15:04"
	clockLayout = "03:04 PM"
)

// forwardCutoff bounds how far past "now" observations are kept.
const forwardCutoff = 24 * time.Hour

// Windower normalizes raw per-day forecast blocks into a single ascending,
// deduplicated, cutoff-bounded, length-bounded observation sequence.
type Windower struct {
	maxHours int
	now      func() time.Time
}

// NewWindower creates a Windower bounded to maxHours observations. The
// forward cutoff is evaluated against the wall clock at windowing time.
func NewWindower(maxHours int) *Windower {
	return &Windower{maxHours: maxHours, now: time.Now}
}

// NewWindowerWithClock is NewWindower with an explicit clock, for tests that
// need a frozen "now".
func NewWindowerWithClock(maxHours int, now func() time.Time) *Windower {
	return &Windower{maxHours: maxHours, now: now}
}

// Window flattens the day blocks into one sequence: each hourly record gets
// its day's sunrise/sunset resolved to full timestamps, the days are merged
// and sorted ascending by time, duplicate timestamps are dropped (first one
// wins), anything later than now+24h is discarded, and the result is
// truncated to the first maxHours entries. An empty result is valid; the
// aggregators reject it downstream.
func (w *Windower) Window(raw *RawForecast) ([]Observation, error) {
	if raw == nil || len(raw.Forecast.ForecastDay) == 0 {
		return nil, fmt.Errorf("%w: no forecast days", ErrMalformedForecast)
	}

	var seq []Observation
	for _, day := range raw.Forecast.ForecastDay {
		date, err := time.Parse(dayLayout, day.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: bad day date %q: %v", ErrMalformedForecast, day.Date, err)
		}
		sunrise, err := resolveClock(day.Astro.Sunrise, date)
		if err != nil {
			return nil, fmt.Errorf("%w: bad sunrise for %s: %v", ErrMalformedForecast, day.Date, err)
		}
		sunset, err := resolveClock(day.Astro.Sunset, date)
		if err != nil {
			return nil, fmt.Errorf("%w: bad sunset for %s: %v", ErrMalformedForecast, day.Date, err)
		}

		for _, h := range day.Hour {
			obs, err := h.toObservation(sunrise, sunset)
			if err != nil {
				return nil, err
			}
			seq = append(seq, obs)
		}
	}

	// Stable sort keeps the payload order among equal timestamps, so the
	// dedupe below deterministically keeps the first-seen record.
	sort.SliceStable(seq, func(i, j int) bool { return seq[i].Time.Before(seq[j].Time) })

	cutoff := w.now().Add(forwardCutoff)
	out := seq[:0]
	var prev time.Time
	for _, o := range seq {
		if len(out) > 0 && o.Time.Equal(prev) {
			continue
		}
		if o.Time.After(cutoff) {
			continue
		}
		out = append(out, o)
		prev = o.Time
	}

	if w.maxHours > 0 && len(out) > w.maxHours {
		out = out[:w.maxHours]
	}
	return out, nil
}

func (h RawHour) toObservation(sunrise, sunset time.Time) (Observation, error) {
	if h.Time == "" || h.TempF == nil || h.FeelsLikeF == nil || h.Humidity == nil ||
		h.PrecipMM == nil || h.WindMPH == nil {
		return Observation{}, fmt.Errorf("%w: hourly record missing required fields", ErrMalformedForecast)
	}
	ts, err := time.Parse(hourLayout, h.Time)
	if err != nil {
		return Observation{}, fmt.Errorf("%w: bad hour time %q: %v", ErrMalformedForecast, h.Time, err)
	}
	return Observation{
		Time:       ts,
		TempF:      *h.TempF,
		FeelsLikeF: *h.FeelsLikeF,
		Humidity:   *h.Humidity,
		PrecipMM:   *h.PrecipMM,
		WindMPH:    *h.WindMPH,
		Sunrise:    sunrise,
		Sunset:     sunset,
	}, nil
}

// resolveClock turns a day-local clock string like "07:21 AM" into a full
// timestamp on the given calendar date.
func resolveClock(clock string, date time.Time) (time.Time, error) {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}
