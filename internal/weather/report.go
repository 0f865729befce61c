package weather

import (
	"fmt"
	"time"
)

// reportMeta is the context every summary renderer receives.
type reportMeta struct {
	location      Location
	observedHours int
	generatedAt   time.Time
}

// renderer is the closed set of summary variants the composer dispatches
// over. Each variant supplies its own heading and message lines.
type renderer interface {
	heading() string
	lines(meta reportMeta) []string
}

// exporter is implemented by every summary contributing fields to the flat
// export record.
type exporter interface {
	fields() map[string]any
}

// ReportOptions tunes report composition.
type ReportOptions struct {
	// GeneratedAt stamps the report; the wall clock is used when zero.
	GeneratedAt time.Time
	// Recovery selects the frost recovery reporting mode.
	Recovery RecoveryMode
}

// WeatherReport owns one of each summary, the window metadata, the location
// identity, and the source observation sequence (retained read-only for
// downstream rendering). It is immutable after composition; a new cycle
// replaces it rather than updating it.
type WeatherReport struct {
	Location     Location           `json:"location"`
	Window       TimeWindow         `json:"time_window"`
	Temperature  TemperatureSummary `json:"temperature"`
	Rainfall     RainfallSummary    `json:"rainfall"`
	Wind         WindSummary        `json:"wind"`
	Frost        FrostWindow        `json:"frost"`
	Observations []Observation      `json:"observations"`
	GeneratedAt  time.Time          `json:"generated_at"`
}

// ComposeReport derives every summary from the observation sequence and
// assembles the report. It fails with ErrEmptySequence on an empty sequence
// and with ErrFieldCollision when two summaries export the same field name;
// the latter is a programming defect and callers should abort on it.
func ComposeReport(seq []Observation, loc Location, opts ReportOptions) (*WeatherReport, error) {
	window, err := NewTimeWindow(seq)
	if err != nil {
		return nil, err
	}
	temp, err := NewTemperatureSummary(seq)
	if err != nil {
		return nil, err
	}
	rain, err := NewRainfallSummary(seq)
	if err != nil {
		return nil, err
	}
	wind, err := NewWindSummary(seq)
	if err != nil {
		return nil, err
	}
	frost, err := NewFrostWindow(seq, opts.Recovery)
	if err != nil {
		return nil, err
	}

	generatedAt := opts.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	r := &WeatherReport{
		Location:     loc,
		Window:       window,
		Temperature:  temp,
		Rainfall:     rain,
		Wind:         wind,
		Frost:        frost,
		Observations: seq,
		GeneratedAt:  generatedAt,
	}

	// Verify export field uniqueness at composition time.
	if _, err := r.FlatRecord(); err != nil {
		return nil, err
	}
	return r, nil
}

// ID identifies the report for externally-owned caches (e.g. the memoized
// chart renderer).
func (r *WeatherReport) ID() string {
	return fmt.Sprintf("%s/%d/%d/%d",
		r.Location.ZipCode,
		r.Window.FromTime.Unix(),
		r.Window.ToTime.Unix(),
		r.GeneratedAt.Unix())
}

// Lines renders the report as an ordered sequence of human-readable lines:
// header block, Temperatures, Rainfall, Wind, Frost, each followed by a blank
// separator line. Channel-specific escaping is the delivery sink's job.
func (r *WeatherReport) Lines() []string {
	meta := reportMeta{
		location:      r.Location,
		observedHours: r.Window.ObservedHours,
		generatedAt:   r.GeneratedAt,
	}
	ordered := []renderer{r.Window, r.Temperature, r.Rainfall, r.Wind, r.Frost}

	var msgs []string
	for _, v := range ordered {
		if h := v.heading(); h != "" {
			msgs = append(msgs, "## "+h)
		}
		msgs = append(msgs, v.lines(meta)...)
		msgs = append(msgs, "")
	}
	return msgs
}

// FlatRecord merges every summary's fields plus the location identity into
// one machine-readable record. Field names must be unique across all merged
// summaries.
func (r *WeatherReport) FlatRecord() (map[string]any, error) {
	record := map[string]any{
		"zip_code": r.Location.ZipCode,
		"lat":      r.Location.Lat,
		"lon":      r.Location.Lon,
		"name":     r.Location.Name,
		"region":   r.Location.Region,
		"country":  r.Location.Country,
		"tz_id":    r.Location.TzID,
	}
	for _, e := range []exporter{r.Window, r.Temperature, r.Rainfall, r.Wind, r.Frost} {
		for k, v := range e.fields() {
			if _, dup := record[k]; dup {
				return nil, fmt.Errorf("%w: %q", ErrFieldCollision, k)
			}
			record[k] = v
		}
	}
	return record, nil
}
