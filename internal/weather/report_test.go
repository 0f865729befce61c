package weather

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"
)

func frankfort() Location {
	return Location{
		ZipCode: "40601",
		Lat:     38.2,
		Lon:     -84.87,
		Name:    "Frankfort",
		Region:  "Kentucky",
		Country: "USA",
		TzID:    "America/New_York",
	}
}

func reportFixture(t *testing.T) *WeatherReport {
	t.Helper()

	sunrise := mustTime("2025-02-22 07:21")
	sunset := mustTime("2025-02-22 18:27")
	seq := []Observation{
		{Time: mustTime("2025-02-22 05:00"), TempF: 30.5, FeelsLikeF: 28, Humidity: 80, WindMPH: 8},
		{Time: mustTime("2025-02-22 06:00"), TempF: 19.1, FeelsLikeF: 17, Humidity: 80, WindMPH: 4},
		{Time: mustTime("2025-02-22 07:00"), TempF: 34.6, FeelsLikeF: 32, Humidity: 80, WindMPH: 3},
	}
	for i := range seq {
		seq[i].Sunrise = sunrise
		seq[i].Sunset = sunset
	}

	r, err := ComposeReport(seq, frankfort(), ReportOptions{
		GeneratedAt: mustTime("2025-02-22 10:15"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return r
}

func TestReportLines(t *testing.T) {
	r := reportFixture(t)

	exp := []string{
		"🌡️ Weather Report for 40601: Frankfort, Kentucky 🌡️",
		"Generated at: Sat, Feb 22 2025 @ 10:15AM",
		"From: 2025-02-22T05:00:00 to 2025-02-22T07:00:00",
		"",
		"🌅 Sunrise: 07:21AM",
		"🌇 Sunset: 06:27PM",
		"",
		"## Temperatures",
		"⬇️ Lowest temp: 19.1F at 2025-02-22 06:00:00",
		"⬆️ Highest temp: 34.6F at 2025-02-22 07:00:00",
		"🦆 Average humidity: 80.0%",
		"",
		"## Rainfall",
		"🌵 No rain in the next 3 hours",
		"",
		"## Wind",
		"🌬️ Average wind: 5.0mph",
		"🌬️ Max wind: 8.0mph at 2025-02-22 05:00:00",
		"",
		"## Frost",
		"⚠️ 2 hours of freezing temps in the next 3 hours! 🥶",
		"❄️ Average low will be: 24.8F during that time!",
		"🌤️ No safe temperatures in the next 3 hours!",
		"",
	}

	got := r.Lines()
	if !reflect.DeepEqual(got, exp) {
		for i := 0; i < len(got) || i < len(exp); i++ {
			var g, e string
			if i < len(got) {
				g = got[i]
			}
			if i < len(exp) {
				e = exp[i]
			}
			if g != e {
				t.Errorf("line %d:\n got  %q\n want %q", i, g, e)
			}
		}
	}
}

func TestReportLinesRainAndRecoveryBranches(t *testing.T) {
	seq := []Observation{
		{Time: mustTime("2025-02-22 05:00"), TempF: 30.0, Humidity: 70, PrecipMM: 2.5, WindMPH: 5},
		{Time: mustTime("2025-02-22 06:00"), TempF: 40.0, Humidity: 70, PrecipMM: 0.5, WindMPH: 5},
	}
	for i := range seq {
		seq[i].Sunrise = mustTime("2025-02-22 07:21")
		seq[i].Sunset = mustTime("2025-02-22 18:27")
	}

	r, err := ComposeReport(seq, frankfort(), ReportOptions{
		GeneratedAt: mustTime("2025-02-22 10:15"),
		Recovery:    RecoveryCorrected,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := r.Lines()
	assertContains(t, lines, "⚠️ Total rain: 3.00mm")
	assertContains(t, lines, "☔️ Rain starts: 2025-02-22 05:00:00")
	assertContains(t, lines, "☔️ Rain ends: 2025-02-22 06:00:00")
	assertContains(t, lines, "🌤️ Safe temperature of 40F reached at 2025-02-22 06:00:00")
}

func assertContains(t *testing.T, lines []string, want string) {
	t.Helper()
	for _, l := range lines {
		if l == want {
			return
		}
	}
	t.Errorf("missing line %q in %q", want, lines)
}

func TestReportFlatRecord(t *testing.T) {
	r := reportFixture(t)

	record, err := r.FlatRecord()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record["zip_code"] != "40601" {
		t.Errorf("unexpected zip_code: %v", record["zip_code"])
	}
	if record["observed_hours"] != 3 {
		t.Errorf("unexpected observed_hours: %v", record["observed_hours"])
	}
	if record["min_temp"] != 19.1 || record["max_temp"] != 34.6 {
		t.Errorf("unexpected extremes: %v, %v", record["min_temp"], record["max_temp"])
	}
	if record["has_rain"] != false || record["total_rain_mm"] != 0.0 {
		t.Errorf("unexpected rain fields: %v, %v", record["has_rain"], record["total_rain_mm"])
	}
	if record["rain_start_time"] != nil || record["first_safe_temp"] != nil {
		t.Errorf("expected absent optional fields, got %v, %v",
			record["rain_start_time"], record["first_safe_temp"])
	}
	if record["is_freezing"] != true || record["freezing_hours"] != 2 {
		t.Errorf("unexpected frost fields: %v, %v", record["is_freezing"], record["freezing_hours"])
	}
	if got, ok := record["avg_low_during_freeze"].(float64); !ok || math.Abs(got-24.8) > 1e-9 {
		t.Errorf("unexpected avg low: %v", record["avg_low_during_freeze"])
	}
}

func TestReportIdempotent(t *testing.T) {
	r := reportFixture(t)

	if !reflect.DeepEqual(r.Lines(), r.Lines()) {
		t.Error("Lines is not idempotent")
	}
	rec1, err := r.FlatRecord()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec2, err := r.FlatRecord()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(rec1, rec2) {
		t.Error("FlatRecord is not idempotent")
	}
	if r.ID() != r.ID() {
		t.Error("ID is not stable")
	}
}

func TestComposeReportEmptySequence(t *testing.T) {
	if _, err := ComposeReport(nil, frankfort(), ReportOptions{}); !errors.Is(err, ErrEmptySequence) {
		t.Fatalf("expected ErrEmptySequence, got %v", err)
	}
}

// TestReportScenario runs the full pipeline end to end: frozen clock
// 2025-02-22 10:15, a two-day forecast windowed to 35 observations starting
// at the day boundary.
func TestReportScenario(t *testing.T) {
	day1Temps := []float64{
		22.8, 22.3, 21.6, 21.0, 20.6, 20.2, 19.6, 19.1,
		33.4, 33.5, 33.8, 34.0, 34.1, 34.2, 34.4, 34.5,
		34.6, 34.3, 34.2, 34.0, 33.9, 33.8, 33.6, 33.5,
	}
	day2Temps := []float64{
		30.0, 29.5, 29.0, 28.5, 28.0, 28.5, 29.0, 30.0,
		31.0, 32.0, 33.5, 34.0, 34.5, 35.0, 35.5, 36.0,
		36.5, 36.0, 35.5, 35.0, 34.5, 34.0, 33.5, 33.0,
	}
	day1Winds := []float64{
		4, 4, 4, 5, 5, 5, 5, 5,
		5, 5, 5, 5, 5, 5, 5, 5,
		5, 9.6, 6, 6, 5, 5, 4, 4,
	}

	day1 := make([]RawHour, 0, 24)
	day2 := make([]RawHour, 0, 24)
	for h := 0; h < 24; h++ {
		ts := time.Date(2025, 2, 22, h, 0, 0, 0, time.UTC)
		day1 = append(day1, rawHour(ts.Format("2006-01-02 15:04"), day1Temps[h], day1Temps[h]-2, 83.7, 0, day1Winds[h]))
		day2 = append(day2, rawHour(ts.AddDate(0, 0, 1).Format("2006-01-02 15:04"), day2Temps[h], day2Temps[h]-2, 83.7, 0, 5))
	}
	raw := &RawForecast{}
	raw.Location = RawLocation{Lat: 38.2, Lon: -84.87, Name: "Frankfort", Region: "Kentucky", Country: "USA", TzID: "America/New_York"}
	raw.Forecast.ForecastDay = []RawDay{
		rawDay("2025-02-22", "07:21 AM", "06:27 PM", day1),
		rawDay("2025-02-23", "07:20 AM", "06:28 PM", day2),
	}

	w := NewWindowerWithClock(48, frozenClock("2025-02-22 10:15:00"))
	seq, err := w.Window(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seq) != 35 {
		t.Fatalf("expected 35 observations, got %d", len(seq))
	}

	r, err := ComposeReport(seq, raw.LocationOf("40601"), ReportOptions{
		GeneratedAt: mustTime("2025-02-22 10:15"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Window.ObservedHours != 35 {
		t.Errorf("expected 35 observed hours, got %d", r.Window.ObservedHours)
	}
	if r.Temperature.MinTemp != 19.1 || !r.Temperature.MinTempTime.Equal(mustTime("2025-02-22 07:00")) {
		t.Errorf("unexpected min temp: %v at %v", r.Temperature.MinTemp, r.Temperature.MinTempTime)
	}
	if r.Temperature.MaxTemp != 34.6 || !r.Temperature.MaxTempTime.Equal(mustTime("2025-02-22 16:00")) {
		t.Errorf("unexpected max temp: %v at %v", r.Temperature.MaxTemp, r.Temperature.MaxTempTime)
	}
	if math.Abs(r.Temperature.AvgHumidity-83.7) > 1e-9 {
		t.Errorf("unexpected avg humidity: %v", r.Temperature.AvgHumidity)
	}
	if r.Rainfall.HasRain {
		t.Error("expected no rain")
	}
	if r.Wind.MaxWindMPH != 9.6 || !r.Wind.MaxWindTime.Equal(mustTime("2025-02-22 17:00")) {
		t.Errorf("unexpected max wind: %v at %v", r.Wind.MaxWindMPH, r.Wind.MaxWindTime)
	}
	// Day-two sub-freezing hours fall after the coldest point and must not
	// count toward the freeze window.
	if r.Frost.FreezingHours != 8 {
		t.Errorf("expected 8 freezing hours, got %d", r.Frost.FreezingHours)
	}
	if math.Abs(r.Frost.AvgLowDuringFreeze-20.9) > 1e-9 {
		t.Errorf("expected avg low 20.9, got %v", r.Frost.AvgLowDuringFreeze)
	}
	if r.Frost.FirstSafe != nil {
		t.Errorf("expected suppressed recovery, got %+v", r.Frost.FirstSafe)
	}
}
