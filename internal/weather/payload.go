package weather

// RawForecast mirrors the relevant parts of the weatherapi.com forecast.json
// response: a location block plus one block per calendar day, each carrying an
// hourly array and the day's astronomical sunrise/sunset as local clock times.
type RawForecast struct {
	Location RawLocation `json:"location"`
	Forecast struct {
		ForecastDay []RawDay `json:"forecastday"`
	} `json:"forecast"`
}

type RawLocation struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	TzID    string  `json:"tz_id"`
}

type RawDay struct {
	Date  string   `json:"date"`
	Astro RawAstro `json:"astro"`
	Hour  []RawHour `json:"hour"`
}

type RawAstro struct {
	Sunrise string `json:"sunrise"`
	Sunset  string `json:"sunset"`
}

// RawHour uses pointers for the numeric fields so that a missing field can be
// told apart from a legitimate zero when validating the payload.
type RawHour struct {
	Time       string   `json:"time"`
	TempF      *float64 `json:"temp_f"`
	FeelsLikeF *float64 `json:"feelslike_f"`
	Humidity   *float64 `json:"humidity"`
	PrecipMM   *float64 `json:"precip_mm"`
	WindMPH    *float64 `json:"wind_mph"`
}

// LocationOf builds the report's Location identity from the payload's
// location block and the query's ZIP code.
func (r *RawForecast) LocationOf(zipCode string) Location {
	return Location{
		ZipCode: zipCode,
		Lat:     r.Location.Lat,
		Lon:     r.Location.Lon,
		Name:    r.Location.Name,
		Region:  r.Location.Region,
		Country: r.Location.Country,
		TzID:    r.Location.TzID,
	}
}
