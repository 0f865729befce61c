package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelvins/geocoder"

	"weatherwatch/internal/weather"
)

type AppConfig struct {
	WeatherAPIKey  string
	GeocoderAPIKey string

	// Locations to report on.
	Locations []weather.LocationQuery

	// CronSchedule is a five-field cron expression driving the report cycle.
	CronSchedule string

	// ForecastDays is the forecast depth requested from the provider.
	ForecastDays int

	// MaxHours bounds the observation window length.
	MaxHours int

	// RecoveryCorrected switches the frost recovery tie-break from the
	// compatibility behavior to the at-least-one reading.
	RecoveryCorrected bool

	// OutDir is where the file sinks write.
	OutDir string

	// Provider rate limiting.
	ProviderRPS   float64
	ProviderBurst int

	HTTPTimeout time.Duration

	// In-memory store retention.
	StoreMaxHistory int
	StoreMaxAge     time.Duration

	// Telegram delivery. Skipped when the token or chat ID is unset.
	TelegramToken  string
	TelegramChatID int64
	SkipTelegram   bool

	// InfluxDB sink. Disabled when the address is unset.
	InfluxAddr     string
	InfluxUsername string
	InfluxPassword string
	InfluxDatabase string

	Port  string
	Debug bool
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	if cfg.WeatherAPIKey == "" {
		return nil, fmt.Errorf("WEATHERAPI_API_KEY not set")
	}
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	cfg.CronSchedule = getenvDefault("CRON_SCHEDULE", "0 7 * * *")
	cfg.ForecastDays = getenvInt("FORECAST_DAYS", 2)
	cfg.MaxHours = getenvInt("MAX_HOURS", 48)
	cfg.RecoveryCorrected = getenvBool("FROST_RECOVERY_CORRECTED", false)
	cfg.OutDir = getenvDefault("OUT_DIR", "out")

	rps, err := strconv.ParseFloat(getenvDefault("PROVIDER_RPS", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_RPS: %w", err)
	}
	cfg.ProviderRPS = rps
	cfg.ProviderBurst = getenvInt("PROVIDER_BURST", 3)

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 30)
	maxAgeStr := getenvDefault("STORE_MAX_AGE", "720h")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if chatStr := os.Getenv("TELEGRAM_CHAT_ID"); chatStr != "" {
		chatID, err := strconv.ParseInt(chatStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = chatID
	}
	cfg.SkipTelegram = getenvBool("SKIP_TELEGRAM", false)

	cfg.InfluxAddr = os.Getenv("INFLUX_ADDR")
	cfg.InfluxUsername = os.Getenv("INFLUX_USERNAME")
	cfg.InfluxPassword = os.Getenv("INFLUX_PASSWORD")
	cfg.InfluxDatabase = getenvDefault("INFLUX_DATABASE", "weatherwatch")

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.Debug = getenvBool("DEBUG", false)

	locs, err := loadLocations(cfg.GeocoderAPIKey)
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs

	return cfg, nil
}

// loadLocations builds the location list from WEATHER_ZIP_CODES plus any
// WEATHER_LOCATION_CITY/WEATHER_LOCATION_COUNTRY pairs. City/country pairs
// are geocoded to coordinates so the provider can be queried precisely.
func loadLocations(geocoderKey string) ([]weather.LocationQuery, error) {
	var locs []weather.LocationQuery

	if zips := os.Getenv("WEATHER_ZIP_CODES"); zips != "" {
		for _, z := range strings.Split(zips, ",") {
			z = strings.TrimSpace(z)
			if z == "" {
				continue
			}
			locs = append(locs, weather.LocationQuery{ZipCode: z})
		}
	}

	city := os.Getenv("WEATHER_LOCATION_CITY")
	country := os.Getenv("WEATHER_LOCATION_COUNTRY")
	if city != "" {
		cities := strings.Split(city, ",")
		countries := strings.Split(country, ",")
		if len(cities) != len(countries) {
			return nil, fmt.Errorf("number of cities and countries must be the same")
		}
		for i := range cities {
			q := weather.LocationQuery{
				City:    strings.TrimSpace(cities[i]),
				Country: strings.TrimSpace(countries[i]),
			}
			if geocoderKey != "" {
				geocoder.ApiKey = geocoderKey
				location, err := geocoder.Geocoding(geocoder.Address{
					City:    q.City,
					Country: q.Country,
				})
				if err != nil {
					return nil, fmt.Errorf("geocode %s,%s: %w", q.City, q.Country, err)
				}
				lat, lon := location.Latitude, location.Longitude
				q.Lat = &lat
				q.Lon = &lon
			}
			locs = append(locs, q)
		}
	}

	if len(locs) == 0 {
		return nil, fmt.Errorf("no locations configured; set WEATHER_ZIP_CODES or WEATHER_LOCATION_CITY")
	}
	return locs, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
