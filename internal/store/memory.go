package store

import (
	"errors"
	"sync"
	"time"

	"weatherwatch/internal/weather"
)

var (
	// ErrNotFound is returned when no report is available for a given location.
	ErrNotFound = errors.New("no report for location")
)

// ReportHistory holds a time-ordered list of reports for one location.
type ReportHistory struct {
	Reports []*weather.WeatherReport
}

// MemoryStore is a concurrency-safe in-memory report store with optional
// count and age retention.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location query key, value: history
	data map[string]*ReportHistory

	maxHistory int           // max number of reports per location
	maxAge     time.Duration // max age of reports
}

// NewMemoryStore creates a new MemoryStore with optional limits. Limits <= 0
// are treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*ReportHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// SaveReport appends a report for a location and enforces retention.
func (s *MemoryStore) SaveReport(key string, r *weather.WeatherReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[key]
	if !ok {
		history = &ReportHistory{}
		s.data[key] = history
	}

	history.Reports = append(history.Reports, r)

	if s.maxHistory > 0 && len(history.Reports) > s.maxHistory {
		over := len(history.Reports) - s.maxHistory
		history.Reports = history.Reports[over:]
	}

	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Reports); i++ {
			if !history.Reports[i].GeneratedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 && i < len(history.Reports) {
			history.Reports = history.Reports[i:]
		}
	}
}

// LatestReport returns the most recent report for a location.
func (s *MemoryStore) LatestReport(key string) (*weather.WeatherReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key]
	if !ok || len(history.Reports) == 0 {
		return nil, ErrNotFound
	}
	return history.Reports[len(history.Reports)-1], nil
}

// ReportRange returns all reports for a location generated between from and
// to (inclusive).
func (s *MemoryStore) ReportRange(key string, from, to time.Time) ([]*weather.WeatherReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key]
	if !ok || len(history.Reports) == 0 {
		return nil, ErrNotFound
	}

	var result []*weather.WeatherReport
	for _, r := range history.Reports {
		if !r.GeneratedAt.Before(from) && !r.GeneratedAt.After(to) {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
