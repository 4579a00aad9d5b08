package services

import (
	"context"
	"fmt"
	"time"
)

// TimePattern is the coarse day-of-week filter applied to trip history.
type TimePattern string

const (
	PatternWeekday TimePattern = "weekday"
	PatternWeekend TimePattern = "weekend"
	PatternBoth    TimePattern = "both"
)

// ParseTimePattern validates a raw pattern string.
func ParseTimePattern(raw string) (TimePattern, error) {
	switch TimePattern(raw) {
	case PatternWeekday, PatternWeekend, PatternBoth:
		return TimePattern(raw), nil
	default:
		return "", fmt.Errorf("%w: time_pattern must be weekday, weekend or both, got %q", ErrInvalidParameter, raw)
	}
}

// TripStats summarizes departures from one station under a time pattern.
type TripStats struct {
	TotalTrips     int              `json:"total_trips"`
	UniqueBikes    int              `json:"unique_bikes"`
	Departures     []BikeDepartures `json:"departures"`
	FirstDeparture time.Time        `json:"first_departure"`
	LastDeparture  time.Time        `json:"last_departure"`
}

// TripAggregator joins a canonical station id through the identifier
// mapping to the trip log and computes per-bike departure statistics.
// Results are memoized when a cache is attached: the underlying data only
// changes on bulk reload, which flushes the cache wholesale.
type TripAggregator struct {
	mappings MappingStore
	trips    TripStore
	cache    *CacheService
	cacheTTL time.Duration
}

func NewTripAggregator(mappings MappingStore, trips TripStore, cache *CacheService, cacheTTL time.Duration) *TripAggregator {
	return &TripAggregator{
		mappings: mappings,
		trips:    trips,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Aggregate computes TripStats for one station and pattern.
// A station that resolves through the mapping but has no matching trips
// yields zeroed stats, not an error; only a missing mapping row is
// ErrStationNotFound.
func (a *TripAggregator) Aggregate(ctx context.Context, stationID string, pattern TimePattern) (*TripStats, error) {
	cacheKey := fmt.Sprintf("tripstats:%s:%s", stationID, pattern)
	if a.cache != nil {
		var cached TripStats
		if err := a.cache.Get(ctx, cacheKey, &cached); err == nil {
			statsCacheHits.Inc()
			return &cached, nil
		}
		statsCacheMisses.Inc()
	}

	legacyID, err := a.mappings.CanonicalToLegacy(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("%w: identifier mapping: %v", ErrDataUnavailable, err)
	}
	if legacyID == "" {
		return nil, fmt.Errorf("%w: no identifier mapping for %q", ErrStationNotFound, stationID)
	}

	raw, err := a.trips.DepartureStats(ctx, legacyID, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: trip query: %v", ErrDataUnavailable, err)
	}

	stats := &TripStats{
		Departures:     raw.Counts,
		FirstDeparture: raw.FirstDeparture,
		LastDeparture:  raw.LastDeparture,
	}
	for _, d := range raw.Counts {
		stats.TotalTrips += d.Count
		if d.Count > 0 {
			stats.UniqueBikes++
		}
	}

	if a.cache != nil {
		go a.cache.Set(context.Background(), cacheKey, *stats, a.cacheTTL)
	}

	return stats, nil
}
