package services

import (
	"context"
	"time"

	"bike-probability-api/models"
)

// fakeStore is an in-memory implementation of the read interfaces so the
// estimation core can be exercised without Postgres.
type fakeStore struct {
	stations []models.Station
	mappings map[string]string // canonical id -> legacy id
	trips    []models.Trip
	failWith error
}

func (f *fakeStore) GetByID(ctx context.Context, stationID string) (*models.Station, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for i := range f.stations {
		if f.stations[i].StationID == stationID {
			return &f.stations[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetByName(ctx context.Context, name string) (*models.Station, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for i := range f.stations {
		if f.stations[i].Name == name {
			return &f.stations[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) List(ctx context.Context, nameFilter string, limit int) ([]StationSummary, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []StationSummary
	for _, s := range f.stations {
		if len(out) >= limit {
			break
		}
		out = append(out, StationSummary{
			StationID: s.StationID,
			Name:      s.Name,
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
		})
	}
	return out, nil
}

func (f *fakeStore) CanonicalToLegacy(ctx context.Context, stationID string) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	return f.mappings[stationID], nil
}

func (f *fakeStore) DepartureStats(ctx context.Context, legacyID string, pattern TimePattern) (*DepartureStats, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}

	counts := make(map[string]int)
	stats := &DepartureStats{}
	for _, trip := range f.trips {
		if trip.StartStationID != legacyID || !matchesPattern(trip.StartedAt, pattern) {
			continue
		}
		counts[trip.BikeID]++
		if stats.FirstDeparture.IsZero() || trip.StartedAt.Before(stats.FirstDeparture) {
			stats.FirstDeparture = trip.StartedAt
		}
		if trip.StartedAt.After(stats.LastDeparture) {
			stats.LastDeparture = trip.StartedAt
		}
	}
	for bikeID, count := range counts {
		stats.Counts = append(stats.Counts, BikeDepartures{BikeID: bikeID, Count: count})
	}
	return stats, nil
}

func matchesPattern(ts time.Time, pattern TimePattern) bool {
	wd := ts.Weekday()
	switch pattern {
	case PatternWeekday:
		return wd >= time.Monday && wd <= time.Friday
	case PatternWeekend:
		return wd == time.Saturday || wd == time.Sunday
	default:
		return true
	}
}
