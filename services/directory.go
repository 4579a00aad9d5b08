package services

import (
	"context"
	"fmt"
	"strings"
)

// StationInfo is the descriptive catalog view of one station.
type StationInfo struct {
	StationID string  `json:"station_id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// StationDirectory resolves user-supplied station references (canonical id
// or exact name) against the catalog.
type StationDirectory struct {
	catalog StationCatalog
}

func NewStationDirectory(catalog StationCatalog) *StationDirectory {
	return &StationDirectory{catalog: catalog}
}

// looksCanonical reports whether a reference has the shape of a GBFS
// station id (UUID: 36 characters with hyphens). A station *named* like a
// UUID would misclassify here; the heuristic only runs at this boundary so
// everything downstream works on unambiguous canonical ids.
func looksCanonical(reference string) bool {
	return len(reference) == 36 && strings.Contains(reference, "-")
}

// Resolve turns a station reference into a canonical station id.
// Resolving an already-canonical id validates it and returns it unchanged.
func (d *StationDirectory) Resolve(ctx context.Context, reference string) (string, error) {
	if looksCanonical(reference) {
		station, err := d.catalog.GetByID(ctx, reference)
		if err != nil {
			return "", fmt.Errorf("%w: station lookup: %v", ErrDataUnavailable, err)
		}
		if station == nil {
			return "", fmt.Errorf("%w: %q", ErrStationNotFound, reference)
		}
		return station.StationID, nil
	}

	station, err := d.catalog.GetByName(ctx, reference)
	if err != nil {
		return "", fmt.Errorf("%w: station lookup: %v", ErrDataUnavailable, err)
	}
	if station == nil {
		return "", fmt.Errorf("%w: %q", ErrStationNotFound, reference)
	}
	return station.StationID, nil
}

// Info returns the catalog entry for a canonical station id.
func (d *StationDirectory) Info(ctx context.Context, stationID string) (*StationInfo, error) {
	station, err := d.catalog.GetByID(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("%w: station lookup: %v", ErrDataUnavailable, err)
	}
	if station == nil {
		return nil, fmt.Errorf("%w: %q", ErrStationNotFound, stationID)
	}
	return &StationInfo{
		StationID: station.StationID,
		Name:      station.Name,
		Latitude:  station.Latitude,
		Longitude: station.Longitude,
	}, nil
}
