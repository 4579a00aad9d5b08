package services

import (
	"context"
	"errors"
	"time"

	"bike-probability-api/models"

	"gorm.io/gorm"
)

// Read interfaces over the historical dataset. The estimation core only
// ever reads; implementations signal "not found" with nil/empty results
// and reserve errors for transport failures.

type StationCatalog interface {
	GetByID(ctx context.Context, stationID string) (*models.Station, error)
	GetByName(ctx context.Context, name string) (*models.Station, error)
	List(ctx context.Context, nameFilter string, limit int) ([]StationSummary, error)
}

type MappingStore interface {
	// CanonicalToLegacy returns the legacy numeric id for a canonical
	// station id, or "" when no mapping row exists.
	CanonicalToLegacy(ctx context.Context, stationID string) (string, error)
}

type TripStore interface {
	// DepartureStats runs the grouped departure query for one legacy
	// station id under the given day-of-week filter.
	DepartureStats(ctx context.Context, legacyID string, pattern TimePattern) (*DepartureStats, error)
}

// BikeDepartures is one (bike, departure count) pair from the grouped query.
type BikeDepartures struct {
	BikeID string `json:"bike_id"`
	Count  int    `json:"count"`
}

// DepartureStats is the raw aggregate the trip store produces: the
// per-bike departure distribution plus the time window it spans.
type DepartureStats struct {
	Counts         []BikeDepartures `json:"counts"`
	FirstDeparture time.Time        `json:"first_departure"`
	LastDeparture  time.Time        `json:"last_departure"`
}

// StationSummary is the directory-listing row: catalog fields plus the
// aggregate counts joined through the identifier mapping. Stations whose
// mapping row is missing show zero activity rather than erroring.
type StationSummary struct {
	StationID   string  `json:"station_id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	TotalTrips  int     `json:"total_trips"`
	UniqueBikes int     `json:"unique_bikes"`
}

// GormStore implements the read interfaces against Postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetByID(ctx context.Context, stationID string) (*models.Station, error) {
	var station models.Station
	err := s.db.WithContext(ctx).Where("station_id = ?", stationID).First(&station).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &station, nil
}

func (s *GormStore) GetByName(ctx context.Context, name string) (*models.Station, error) {
	var station models.Station
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&station).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &station, nil
}

func (s *GormStore) List(ctx context.Context, nameFilter string, limit int) ([]StationSummary, error) {
	query := `
		SELECT
			s.station_id,
			s.name,
			s.latitude,
			s.longitude,
			COUNT(t.id) AS total_trips,
			COUNT(DISTINCT t.bike_id) AS unique_bikes
		FROM stations s
		LEFT JOIN station_mapping sm ON s.station_id = sm.uuid_station_id
		LEFT JOIN trips t ON sm.numeric_station_id = t.start_station_id
	`
	args := []interface{}{}
	if nameFilter != "" {
		query += " WHERE s.name ILIKE ?"
		args = append(args, "%"+nameFilter+"%")
	}
	query += `
		GROUP BY s.station_id, s.name, s.latitude, s.longitude
		ORDER BY total_trips DESC
		LIMIT ?
	`
	args = append(args, limit)

	var rows []StationSummary
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) CanonicalToLegacy(ctx context.Context, stationID string) (string, error) {
	var mapping models.StationMapping
	err := s.db.WithContext(ctx).Where("uuid_station_id = ?", stationID).First(&mapping).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return mapping.NumericStationID, nil
}

func (s *GormStore) DepartureStats(ctx context.Context, legacyID string, pattern TimePattern) (*DepartureStats, error) {
	base := s.db.WithContext(ctx).Model(&models.Trip{}).Where("start_station_id = ?", legacyID)
	base = applyDOWFilter(base, pattern)

	var counts []BikeDepartures
	err := base.Session(&gorm.Session{}).
		Select("bike_id, COUNT(*) AS count").
		Group("bike_id").
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	stats := &DepartureStats{Counts: counts}
	if len(counts) == 0 {
		return stats, nil
	}

	var window struct {
		FirstDeparture time.Time
		LastDeparture  time.Time
	}
	err = base.Session(&gorm.Session{}).
		Select("MIN(started_at) AS first_departure, MAX(started_at) AS last_departure").
		Scan(&window).Error
	if err != nil {
		return nil, err
	}
	stats.FirstDeparture = window.FirstDeparture
	stats.LastDeparture = window.LastDeparture
	return stats, nil
}

// applyDOWFilter adds the day-of-week predicate. Postgres DOW: 0=Sunday.
func applyDOWFilter(query *gorm.DB, pattern TimePattern) *gorm.DB {
	switch pattern {
	case PatternWeekday:
		return query.Where("EXTRACT(DOW FROM started_at) BETWEEN 1 AND 5")
	case PatternWeekend:
		return query.Where("EXTRACT(DOW FROM started_at) IN (0, 6)")
	default:
		return query
	}
}
