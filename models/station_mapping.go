package models

// StationMapping reconciles the two station identifier namespaces: the
// GBFS catalog keys stations by UUID while the historical trip log uses
// legacy numeric codes. Trips whose legacy id has no mapping row are
// invisible to the aggregate queries.
type StationMapping struct {
	UUIDStationID    string `gorm:"column:uuid_station_id;primaryKey" json:"uuid_station_id"`
	NumericStationID string `gorm:"column:numeric_station_id" json:"numeric_station_id"`
	StationName      string `gorm:"column:station_name" json:"station_name"`
}

func (StationMapping) TableName() string { return "station_mapping" }
