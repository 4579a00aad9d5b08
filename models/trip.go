package models

import "time"

type Trip struct {
	ID             uint      `gorm:"column:id;primaryKey" json:"id"`
	BikeID         string    `gorm:"column:bike_id" json:"bike_id"`
	StartStationID string    `gorm:"column:start_station_id" json:"start_station_id"`
	EndStationID   string    `gorm:"column:end_station_id" json:"end_station_id"`
	StartedAt      time.Time `gorm:"column:started_at" json:"started_at"`
	EndedAt        time.Time `gorm:"column:ended_at" json:"ended_at"`
}

func (Trip) TableName() string { return "trips" }
