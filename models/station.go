package models

type Station struct {
	ID        uint    `gorm:"column:id;primaryKey" json:"id"`
	StationID string  `gorm:"column:station_id;uniqueIndex" json:"station_id"`
	Name      string  `gorm:"column:name" json:"name"`
	Latitude  float64 `gorm:"column:latitude" json:"latitude"`
	Longitude float64 `gorm:"column:longitude" json:"longitude"`
}

func (Station) TableName() string { return "stations" }
