package model

import (
	"time"
)

// Wildfire представляет зарегистрированный пожар в базе данных
type Wildfire struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	FireYear  int     `gorm:"not null;index:idx_wildfires_year_state" json:"fire_year"`
	State     string  `gorm:"type:varchar(8);not null;index:idx_wildfires_year_state" json:"state"`
	Latitude  float64 `gorm:"not null" json:"latitude"`
	Longitude float64 `gorm:"not null" json:"longitude"`
	FireSize  float64 `gorm:"not null;default:0" json:"fire_size"` // Площадь в акрах

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName указывает имя таблицы для Wildfire
func (Wildfire) TableName() string {
	return "wildfires"
}
