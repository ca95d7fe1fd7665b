package models

import "time"

// Intervalo bloqueado por el barbero (almuerzo, diligencia, día entero).
// Solo excluye horarios del lado de lectura; no contiene citas.
type BlockedInterval struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `gorm:"index;not null" json:"barber_id"`

	Date      string `gorm:"size:10;index;not null" json:"date"` // "YYYY-MM-DD"
	StartTime string `gorm:"size:5" json:"start_time"`           // "HH:MM"
	EndTime   string `gorm:"size:5" json:"end_time"`
	AllDay    bool   `gorm:"default:false" json:"all_day"`

	Reason string `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
