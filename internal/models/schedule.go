package models

import "time"

// Configuración de agenda de un barbero. Siempre una fila por barbero:
// nunca existe una fila "default" global.
type BarberSchedule struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `gorm:"uniqueIndex;not null" json:"barber_id"`

	OpenTime  string `gorm:"size:5;not null" json:"open_time"`  // "HH:MM"
	CloseTime string `gorm:"size:5;not null" json:"close_time"` // "HH:MM"

	SlotGranularityMin int `gorm:"default:15" json:"slot_granularity_min"`

	// Días libres como CSV de índices de día (0=domingo), ej: "0" o "0,1"
	DaysOff string `gorm:"size:20" json:"days_off"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Horario especial para un día de la semana. Un override gana sobre el
// horario default y sobre days_off para ese día.
type ScheduleOverride struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `gorm:"uniqueIndex:idx_override_barber_weekday;not null" json:"barber_id"`
	Weekday  int  `gorm:"uniqueIndex:idx_override_barber_weekday;not null" json:"weekday"`

	OpenTime  string `gorm:"size:5;not null" json:"open_time"`
	CloseTime string `gorm:"size:5;not null" json:"close_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
