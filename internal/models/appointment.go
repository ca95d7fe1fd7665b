package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarberID uint `gorm:"index;not null" json:"barber_id"`
	Barber   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber"`

	ClientID uint   `gorm:"not null" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	ServiceID uint    `gorm:"not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	// Instantes absolutos (UTC). La proyección a hora local pasa
	// siempre por internal/timezone.
	StartTime time.Time `gorm:"index;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status   string `gorm:"size:20;default:'CONFIRMED'" json:"status"`
	BookedBy string `gorm:"size:20;default:'CLIENT'" json:"booked_by"`

	// Token público para que el cliente consulte/cancele sin login
	Token string `gorm:"size:36;uniqueIndex" json:"token"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	BookedByClient = "CLIENT"
	BookedByBarber = "BARBER"
)
