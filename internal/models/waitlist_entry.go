package models

import "time"

type WaitlistEntry struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Date string `gorm:"size:10;index;not null" json:"date"` // "YYYY-MM-DD"

	ServiceID uint    `gorm:"not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20;not null" json:"phone"`

	Status   string `gorm:"size:20;default:'WAITING'" json:"status"`
	Notified bool   `gorm:"default:false" json:"notified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
