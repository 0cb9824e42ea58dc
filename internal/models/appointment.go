package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Índice único parcial: una sola cita activa por (sucursal, fecha, hora).
	// Las canceladas quedan fuera del índice y liberan el horario.
	LocationID uint     `gorm:"uniqueIndex:uniq_active_slot,where:status <> 'cancelled'" json:"location_id"`
	Location   Location `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	// Denormalizados para el correo de confirmación.
	LocationName string `gorm:"size:100" json:"location_name"`
	ServiceName  string `gorm:"size:100" json:"service_name"`

	// Fecha local de la clínica (YYYY-MM-DD) y hora del grid (HH:MM).
	Date string `gorm:"size:10;uniqueIndex:uniq_active_slot" json:"appointment_date"`
	Time string `gorm:"size:5;uniqueIndex:uniq_active_slot" json:"appointment_time"`

	PatientName  string `gorm:"size:100;not null" json:"patient_name"`
	PatientPhone string `gorm:"size:20;not null" json:"patient_phone"`
	PatientEmail string `gorm:"size:100;not null" json:"patient_email"`

	ReferralCode string `gorm:"size:30" json:"referral_code,omitempty"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	ConfirmationToken string `gorm:"size:64;uniqueIndex" json:"-"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
