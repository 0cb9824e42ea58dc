package models

import "time"

// Servicio dental (limpieza, ortodoncia, etc.). Misma vida que Location:
// referencia de solo lectura para el agendamiento.
type Service struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"size:100;not null" json:"name"`
	NameEN string `gorm:"size:100" json:"name_en"`
	Active bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
