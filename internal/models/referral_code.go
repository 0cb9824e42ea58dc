package models

import "time"

// Código de referido de un paciente existente. Se guarda normalizado en
// mayúsculas; este subsistema solo lo consulta, la cuenta lo administra.
type ReferralCode struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:30;uniqueIndex;not null" json:"code"`

	OwnerName  string `gorm:"size:100" json:"owner_name"`
	OwnerEmail string `gorm:"size:100" json:"owner_email"`
	Active     bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
