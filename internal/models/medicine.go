package models

import "time"

type Medicine struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name          string  `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Form          string  `gorm:"size:50" json:"form"`
	Specification string  `gorm:"size:100" json:"specification"`
	Manufacturer  string  `gorm:"size:100" json:"manufacturer"`
	Price         float64 `gorm:"not null" json:"price"`
	Indications   string  `gorm:"size:255" json:"indications"`
	Description   string  `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
