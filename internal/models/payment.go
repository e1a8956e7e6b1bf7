package models

import "time"

// PaymentItem is the single settlement point for every billable event.
type PaymentItem struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PatientID string `gorm:"size:20;not null;index" json:"patient_id"`

	Description   string  `gorm:"size:255;not null" json:"description"`
	Amount        float64 `gorm:"not null" json:"amount"`
	Status        string  `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Type          string  `gorm:"size:20;not null" json:"type"`
	ApplicationID string  `gorm:"size:50;index" json:"application_id"`

	CreatedAt time.Time  `json:"created_at"`
	PaidAt    *time.Time `json:"paid_at"`
}

// PaymentRecord is an append-only ledger entry.
type PaymentRecord struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PatientID string `gorm:"size:20;not null;index" json:"patient_id"`

	Amount        float64    `gorm:"not null" json:"amount"`
	PaymentTime   *time.Time `json:"payment_time"`
	PaymentMethod string     `gorm:"size:50" json:"payment_method"`
	Description   string     `gorm:"size:255" json:"description"`
	ApplicationID string     `gorm:"size:50;index" json:"application_id"`
	Status        string     `gorm:"size:20;not null;default:'settled'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
}
