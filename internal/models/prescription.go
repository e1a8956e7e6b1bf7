package models

import "time"

type Prescription struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientID string `gorm:"size:20;not null;index" json:"patient_id"`
	DoctorID  string `gorm:"size:20;not null;index" json:"doctor_id"`
	Doctor    Doctor `gorm:"foreignKey:DoctorID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"doctor"`

	MedicineName string  `gorm:"size:100;not null" json:"medicine_name"`
	Dosage       string  `gorm:"size:100" json:"dosage"`
	Usage        string  `gorm:"size:100" json:"usage"`
	Frequency    string  `gorm:"size:100" json:"frequency"`
	Quantity     int     `gorm:"not null" json:"quantity"`
	Notes        string  `gorm:"type:text" json:"notes"`
	UnitPrice    float64 `json:"unit_price"`
	Amount       float64 `json:"amount"`

	PrescribedAt time.Time `json:"prescribed_at"`
	Status       string    `gorm:"size:20;not null;default:'active'" json:"status"`

	UpdatedAt time.Time `json:"updated_at"`
}
