package models

import "time"

type HospitalizationApplication struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientID string `gorm:"size:20;not null;index" json:"patient_id"`
	DoctorID  string `gorm:"size:20;not null;index" json:"doctor_id"`
	Doctor    Doctor `gorm:"foreignKey:DoctorID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"doctor"`

	Department    string  `gorm:"size:100" json:"department"`
	Diagnosis     string  `gorm:"size:255" json:"diagnosis"`
	AdmissionDate string  `gorm:"size:10" json:"admission_date"`
	Notes         string  `gorm:"type:text" json:"notes"`
	Fee           float64 `gorm:"not null" json:"fee"`
	Status        string  `gorm:"size:20;not null;default:'pending_payment'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
