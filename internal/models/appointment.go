package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientID string `gorm:"size:20;not null;index" json:"patient_id"`
	Patient   User   `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"patient"`

	DoctorID string `gorm:"size:20;not null;index:idx_appointments_doctor_day,priority:1" json:"doctor_id"`
	Doctor   Doctor `gorm:"foreignKey:DoctorID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"doctor"`

	// AppointmentDate is kept as sent by the client; Day is its YYYY-MM-DD prefix.
	AppointmentDate string `gorm:"size:32;not null" json:"appointment_date"`
	Day             string `gorm:"size:10;not null;default:'';index:idx_appointments_doctor_day,priority:2" json:"day"`

	Symptom string `gorm:"size:255" json:"symptom"`
	Status  string `gorm:"size:20;default:'pending'" json:"status"`

	ReminderSentAt *time.Time `json:"reminder_sent_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
