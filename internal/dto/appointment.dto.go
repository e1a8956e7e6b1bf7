package dto

import (
	"time"

	"github.com/BruksfildServices01/clinic-server/internal/models"
	"github.com/BruksfildServices01/clinic-server/internal/timezone"
)

type AppointmentDTO struct {
	ID              uint   `json:"id"`
	PatientID       string `json:"patient_id"`
	PatientName     string `json:"patient_name"`
	Gender          string `json:"gender"`
	Age             int    `json:"age"`
	Phone           string `json:"phone"`
	DoctorID        string `json:"doctor_id"`
	DoctorName      string `json:"doctor_name"`
	Department      string `json:"department"`
	AppointmentDate string `json:"appointment_date"`
	Symptom         string `json:"symptom"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
}

func FromAppointment(ap models.Appointment, now time.Time) AppointmentDTO {
	return AppointmentDTO{
		ID:              ap.ID,
		PatientID:       ap.PatientID,
		PatientName:     ap.Patient.DisplayName(),
		Gender:          ap.Patient.Gender,
		Age:             Age(ap.Patient.BirthDate, now),
		Phone:           models.Deref(ap.Patient.Phone),
		DoctorID:        ap.DoctorID,
		DoctorName:      ap.Doctor.User.DisplayName(),
		Department:      ap.Doctor.Department,
		AppointmentDate: ap.AppointmentDate,
		Symptom:         ap.Symptom,
		Status:          ap.Status,
		CreatedAt:       timezone.Format(ap.CreatedAt),
	}
}

// Age in whole years at now; 0 when the birth date is unknown.
func Age(birthDate string, now time.Time) int {
	b, err := time.Parse(timezone.DayLayout, birthDate)
	if err != nil {
		return 0
	}
	age := now.Year() - b.Year()
	if now.Month() < b.Month() || (now.Month() == b.Month() && now.Day() < b.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
