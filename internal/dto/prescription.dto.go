package dto

import (
	"github.com/BruksfildServices01/clinic-server/internal/models"
	"github.com/BruksfildServices01/clinic-server/internal/timezone"
)

type PrescriptionDTO struct {
	PrescriptionID uint    `json:"prescription_id"`
	PatientID      string  `json:"patient_id"`
	DoctorID       string  `json:"doctor_id"`
	DoctorName     string  `json:"doctor_name"`
	Department     string  `json:"department"`
	MedicineName   string  `json:"medicine_name"`
	Dosage         string  `json:"dosage"`
	Usage          string  `json:"usage"`
	Frequency      string  `json:"frequency"`
	Quantity       int     `json:"quantity"`
	Notes          string  `json:"notes"`
	UnitPrice      float64 `json:"unit_price"`
	Amount         float64 `json:"amount"`
	PrescribedDate string  `json:"prescribed_date"`
	Status         string  `json:"status"`
}

func FromPrescription(p models.Prescription) PrescriptionDTO {
	return PrescriptionDTO{
		PrescriptionID: p.ID,
		PatientID:      p.PatientID,
		DoctorID:       p.DoctorID,
		DoctorName:     p.Doctor.User.DisplayName(),
		Department:     p.Doctor.Department,
		MedicineName:   p.MedicineName,
		Dosage:         p.Dosage,
		Usage:          p.Usage,
		Frequency:      p.Frequency,
		Quantity:       p.Quantity,
		Notes:          p.Notes,
		UnitPrice:      p.UnitPrice,
		Amount:         p.Amount,
		PrescribedDate: timezone.Format(p.PrescribedAt),
		Status:         p.Status,
	}
}

type HospitalizationDTO struct {
	ID            uint    `json:"id"`
	DoctorID      string  `json:"doctor_id"`
	DoctorName    string  `json:"doctor_name"`
	Department    string  `json:"department"`
	Diagnosis     string  `json:"diagnosis"`
	AdmissionDate string  `json:"admission_date"`
	Notes         string  `json:"notes"`
	Fee           float64 `json:"fee"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
}

func FromHospitalization(h models.HospitalizationApplication) HospitalizationDTO {
	return HospitalizationDTO{
		ID:            h.ID,
		DoctorID:      h.DoctorID,
		DoctorName:    h.Doctor.User.DisplayName(),
		Department:    h.Department,
		Diagnosis:     h.Diagnosis,
		AdmissionDate: h.AdmissionDate,
		Notes:         h.Notes,
		Fee:           h.Fee,
		Status:        h.Status,
		CreatedAt:     timezone.Format(h.CreatedAt),
	}
}
