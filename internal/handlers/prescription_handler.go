package handlers

import (
	"context"
	"strconv"

	"github.com/BruksfildServices01/clinic-server/internal/protocol"
	"github.com/BruksfildServices01/clinic-server/internal/server"
	"github.com/BruksfildServices01/clinic-server/internal/usecase/hospitalization"
	"github.com/BruksfildServices01/clinic-server/internal/usecase/prescription"
)

// ======================================================
// HANDLER
// ======================================================

type PrescriptionHandler struct {
	submit   *prescription.SubmitPrescription
	list     *prescription.ListPrescriptions
	admit    *hospitalization.Submit
	admitted *hospitalization.List
	relay    Relay
}

func NewPrescriptionHandler(
	submit *prescription.SubmitPrescription,
	list *prescription.ListPrescriptions,
	admit *hospitalization.Submit,
	admitted *hospitalization.List,
	relay Relay,
) *PrescriptionHandler {
	return &PrescriptionHandler{
		submit:   submit,
		list:     list,
		admit:    admit,
		admitted: admitted,
		relay:    relay,
	}
}

// ======================================================
// SUBMIT_PRESCRIPTION#patientId#doctorId#medicine#dosage#usage#frequency#quantity[#notes]
// ======================================================

func (h *PrescriptionHandler) Submit(ctx context.Context, req *server.Request) protocol.Reply {
	m := req.Msg

	res, err := h.submit.Execute(ctx, prescription.SubmitPrescriptionInput{
		PatientID:    m.Field(1),
		DoctorID:     m.Field(2),
		MedicineName: m.Field(3),
		Dosage:       m.Field(4),
		Usage:        m.Field(5),
		Frequency:    m.Field(6),
		Quantity:     m.Field(7),
		Notes:        m.Tail(8),
	})
	if err != nil {
		return req.Error(err)
	}

	id := strconv.FormatUint(uint64(res.Prescription.ID), 10)
	h.relay.Send(res.Prescription.PatientID, protocol.PushPrescriptionUpdated+protocol.Separator+id)

	return req.OK(id)
}

// GetForPatient serves GET_PATIENT_PRESCRIPTIONS#patientId.
func (h *PrescriptionHandler) GetForPatient(ctx context.Context, req *server.Request) protocol.Reply {
	list, err := h.list.Execute(ctx, req.Msg.Field(1))
	if err != nil {
		return req.Error(err)
	}
	return req.JSON(list)
}

// ======================================================
// SUBMIT_HOSPITALIZATION#patientId#doctorId#department#diagnosis#admission_date#fee[#notes]
// ======================================================

func (h *PrescriptionHandler) SubmitHospitalization(ctx context.Context, req *server.Request) protocol.Reply {
	m := req.Msg

	app, err := h.admit.Execute(ctx, hospitalization.SubmitInput{
		PatientID:     m.Field(1),
		DoctorID:      m.Field(2),
		Department:    m.Field(3),
		Diagnosis:     m.Field(4),
		AdmissionDate: m.Field(5),
		Fee:           m.Field(6),
		Notes:         m.Tail(7),
	})
	if err != nil {
		return req.Error(err)
	}
	return req.OK(strconv.FormatUint(uint64(app.ID), 10))
}

// GetHospitalization serves GET_HOSPITALIZATION#patientId.
func (h *PrescriptionHandler) GetHospitalization(ctx context.Context, req *server.Request) protocol.Reply {
	list, err := h.admitted.Execute(ctx, req.Msg.Field(1))
	if err != nil {
		return req.Error(err)
	}
	return req.JSON(list)
}
