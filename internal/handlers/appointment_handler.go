package handlers

import (
	"context"
	"strconv"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/protocol"
	"github.com/BruksfildServices01/clinic-server/internal/server"
	"github.com/BruksfildServices01/clinic-server/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	book    *appointment.MakeAppointment
	process *appointment.ProcessAppointment
	list    *appointment.ListAppointments
}

func NewAppointmentHandler(
	book *appointment.MakeAppointment,
	process *appointment.ProcessAppointment,
	list *appointment.ListAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		book:    book,
		process: process,
		list:    list,
	}
}

// ======================================================
// MAKE_APPOINTMENT#patientId#doctorId#date[#symptom]
// ======================================================

func (h *AppointmentHandler) Make(ctx context.Context, req *server.Request) protocol.Reply {
	m := req.Msg

	res, err := h.book.Execute(ctx, appointment.MakeAppointmentInput{
		PatientID: m.Field(1),
		DoctorID:  m.Field(2),
		Date:      m.Field(3),
		Symptom:   m.Tail(4),
	})
	if err != nil {
		return req.Error(err)
	}

	return req.OK(
		strconv.FormatUint(uint64(res.Appointment.ID), 10),
		res.Appointment.DoctorID,
		formatAmount(res.Fee),
	)
}

// ======================================================
// PROCESS_APPOINTMENT#apptId#doctorId#status
// ======================================================

func (h *AppointmentHandler) Process(ctx context.Context, req *server.Request) protocol.Reply {
	id, err := strconv.ParseUint(req.Msg.Field(1), 10, 64)
	if err != nil {
		return req.Fail(apperr.InvalidFormat)
	}

	ap, err := h.process.Execute(ctx, uint(id), req.Msg.Field(2), req.Msg.Field(3))
	if err != nil {
		return req.Error(err)
	}

	return req.OK(strconv.FormatUint(uint64(ap.ID), 10), ap.Status)
}

// ======================================================
// LISTS
// ======================================================

// ByDoctor serves APPOINTMENTS#doctorId.
func (h *AppointmentHandler) ByDoctor(ctx context.Context, req *server.Request) protocol.Reply {
	list, err := h.list.ByDoctor(ctx, req.Msg.Field(1))
	if err != nil {
		return req.Error(err)
	}
	return req.JSON(list)
}

// ByPatient serves GET_USER_APPOINTMENTS#patientId.
func (h *AppointmentHandler) ByPatient(ctx context.Context, req *server.Request) protocol.Reply {
	list, err := h.list.ByPatient(ctx, req.Msg.Field(1))
	if err != nil {
		return req.Error(err)
	}
	return req.JSON(list)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
