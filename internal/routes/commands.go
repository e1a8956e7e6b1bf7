package routes

import (
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-server/internal/audit"
	"github.com/BruksfildServices01/clinic-server/internal/config"
	"github.com/BruksfildServices01/clinic-server/internal/contentstore"
	"github.com/BruksfildServices01/clinic-server/internal/handlers"
	infraRepo "github.com/BruksfildServices01/clinic-server/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-server/internal/protocol"
	"github.com/BruksfildServices01/clinic-server/internal/server"
	"github.com/BruksfildServices01/clinic-server/internal/session"
	ucAccount "github.com/BruksfildServices01/clinic-server/internal/usecase/account"
	ucAppointment "github.com/BruksfildServices01/clinic-server/internal/usecase/appointment"
	ucChat "github.com/BruksfildServices01/clinic-server/internal/usecase/chat"
	ucHospitalization "github.com/BruksfildServices01/clinic-server/internal/usecase/hospitalization"
	ucPayment "github.com/BruksfildServices01/clinic-server/internal/usecase/payment"
	ucPrescription "github.com/BruksfildServices01/clinic-server/internal/usecase/prescription"
)

type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Sessions session.Store
	Relay    handlers.Relay
	Store    contentstore.Store
	Audit    audit.Sink
}

// Commands builds the TCP command table.
func Commands(d Deps) *server.Router {
	cfg := d.Config

	// ======================================================
	// INFRA
	// ======================================================
	accountRepo := infraRepo.NewAccountGormRepository(d.DB)
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	billingRepo := infraRepo.NewBillingGormRepository(d.DB)
	prescriptionRepo := infraRepo.NewPrescriptionGormRepository(d.DB)
	hospitalizationRepo := infraRepo.NewHospitalizationGormRepository(d.DB)
	chatRepo := infraRepo.NewChatGormRepository(d.DB)

	passwords := ucAccount.NewPasswords(cfg.PasswordMode)

	// ======================================================
	// HANDLERS
	// ======================================================
	accountHandler := handlers.NewAccountHandler(
		ucAccount.NewLogin(accountRepo, d.Audit, passwords),
		ucAccount.NewRegister(accountRepo, d.Audit, passwords, cfg.DefaultConsultationFee, cfg.ValidateEmailDomain),
		ucAccount.NewUserInfo(accountRepo, d.Store),
		ucAccount.NewUpdateUserInfo(accountRepo, d.Audit, d.Store, cfg.ValidateEmailDomain),
		d.Sessions,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		ucAppointment.NewMakeAppointment(appointmentRepo, d.Audit, cfg.DailyAppointmentCapacity),
		ucAppointment.NewProcessAppointment(appointmentRepo, d.Audit),
		ucAppointment.NewListAppointments(appointmentRepo),
	)

	prescriptionHandler := handlers.NewPrescriptionHandler(
		ucPrescription.NewSubmitPrescription(prescriptionRepo, d.Audit, cfg.DefaultMedicinePrice),
		ucPrescription.NewListPrescriptions(prescriptionRepo),
		ucHospitalization.NewSubmit(hospitalizationRepo, d.Audit),
		ucHospitalization.NewList(hospitalizationRepo),
		d.Relay,
	)

	paymentHandler := handlers.NewPaymentHandler(
		ucPayment.NewProcessSingle(billingRepo, d.Audit),
		ucPayment.NewProcessBatch(billingRepo, d.Audit),
		ucPayment.NewListBilling(billingRepo),
	)

	chatHandler := handlers.NewChatHandler(
		ucChat.NewSend(chatRepo, d.Store),
		ucChat.NewConversations(chatRepo),
		ucChat.NewGetImage(d.Store),
		d.Relay,
		d.Sessions,
	)

	// ======================================================
	// COMMANDS
	// ======================================================
	r := server.NewRouter()

	// ------------------------------
	// ACCOUNT
	// ------------------------------
	r.Handle(protocol.CmdLogin, server.Route{MinFields: 3, Public: true, Handler: accountHandler.Login})
	r.Handle(protocol.CmdRegister, server.Route{MinFields: 9, Public: true, Handler: accountHandler.Register})
	r.Handle(protocol.CmdUserInfo, server.Route{MinFields: 2, Handler: accountHandler.UserInfo})
	r.Handle(protocol.CmdUpdateUserInfo, server.Route{MinFields: 2, ReplyTag: "USERINFO_UPDATE", FailSuffix: "_FAILED", Handler: accountHandler.UpdateUserInfo})

	// ------------------------------
	// APPOINTMENTS
	// ------------------------------
	r.Handle(protocol.CmdMakeAppointment, server.Route{MinFields: 4, Handler: appointmentHandler.Make})
	r.Handle(protocol.CmdProcessAppointment, server.Route{MinFields: 4, Handler: appointmentHandler.Process})
	r.Handle(protocol.CmdAppointments, server.Route{MinFields: 2, Handler: appointmentHandler.ByDoctor})
	r.Handle(protocol.CmdGetUserAppointments, server.Route{MinFields: 2, Handler: appointmentHandler.ByPatient})

	// ------------------------------
	// PRESCRIPTIONS / HOSPITALIZATION
	// ------------------------------
	r.Handle(protocol.CmdSubmitPrescription, server.Route{MinFields: 8, ReplyTag: "PRESCRIPTION_SUBMIT", Handler: prescriptionHandler.Submit})
	r.Handle(protocol.CmdGetPatientPrescriptions, server.Route{MinFields: 2, Handler: prescriptionHandler.GetForPatient})
	r.Handle(protocol.CmdSubmitHospitalization, server.Route{MinFields: 7, Handler: prescriptionHandler.SubmitHospitalization})
	r.Handle(protocol.CmdGetHospitalization, server.Route{MinFields: 2, Handler: prescriptionHandler.GetHospitalization})

	// ------------------------------
	// PAYMENTS
	// ------------------------------
	r.Handle(protocol.CmdProcessPayment, server.Route{MinFields: 2, Handler: paymentHandler.Process})
	r.Handle(protocol.CmdGetPaymentItems, server.Route{MinFields: 2, Handler: paymentHandler.Items})
	r.Handle(protocol.CmdGetPaymentRecords, server.Route{MinFields: 2, Handler: paymentHandler.Records})

	// ------------------------------
	// CHAT / MEDIA
	// ------------------------------
	r.Handle(protocol.CmdSendMessage, server.Route{MinFields: 4, Handler: chatHandler.SendMessage})
	r.Handle(protocol.CmdSendImage, server.Route{MinFields: 5, Handler: chatHandler.SendImage})
	r.Handle(protocol.CmdGetChatHistory, server.Route{MinFields: 3, Handler: chatHandler.History})
	r.Handle(protocol.CmdGetContactList, server.Route{MinFields: 2, Handler: chatHandler.Contacts})
	r.Handle(protocol.CmdGetImage, server.Route{MinFields: 2, Handler: chatHandler.GetImage})

	// ------------------------------
	// VIDEO CALL SIGNALING (relay only)
	// ------------------------------
	r.Handle(protocol.CmdVideoCallReq, server.Route{MinFields: 3, Handler: chatHandler.VideoCall})
	r.Handle(protocol.CmdVideoCallResp, server.Route{MinFields: 4, Handler: chatHandler.VideoCall})
	r.Handle(protocol.CmdVideoCallEnd, server.Route{MinFields: 3, Handler: chatHandler.VideoCall})

	return r
}
