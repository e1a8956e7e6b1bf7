package protocol

// Command is the leading field of every request line. The set is closed:
// anything not listed here is an unknown command.
type Command string

const (
	CmdLogin    Command = "LOGIN"
	CmdRegister Command = "REGISTER"

	CmdUserInfo       Command = "USERINFO"
	CmdUpdateUserInfo Command = "UPDATE_USERINFO"

	CmdMakeAppointment     Command = "MAKE_APPOINTMENT"
	CmdProcessAppointment  Command = "PROCESS_APPOINTMENT"
	CmdAppointments        Command = "APPOINTMENTS"
	CmdGetUserAppointments Command = "GET_USER_APPOINTMENTS"

	CmdSubmitPrescription      Command = "SUBMIT_PRESCRIPTION"
	CmdGetPatientPrescriptions Command = "GET_PATIENT_PRESCRIPTIONS"

	CmdSubmitHospitalization Command = "SUBMIT_HOSPITALIZATION"
	CmdGetHospitalization    Command = "GET_HOSPITALIZATION"

	CmdProcessPayment    Command = "PROCESS_PAYMENT"
	CmdGetPaymentItems   Command = "GET_PAYMENT_ITEMS"
	CmdGetPaymentRecords Command = "GET_PAYMENT_RECORDS"

	CmdSendMessage     Command = "SEND_MESSAGE"
	CmdSendImage       Command = "SEND_IMAGE"
	CmdGetChatHistory  Command = "GET_CHAT_HISTORY"
	CmdGetContactList  Command = "GET_CONTACT_LIST"
	CmdGetImage        Command = "GET_IMAGE"
	CmdVideoCallReq    Command = "VIDEO_CALL_REQUEST"
	CmdVideoCallResp   Command = "VIDEO_CALL_RESPONSE"
	CmdVideoCallEnd    Command = "VIDEO_CALL_END"
)

// Push tags sent to a user outside any request/reply exchange.
const (
	PushNewMessage          = "NEW_MESSAGE"
	PushPrescriptionUpdated = "PRESCRIPTION_UPDATED"
	PushAppointmentReminder = "APPOINTMENT_REMINDER"
)

// Commands lists the full vocabulary in a stable order.
var Commands = []Command{
	CmdLogin, CmdRegister,
	CmdUserInfo, CmdUpdateUserInfo,
	CmdMakeAppointment, CmdProcessAppointment, CmdAppointments, CmdGetUserAppointments,
	CmdSubmitPrescription, CmdGetPatientPrescriptions,
	CmdSubmitHospitalization, CmdGetHospitalization,
	CmdProcessPayment, CmdGetPaymentItems, CmdGetPaymentRecords,
	CmdSendMessage, CmdSendImage, CmdGetChatHistory, CmdGetContactList, CmdGetImage,
	CmdVideoCallReq, CmdVideoCallResp, CmdVideoCallEnd,
}
