package apperr

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Reason codes written after `<TAG>_FAIL#`.
const (
	InvalidFormat   = "INVALID_FORMAT"
	InvalidDate     = "INVALID_DATE"
	InvalidQuantity = "INVALID_QUANTITY"
	InvalidIdentity = "INVALID_IDENTITY"
	InvalidField    = "INVALID_FIELD"
	InvalidImage    = "INVALID_IMAGE"
	InvalidStatus   = "INVALID_STATUS"

	UserNotFound        = "USER_NOT_FOUND"
	PatientNotFound     = "PATIENT_NOT_FOUND"
	DoctorNotFound      = "DOCTOR_NOT_FOUND"
	AppointmentNotFound = "APPOINTMENT_NOT_FOUND"
	PaymentItemNotFound = "PAYMENT_ITEM_NOT_FOUND"
	SenderNotFound      = "SENDER_NOT_FOUND"
	ReceiverNotFound    = "RECEIVER_NOT_FOUND"
	ImageNotFound       = "IMAGE_NOT_FOUND"

	NoSlotsAvailable = "NO_SLOTS_AVAILABLE"
	InvalidState     = "INVALID_STATE"
	AmountMismatch   = "AMOUNT_MISMATCH"
	AlreadyExists    = "ALREADY_EXISTS"
	NotAuthenticated = "NOT_AUTHENTICATED"

	InvalidCredentials = "INVALID_CREDENTIALS"

	DBError      = "DB_ERROR"
	StorageError = "STORAGE_ERROR"
	ServerError  = "SERVER_ERROR"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// Reason maps any error to the reason code sent to clients.
// Anything that is not a BusinessError is reported as DB_ERROR.
func Reason(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return DBError
}

func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// sqlite reports constraint failures only as text
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
