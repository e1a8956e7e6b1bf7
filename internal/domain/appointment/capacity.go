package appointment

import (
	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/timezone"
)

// Day extracts the YYYY-MM-DD a booking counts against.
func Day(date string) (string, error) {
	d, err := timezone.ParseDay(date)
	if err != nil {
		return "", apperr.ErrBusiness(apperr.InvalidDate)
	}
	return d.Format(timezone.DayLayout), nil
}

// AssertCapacity fails once a doctor-day holds capacity non-cancelled bookings.
func AssertCapacity(booked int64, capacity int) error {
	if booked >= int64(capacity) {
		return apperr.ErrBusiness(apperr.NoSlotsAvailable)
	}
	return nil
}
