package billing

import (
	"math"
	"regexp"
)

const (
	ItemPending = "pending"
	ItemPaid    = "paid"

	TypeAppointment     = "appointment"
	TypePrescription    = "prescription"
	TypeHospitalization = "hospitalization"
	TypeOther           = "other"

	RecordUnsettled  = "unsettled"
	RecordSettled    = "settled"
	RecordSuperseded = "superseded"

	DefaultMethod = "online"
)

const (
	// ItemTolerance matches a batch line to a stored item amount.
	ItemTolerance = 0.005
	// TotalTolerance compares a batch total with the matched items.
	TotalTolerance = 0.01
)

func AmountsEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// Round2 rounds to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var legacyAppointmentPattern = regexp.MustCompile(`(?i)(?:APPT_|appointment\s*(?:no\.?|#)?\s*|预约号[:：]?\s*)(\d+)`)

// LegacyRef pulls an appointment number out of a free-text description
// written by older clients that did not send application ids.
func LegacyRef(description string) (ApplicationRef, bool) {
	m := legacyAppointmentPattern.FindStringSubmatch(description)
	if m == nil {
		return ApplicationRef{}, false
	}
	ref := ParseApplicationRef(PrefixAppointment + m[1])
	return ref, !ref.IsNone()
}
