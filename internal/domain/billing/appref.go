package billing

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind says which record a payment item bills. The set is closed.
type Kind int

const (
	KindNone Kind = iota
	KindAppointment
	KindPrescription
	KindHospitalization
)

const (
	PrefixAppointment     = "APPT_"
	PrefixPrescription    = "PRESC_"
	PrefixHospitalization = "HOSP_"
)

func (k Kind) String() string {
	switch k {
	case KindAppointment:
		return "appointment"
	case KindPrescription:
		return "prescription"
	case KindHospitalization:
		return "hospitalization"
	default:
		return "none"
	}
}

// ApplicationRef is the parsed form of a payment item's application_id.
type ApplicationRef struct {
	Kind Kind
	ID   uint

	raw string
}

func AppointmentRef(id uint) ApplicationRef {
	return ApplicationRef{Kind: KindAppointment, ID: id}
}

func PrescriptionRef(id uint) ApplicationRef {
	return ApplicationRef{Kind: KindPrescription, ID: id}
}

func HospitalizationRef(id uint) ApplicationRef {
	return ApplicationRef{Kind: KindHospitalization, ID: id}
}

// ParseApplicationRef never fails: unknown prefixes and malformed ids
// yield KindNone, which settles nothing beyond the item itself.
func ParseApplicationRef(s string) ApplicationRef {
	s = strings.TrimSpace(s)
	for _, p := range []struct {
		prefix string
		kind   Kind
	}{
		{PrefixAppointment, KindAppointment},
		{PrefixPrescription, KindPrescription},
		{PrefixHospitalization, KindHospitalization},
	} {
		if !strings.HasPrefix(s, p.prefix) {
			continue
		}
		id, err := strconv.ParseUint(s[len(p.prefix):], 10, 64)
		if err != nil || id == 0 {
			break
		}
		return ApplicationRef{Kind: p.kind, ID: uint(id)}
	}
	return ApplicationRef{Kind: KindNone, raw: s}
}

func (r ApplicationRef) String() string {
	switch r.Kind {
	case KindAppointment:
		return fmt.Sprintf("%s%d", PrefixAppointment, r.ID)
	case KindPrescription:
		return fmt.Sprintf("%s%d", PrefixPrescription, r.ID)
	case KindHospitalization:
		return fmt.Sprintf("%s%d", PrefixHospitalization, r.ID)
	default:
		return r.raw
	}
}

func (r ApplicationRef) IsNone() bool {
	return r.Kind == KindNone
}
