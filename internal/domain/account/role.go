package account

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/models"
)

const (
	PrefixPatient = "11"
	PrefixDoctor  = "12"
)

// RoleFromIdentity maps the registration identity field to a role and
// the id prefix for that role.
func RoleFromIdentity(identity string) (role, prefix string, err error) {
	switch strings.ToLower(strings.TrimSpace(identity)) {
	case "patient", "病患", "患者":
		return models.RolePatient, PrefixPatient, nil
	case "doctor", "医生":
		return models.RoleDoctor, PrefixDoctor, nil
	default:
		return "", "", apperr.ErrBusiness(apperr.InvalidIdentity)
	}
}

// NextID returns prefix followed by one more than the largest numeric
// suffix among existing, zero-padded to four digits.
func NextID(prefix string, existing []string) string {
	max := 0
	for _, id := range existing {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		n, err := strconv.Atoi(id[len(prefix):])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%04d", prefix, max+1)
}
