package validators

import (
	"regexp"
	"time"
)

var (
	phonePattern  = regexp.MustCompile(`^\d{11}$`)
	idCardPattern = regexp.MustCompile(`^\d{17}[\dXx]$`)
)

// IsBirthDate accepts YYYY-MM-DD dates that are not in the future.
func IsBirthDate(s string) bool {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return false
	}
	return !d.After(time.Now())
}

func IsIDCard(s string) bool {
	return idCardPattern.MatchString(s)
}

func IsPhone(s string) bool {
	return phonePattern.MatchString(s)
}
