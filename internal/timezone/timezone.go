package timezone

import "time"

const (
	DefaultTimezone = "Asia/Shanghai"

	// Layout is the wire format for timestamps sent to clients.
	Layout    = "2006-01-02 15:04:05"
	DayLayout = "2006-01-02"
)

var current = DefaultTimezone

// SetDefault switches the process timezone. Invalid names are ignored.
func SetDefault(tz string) {
	if IsValid(tz) {
		current = tz
	}
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.FixedZone("CST", 8*3600)
	}
	return loc
}

// Current is the process timezone set by SetDefault.
func Current() *time.Location {
	return Location(current)
}

func Now() time.Time {
	return time.Now().In(Location(current))
}

func Format(t time.Time) string {
	return t.In(Location(current)).Format(Layout)
}

// ParseDay reads the leading YYYY-MM-DD of a client date string.
func ParseDay(s string) (time.Time, error) {
	if len(s) < len(DayLayout) {
		return time.Time{}, &time.ParseError{Layout: DayLayout, Value: s}
	}
	return time.ParseInLocation(DayLayout, s[:len(DayLayout)], Location(current))
}

// Parse reads a full Layout timestamp in the process timezone.
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(Layout, s, Location(current))
}
