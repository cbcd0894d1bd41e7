package attendance

import (
	"strings"
	"time"
)

// Record is one employee's attendance record for a calendar date, as
// returned by the upstream attendance service. Instants come back in a
// few slightly different shapes depending on the upstream version, so
// they are kept as strings and parsed leniently.
type Record struct {
	EmployeeID      string `json:"employeeId"`
	Date            string `json:"date"`
	CheckInTime     string `json:"checkInTime,omitempty"`
	CheckOutTime    string `json:"checkOutTime,omitempty"`
	WorkingHours    string `json:"workingHours,omitempty"`
	WorkDescription string `json:"workDescription,omitempty"`
	Status          string `json:"status,omitempty"`
}

// Day returns the record's calendar date portion ("2006-01-02").
func (r Record) Day() string {
	if i := strings.IndexByte(r.Date, 'T'); i >= 0 {
		return r.Date[:i]
	}
	return r.Date
}

// Open reports whether the record is a checked-in session without a
// checkout yet.
func (r Record) Open() bool {
	return r.CheckInTime != "" && r.CheckOutTime == ""
}

var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParseInstant parses an upstream timestamp string. ok is false when no
// known layout matches. Zone-less layouts are interpreted as UTC, which
// is what the upstream services emit.
func ParseInstant(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
