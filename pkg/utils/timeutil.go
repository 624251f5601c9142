package utils

import (
	"time"
)

// IST is the Indian Standard Time location (UTC+5:30).
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback: create fixed zone if tz database is not available
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// NowIST returns the current time in IST.
func NowIST() time.Time {
	return time.Now().In(IST)
}

// ParseDateIST parses a date string in "2006-01-02" format and returns it in IST.
func ParseDateIST(dateStr string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", dateStr, IST)
}

// FormatDateIST formats a time.Time to "2006-01-02" in IST.
func FormatDateIST(t time.Time) string {
	return t.In(IST).Format("2006-01-02")
}

// FormatDateTimeIST formats a time.Time to "2006-01-02 15:04:05 IST".
func FormatDateTimeIST(t time.Time) string {
	return t.In(IST).Format("2006-01-02 15:04:05 IST")
}

// FormatLongDateIST formats a report date the way research notes print it:
// "February 3, 2026".
func FormatLongDateIST(t time.Time) string {
	return t.In(IST).Format("January 2, 2006")
}

// FormatMonthYear formats t as "February 2026".
func FormatMonthYear(t time.Time) string {
	return t.In(IST).Format("January 2006")
}

// OutlookRange describes an investment horizon starting at from:
// "February 2026 → February 2027" for a 12-month horizon.
func OutlookRange(from time.Time, months int) string {
	start := from.In(IST)
	end := time.Date(start.Year(), start.Month()+time.Month(months), 1, 0, 0, 0, 0, IST)
	return FormatMonthYear(start) + " → " + FormatMonthYear(end)
}
