package storage

import (
	"fmt"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	TimeLayout      = "15:04:05"
	TimestampLayout = "2006-01-02 15:04:05"
)

// FormatDate renders a driver value of a DATE column as text.
func FormatDate(v interface{}) string {
	return formatValue(v, DateLayout)
}

// FormatTime renders a driver value of a TIME column as text.
func FormatTime(v interface{}) string {
	return formatValue(v, TimeLayout)
}

// FormatTimestamp renders a driver value of a TIMESTAMP/DATETIME column as text.
func FormatTimestamp(v interface{}) string {
	return formatValue(v, TimestampLayout)
}

func formatValue(v interface{}, layout string) string {
	switch val := v.(type) {
	case nil:
		return ""
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format(layout)
	case *time.Time:
		if val == nil {
			return ""
		}
		return formatValue(*val, layout)
	case []byte:
		return string(val)
	case string:
		return val
	case time.Duration:
		return formatDuration(val)
	default:
		return fmt.Sprint(val)
	}
}

// MySQL TIME columns may be scanned as a duration since midnight.
func formatDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
}
