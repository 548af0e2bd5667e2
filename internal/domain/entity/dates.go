package entity

import (
	"strings"
	"time"
)

// DateLayout formato de fecha sin hora usado por los documentos.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	DateLayout,
}

// ParseDate interpreta una fecha ISO-8601 o YYYY-MM-DD.
// Las fechas sin hora se interpretan en UTC a medianoche.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate devuelve t como YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
