package schema

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DayLabelFormat is the layout used for x-axis labels.
const DayLabelFormat = "Jan 2"

// FormatShortValue renders an axis value compactly: "950", "1.5 K", "2.3 M".
// At most one fractional digit is kept and a trailing ".0" is dropped.
func FormatShortValue(v int) string {
	switch {
	case v < 1000:
		return strconv.Itoa(v)
	case v < 1_000_000:
		return formatOneDecimal(float64(v)/1000) + " K"
	default:
		return formatOneDecimal(float64(v)/1_000_000) + " M"
	}
}

func formatOneDecimal(f float64) string {
	return strconv.FormatFloat(math.Round(f*10)/10, 'f', -1, 64)
}

// TimeFromMillis converts a millisecond epoch timestamp to a UTC time.
func TimeFromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// NearestDay moves a time at or after noon UTC onto the following day so that
// date-only labels name the closest calendar day.
func NearestDay(t time.Time) time.Time {
	t = t.UTC()
	if t.Hour() >= 12 {
		return t.AddDate(0, 0, 1)
	}
	return t
}

// FormatDayLabel renders a millisecond timestamp as a short date label.
func FormatDayLabel(ms int64) string {
	return NearestDay(TimeFromMillis(ms)).Format(DayLabelFormat)
}

// FormatSeriesNames joins the names of the given series for compact display.
func FormatSeriesNames(series []SeriesDescriptor, onlyEnabled bool) string {
	var names []string
	for _, s := range series {
		if onlyEnabled && !s.Enabled {
			continue
		}
		names = append(names, s.Name)
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
