package directions

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatDistance renders meters the way directions services do:
// "850 m", "12.3 km", "1,234.6 km". Kilometres are rounded to one decimal
// first since humanize truncates extra digits.
func FormatDistance(meters float64) string {
	m := math.Round(meters)
	if m < 1 {
		return "0 m"
	}
	if m < 1000 {
		return fmt.Sprintf("%d m", int64(m))
	}
	km := math.Round(meters/100) / 10
	return humanize.CommafWithDigits(km, 1) + " km"
}

// FormatDuration renders seconds as "1 min", "15 mins", "1 hour 5 mins",
// "2 days 3 hours", rounding to the nearest minute.
func FormatDuration(seconds float64) string {
	minutes := int64(math.Round(seconds / 60))
	if minutes < 1 {
		minutes = 1
	}

	days := minutes / (24 * 60)
	hours := (minutes % (24 * 60)) / 60
	mins := minutes % 60

	var parts []string
	switch {
	case days > 0:
		parts = append(parts, plural(days, "day"))
		if hours > 0 {
			parts = append(parts, plural(hours, "hour"))
		}
	case hours > 0:
		parts = append(parts, plural(hours, "hour"))
		if mins > 0 {
			parts = append(parts, plural(mins, "min"))
		}
	default:
		parts = append(parts, plural(mins, "min"))
	}
	return strings.Join(parts, " ")
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
