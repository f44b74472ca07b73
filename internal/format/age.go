package format

import (
	"fmt"
	"time"
)

// DateLayout renders a creation date the way the cards do, e.g. "Mar 4, 2024".
const DateLayout = "Jan 2, 2006"

// FormatAge formats a duration as a compact age: "now", "5m", "2h", "3d",
// "2w", "3mo", "1y".
func FormatAge(d time.Duration) string {
	if d < time.Minute {
		return "now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}

	days := int(d.Hours() / 24)
	switch {
	case days < 7:
		return fmt.Sprintf("%dd", days)
	case days < 30:
		return fmt.Sprintf("%dw", days/7)
	case days < 365:
		return fmt.Sprintf("%dmo", days/30)
	default:
		return fmt.Sprintf("%dy", days/365)
	}
}

// Age formats the time elapsed from t until now.
func Age(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return FormatAge(now.Sub(t))
}

// FormatDate renders t in local time using DateLayout.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(DateLayout)
}
