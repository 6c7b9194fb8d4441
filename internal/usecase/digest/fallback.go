package digest

import (
	"fmt"
	"strings"
	"time"

	"morning-brief/internal/usecase/aggregate"
)

const sectionRule = "=========="

// renderFallback produces the deterministic plain-text briefing used
// whenever no generation backend is available. It is a pure function of
// its inputs: same result, city and timestamp yield the same text.
func renderFallback(result aggregate.Result, city string, now time.Time) string {
	var b strings.Builder

	b.WriteString("Good morning!\n\n")
	fmt.Fprintf(&b, "Your Morning Briefing for %s\n\n", now.Format(promptTimeFormat))

	if len(result.News) > 0 {
		b.WriteString("NEWS HEADLINES:\n")
		b.WriteString(sectionRule + "\n")
		for _, item := range result.News {
			fmt.Fprintf(&b, "• %s\n", item.Title)
			fmt.Fprintf(&b, "  Source: %s\n\n", item.Source)
		}
	} else {
		b.WriteString("NEWS: No news items available at this time.\n\n")
	}

	if result.Weather != nil {
		w := result.Weather
		fmt.Fprintf(&b, "WEATHER IN %s:\n", strings.ToUpper(city))
		b.WriteString(sectionRule + "\n")
		fmt.Fprintf(&b, "Temperature: %.1f°C (feels like %.1f°C)\n", w.Temperature, w.FeelsLike)
		fmt.Fprintf(&b, "Condition: %s\n", w.Description)
		fmt.Fprintf(&b, "Humidity: %d%%\n", w.Humidity)
		fmt.Fprintf(&b, "Wind Speed: %.1f m/s\n\n", w.WindSpeed)
	} else {
		b.WriteString("WEATHER: Weather information unavailable.\n\n")
	}

	if len(result.Emails) > 0 {
		fmt.Fprintf(&b, "RECENT EMAILS (%d unread):\n", len(result.Emails))
		b.WriteString(sectionRule + "\n")
		for _, e := range result.Emails {
			fmt.Fprintf(&b, "• From: %s\n", e.Sender)
			fmt.Fprintf(&b, "  Subject: %s\n", e.Subject)
			fmt.Fprintf(&b, "  Preview: %s\n\n", e.Snippet)
		}
	} else {
		b.WriteString("EMAILS: No new emails found.\n\n")
	}

	b.WriteString("Have a wonderful day.\n")
	b.WriteString("\n---\n")
	b.WriteString("Kindly note that this is a basic briefing assembled without the usual summary service.")

	return b.String()
}
