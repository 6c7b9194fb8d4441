package digest

import (
	"fmt"
	"strings"
	"time"

	"morning-brief/internal/usecase/aggregate"
)

// promptTimeFormat renders the current time the way the briefing reads
// it aloud, e.g. "Monday, January 02, 2006 at 07:04 AM".
const promptTimeFormat = "Monday, January 02, 2006 at 03:04 PM"

// buildPrompt composes the butler-persona synthesis prompt from the
// aggregated material. Section blocks are omitted when their data is
// absent, except email, which always carries an explicit sentence so
// the model never invents correspondence.
func buildPrompt(result aggregate.Result, city string, now time.Time) string {
	var b strings.Builder

	b.WriteString("You are a distinguished British butler with impeccable manners and eloquent speech. ")
	b.WriteString("Your task is to prepare a charming morning briefing for your employer.\n\n")
	fmt.Fprintf(&b, "Current time: %s\n\n", now.Format(promptTimeFormat))
	b.WriteString("Please compose an elegant, informative, and slightly witty morning briefing that includes:\n\n")

	if len(result.News) > 0 {
		b.WriteString("NEWS HEADLINES:\n")
		for _, item := range result.News {
			fmt.Fprintf(&b, "- %s (%s)\n", item.Title, item.Source)
		}
		b.WriteString("\n")
	}

	if result.Weather != nil {
		w := result.Weather
		fmt.Fprintf(&b, "WEATHER IN %s:\n", strings.ToUpper(city))
		fmt.Fprintf(&b, "Temperature: %.1f°C (feels like %.1f°C)\n", w.Temperature, w.FeelsLike)
		fmt.Fprintf(&b, "Condition: %s\n", w.Description)
		fmt.Fprintf(&b, "Humidity: %d%%\n", w.Humidity)
		fmt.Fprintf(&b, "Wind Speed: %.1f m/s\n\n", w.WindSpeed)
	}

	if len(result.Emails) > 0 {
		fmt.Fprintf(&b, "RECENT EMAILS (%d unread):\n", len(result.Emails))
		for _, e := range result.Emails {
			fmt.Fprintf(&b, "- From: %s\n", e.Sender)
			fmt.Fprintf(&b, "  Subject: %s\n", e.Subject)
			fmt.Fprintf(&b, "  Preview: %s\n\n", e.Snippet)
		}
	} else {
		b.WriteString("EMAILS: No new correspondence has arrived this morning.\n\n")
	}

	b.WriteString("Format this as a proper butler's briefing with:\n")
	b.WriteString("- A courteous greeting\n")
	b.WriteString("- Well-organized sections for news, weather, and emails\n")
	b.WriteString("- Sophisticated language and subtle British humor\n")
	b.WriteString("- Practical advice or observations where appropriate\n")
	b.WriteString("- A polite closing\n\n")
	b.WriteString("IMPORTANT FORMATTING RULES:\n")
	b.WriteString("- Do NOT use any markdown formatting like ** or * for bold text\n")
	b.WriteString("- Do NOT include placeholder text describing what you would do\n")
	b.WriteString("- Write in plain text only\n")
	b.WriteString("- If there are emails, provide actual summaries, not placeholders\n")
	b.WriteString("- If there are no emails, simply state \"No new correspondence has arrived this morning, sir\"\n")
	b.WriteString("- Keep the tone professional yet warm, and make it engaging to read over morning coffee\n\n")
	b.WriteString("Write the complete briefing without any placeholders or markdown formatting.")

	return b.String()
}
