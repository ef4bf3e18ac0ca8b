package harvest

import (
	"regexp"
	"strings"
	"time"
)

// jpWeekday matches the parenthesized weekday Yahoo! News embeds in listing
// timestamps, e.g. "2024/9/29(月) 16:35".
var jpWeekday = regexp.MustCompile(`\([月火水木金土日]\)`)

const dateLayout = "2006/1/2 15:04"
const dateFormat = "2006/01/02 15:04"

// NormalizeDate canonicalizes a listing timestamp to "YYYY/MM/DD HH:MM".
// Strings that do not parse are returned unchanged: a raw date is better
// than a dropped record.
func NormalizeDate(raw string) string {
	cleaned := jpWeekday.ReplaceAllString(strings.TrimSpace(raw), "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	t, err := time.Parse(dateLayout, cleaned)
	if err != nil {
		return raw
	}
	return t.Format(dateFormat)
}
