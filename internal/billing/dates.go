package billing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var canonicalDatePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// Day-first numeric shapes, one pattern per separator so a mixed form like
// 15/03-2024 is not silently accepted.
var dayFirstDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`),
	regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`),
}

// dateLayouts are tried in order for date text that is neither canonical nor
// day-first numeric. NZ invoices mostly carry written-out dates.
var dateLayouts = []string{
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006/01/02",
	"02.01.2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// CanonicalDate converts heterogeneous date text to YYYY-MM-DD.
//
// Already-canonical input is returned unchanged. D/M/YYYY and D-M-YYYY are
// re-ordered and zero-padded. Anything else goes through the layout list.
// Unparseable text passes through unchanged and empty input stays empty;
// this function never fabricates a date.
func CanonicalDate(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	if canonicalDatePattern.MatchString(trimmed) {
		return trimmed
	}
	for _, pattern := range dayFirstDatePatterns {
		if m := pattern.FindStringSubmatch(trimmed); m != nil {
			day, _ := strconv.Atoi(m[1])
			month, _ := strconv.Atoi(m[2])
			return fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
		}
	}
	for _, layout := range dateLayouts {
		if date, err := time.Parse(layout, trimmed); err == nil {
			return date.Format("2006-01-02")
		}
	}
	return text
}

// DisplayDate renders a canonical date as DD/MM/YYYY for the printed
// invoice. Input that is not canonical passes through unchanged rather than
// erroring, so raw imported text survives to the document as-is.
func DisplayDate(text string) string {
	m := canonicalDatePattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return text
	}
	return fmt.Sprintf("%s/%s/%s", m[3], m[2], m[1])
}
