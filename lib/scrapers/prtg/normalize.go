package prtg

import (
	"regexp"
	"strings"
	"time"
)

const (
	StatusActive = "Active"
	StatusPaused = "Paused"
)

// NormalizeStatus maps the raw `active` input value onto the two known
// account states. Unknown encodings pass through unchanged rather than
// being coerced.
func NormalizeStatus(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "-1", "1", "true":
		return StatusActive
	case "0", "false":
		return StatusPaused
	}
	return raw
}

var (
	dateTimeText = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4} \d{1,2}:\d{2}:\d{2} (AM|PM)$`)
	bareDateText = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}$`)
)

const (
	dateTimeLayout = "1/2/2006 3:04:05 PM"
	bareDateLayout = "1/2/2006"
)

// NormalizeLastLogin re-renders numeric login timestamps as M/D/YYYY.
// Text that doesn't look like a date at all (the vendor's "(has not
// logged in yet)" message, sentinels) stays verbatim, and so does a
// numeric-looking string that fails to parse as a real date.
func NormalizeLastLogin(raw string) string {
	s := strings.TrimSpace(raw)

	switch {
	case dateTimeText.MatchString(s):
		if t, err := time.Parse(dateTimeLayout, s); err == nil {
			return t.Format(bareDateLayout)
		}
	case bareDateText.MatchString(s):
		if t, err := time.Parse(bareDateLayout, s); err == nil {
			return t.Format(bareDateLayout)
		}
	}
	return raw
}
