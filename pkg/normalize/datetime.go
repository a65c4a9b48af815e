package normalize

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeDate converts a source date value to YYYY-MM-DD.
//
// Accepted inputs, tried in order:
//   - "YYYY-MM-DD" optionally followed by a time suffix, which is truncated
//   - "DD-MM-YYYY", rearranged (the legacy plugin's pickup-date format)
//
// Anything else yields "".
func NormalizeDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	if len(value) >= 10 && isISODate(value[:10]) {
		return value[:10]
	}

	parts := strings.Split(value, "-")
	if len(parts) == 3 && len(parts[0]) == 2 && len(parts[1]) == 2 && len(parts[2]) == 4 {
		if allDigits(parts[0]) && allDigits(parts[1]) && allDigits(parts[2]) {
			return fmt.Sprintf("%s-%s-%s", parts[2], parts[1], parts[0])
		}
	}

	return ""
}

// NormalizeTime converts a source time value to 24-hour HH:MM. Values
// carrying an AM/PM marker are converted (12 AM maps to 00, 12 PM stays 12);
// everything else passes through unchanged.
func NormalizeTime(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	upper := strings.ToUpper(value)
	isPM := strings.Contains(upper, "PM")
	isAM := strings.Contains(upper, "AM")
	if !isPM && !isAM {
		return value
	}

	clock := strings.TrimSpace(strings.NewReplacer("AM", "", "PM", "", "am", "", "pm", "").Replace(value))
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return value
	}

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return value
	}
	minute := strings.TrimSpace(parts[1])

	if isPM && hour != 12 {
		hour += 12
	}
	if isAM && hour == 12 {
		hour = 0
	}

	return fmt.Sprintf("%02d:%s", hour, minute)
}

func isISODate(s string) bool {
	// YYYY-MM-DD
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	return allDigits(s[:4]) && allDigits(s[5:7]) && allDigits(s[8:])
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
