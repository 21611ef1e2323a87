// Package racetime converts between "M:SS" display strings and elapsed seconds.
package racetime

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mcoot/xctimer/internal/model"
)

var timeFormat = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// FormatTime renders seconds as minutes without padding and zero-padded seconds.
// Negative input is clamped to zero.
func FormatTime(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}

// ParseTime converts "M:SS" into seconds. Input without exactly one colon
// yields 0, and a part that does not start with a number counts as 0.
// Callers that need to reject bad input should use IsValidTimeFormat or ParseElapsed.
func ParseTime(text string) int {
	parts := strings.Split(text, ":")
	if len(parts) != 2 {
		return 0
	}
	return leadingInt(parts[0])*60 + leadingInt(parts[1])
}

// IsValidTimeFormat reports whether text is one or two minute digits,
// a colon, and two second digits below 60.
func IsValidTimeFormat(text string) bool {
	if !timeFormat.MatchString(text) {
		return false
	}
	secs := leadingInt(text[strings.IndexByte(text, ':')+1:])
	return secs >= 0 && secs < 60
}

// ParseElapsed validates text and returns its value in seconds
func ParseElapsed(text string) (int, error) {
	if !IsValidTimeFormat(text) {
		return 0, fmt.Errorf("%w: %q", model.ErrInvalidTimeFormat, text)
	}
	return ParseTime(text), nil
}

// leadingInt parses an optional sign followed by the longest run of decimal
// digits after leading whitespace, ignoring anything after it.
func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\n\r")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}
