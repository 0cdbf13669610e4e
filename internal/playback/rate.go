package playback

import (
	"strconv"
	"strings"
	"time"
)

// DefaultWPM is used when the rate field does not hold a positive integer.
const DefaultWPM = 300

// minInterval keeps absurd rates from producing a zero ticker period.
const minInterval = time.Millisecond

// ParseRate parses a words-per-minute entry. ok is false when input was not a
// positive integer, in which case DefaultWPM is returned.
func ParseRate(input string) (wpm int, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n <= 0 {
		return DefaultWPM, false
	}
	return n, true
}

// Interval returns how long each word stays on screen at wpm.
func Interval(wpm int) time.Duration {
	if wpm <= 0 {
		wpm = DefaultWPM
	}
	d := time.Minute / time.Duration(wpm)
	if d < minInterval {
		d = minInterval
	}
	return d
}

// Percent returns cursor/total as a percentage in [0, 100].
func Percent(cursor, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(cursor) * 100 / float64(total)
}
