package models

import (
	"math"
	"regexp"
	"strconv"
)

var durationPattern = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?`)

// ParseDuration converts a duration such as "1h30m", "45s" or "2h10s" into
// seconds. Components must appear in the order hours, minutes, seconds and
// each is optional. Input with no recognisable component yields 0, which
// callers treat as "no positive duration". A total that does not fit in an
// int also yields 0.
func ParseDuration(text string) int {
	m := durationPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	total := 0
	for i, unit := range [...]int{3600, 60, 1} {
		n := component(m[i+1])
		if n > (math.MaxInt-total)/unit {
			return 0
		}
		total += n * unit
	}
	return total
}

func component(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
