package matching

import (
	"regexp"
	"strconv"
)

var firstInteger = regexp.MustCompile(`\d+`)

// ExtractRate returns the first integer embedded in a free-text pay string, so
// "$25-35/hr" reads as 25. This is a lenient, lossy convention: ranges collapse to
// their lower bound and units are ignored. A rate of zero counts as missing.
func ExtractRate(pay string) (int, bool) {
	digits := firstInteger.FindString(pay)
	if digits == "" {
		return 0, false
	}

	rate, err := strconv.Atoi(digits)
	if err != nil || rate <= 0 {
		return 0, false
	}
	return rate, true
}
