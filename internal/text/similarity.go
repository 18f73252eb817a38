package text

import "strings"

// minSubstringLen is the length a token must exceed before partial containment counts
// as a match.
const minSubstringLen = 3

// Similarity scores how much of a overlaps b, in [0,1].
//
// Both strings are tokenized on whitespace. A token of a is matched when b holds an
// identical token, or when either token is longer than three characters and contains
// the other. The score is the number of matched tokens divided by the larger token
// count. Either side empty yields 0.
func Similarity(a, b string) float64 {
	left := Tokenize(a)
	right := Tokenize(b)
	if len(left) == 0 || len(right) == 0 {
		return 0
	}

	matched := 0
	for _, l := range left {
		for _, r := range right {
			if tokensMatch(l, r) {
				matched++
				break
			}
		}
	}

	return float64(matched) / float64(max(len(left), len(right)))
}

func tokensMatch(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) > minSubstringLen && strings.Contains(b, a) {
		return true
	}
	return len(b) > minSubstringLen && strings.Contains(a, b)
}
