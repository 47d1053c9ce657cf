package compare

import "strings"

// NormalizeString lower-cases and collapses internal whitespace so that
// comparisons ignore case and spacing noise from OCR.
func NormalizeString(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// StringSimilarity returns a symmetric similarity in [0,1] between two raw
// strings. Identical normalized strings score 1. Strings sharing no common
// substring of length 2 score 0. Otherwise the score is the normalized
// Levenshtein ratio 1 - distance/maxLen.
func StringSimilarity(a, b string) float64 {
	a = NormalizeString(a)
	b = NormalizeString(b)
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	if !shareBigram(a, b) {
		return 0
	}
	ar := []rune(a)
	br := []rune(b)
	maxLen := len(ar)
	if len(br) > maxLen {
		maxLen = len(br)
	}
	return 1 - float64(levenshtein(ar, br))/float64(maxLen)
}

func shareBigram(a, b string) bool {
	ar := []rune(a)
	for i := 0; i+1 < len(ar); i++ {
		if strings.Contains(b, string(ar[i:i+2])) {
			return true
		}
	}
	return false
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
