package classify

import "math"

// Similarity scores two strings from 0 (unrelated) to 100 (identical or
// one contained in the other).
type Similarity func(a, b string) int

// PartialRatio slides the shorter string over the longer one and returns
// the best Ratcliff/Obershelp ratio of any aligned window, scaled to 0-100.
// Either string being empty scores 0.
func PartialRatio(s1, s2 string) int {
	short, long := []rune(s1), []rune(s2)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		r := ratio(short, long[i:i+len(short)])
		if r > best {
			best = r
			if best == 1 {
				break
			}
		}
	}
	return int(math.Round(100 * best))
}

// Ratio returns the Ratcliff/Obershelp similarity of two strings, 0-100.
func Ratio(s1, s2 string) int {
	return int(math.Round(100 * ratio([]rune(s1), []rune(s2))))
}

func ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingRunes(a, b)) / float64(total)
}

// matchingRunes counts the runes in the recursively found longest common
// blocks of a and b.
func matchingRunes(a, b []rune) int {
	i, j, k := longestMatch(a, b)
	if k == 0 {
		return 0
	}
	return k + matchingRunes(a[:i], b[:j]) + matchingRunes(a[i+k:], b[j+k:])
}

// longestMatch finds the longest common block, preferring the earliest
// start in a and then in b.
func longestMatch(a, b []rune) (int, int, int) {
	bestI, bestJ, bestK := 0, 0, 0
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] != b[j-1] {
				cur[j] = 0
				continue
			}
			cur[j] = prev[j-1] + 1
			if cur[j] > bestK {
				bestK = cur[j]
				bestI, bestJ = i-bestK, j-bestK
			}
		}
		prev, cur = cur, prev
	}
	return bestI, bestJ, bestK
}
