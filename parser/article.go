package parser

import "regexp"

// articlePattern matches DDD.DDD.DD article codes written with '.' or '-'.
// Surrounding digits are excluded so longer numbers are not split.
var articlePattern = regexp.MustCompile(`(?:^|\D)(\d{3})[.-](\d{3})[.-](\d{2})(?:\D|$)`)

// articleMatch is one article code found in a source string.
type articleMatch struct {
	Number     string // canonical DDD.DDD.DD
	Start, End int    // byte offsets of the code itself
}

// findArticles returns every article code in s in order of appearance.
func findArticles(s string) []articleMatch {
	var out []articleMatch
	offset := 0
	for offset < len(s) {
		loc := articlePattern.FindStringSubmatchIndex(s[offset:])
		if loc == nil {
			break
		}
		start, end := offset+loc[2], offset+loc[7]
		out = append(out, articleMatch{
			Number: s[offset+loc[2]:offset+loc[3]] + "." + s[offset+loc[4]:offset+loc[5]] + "." + s[offset+loc[6]:offset+loc[7]],
			Start:  start,
			End:    end,
		})
		// Resume right after the code so an adjacent code sharing the
		// separator is still found.
		offset = end
	}
	return out
}

// firstArticle returns the first canonical article code in s, or "".
func firstArticle(s string) string {
	if m := findArticles(s); len(m) > 0 {
		return m[0].Number
	}
	return ""
}
