package library

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/stwalsh4118/kodiserv/internal/kodi"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Match is a library movie scored against a query, 1.0 being identical
type Match struct {
	MovieID int     `json:"movieid"`
	Label   string  `json:"label"`
	Score   float64 `json:"score"`
}

// Normalize folds case, strips diacritics and collapses whitespace so that
// "Amélie " and "amelie" compare equal
func Normalize(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// Similarity returns 1 - editDistance/longestLength over normalized titles
func Similarity(a, b string) float64 {
	a, b = Normalize(a), Normalize(b)
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// CloseMatches returns up to n movies scoring at least cutoff against query,
// best first. Ties keep library order.
func CloseMatches(query string, movies []kodi.Movie, n int, cutoff float64) []Match {
	matches := make([]Match, 0, n)
	if n <= 0 {
		return matches
	}
	for _, m := range movies {
		score := Similarity(query, m.Label)
		if score >= cutoff {
			matches = append(matches, Match{MovieID: m.MovieID, Label: m.Label, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches
}
