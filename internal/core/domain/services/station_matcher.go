package services

import (
	"math"
	"sort"
	"strings"

	"parcelbridge/internal/core/domain/model/station"

	"github.com/sahilm/fuzzy"
)

// Match scores, highest first.
const (
	ScoreCodeExact    = 100
	ScoreNameExact    = 90
	ScoreNamePrefix   = 75
	ScoreCodePrefix   = 70
	ScoreNameContains = 60
	ScoreAbbrevMax    = 58
	ScoreAbbrevMin    = 50
	ScoreFuzzyMax     = 45
	ScoreFuzzyMin     = 10

	// DefaultMatchThreshold is the lowest score that resolves a term to a station.
	DefaultMatchThreshold = 50
)

// ScoredStation is a candidate with its match score.
type ScoredStation struct {
	Station station.Station
	Score   int
}

// StationMatcher ranks stations against user-typed text. Ranking is
// deterministic: score descending, then shorter name, then code.
type StationMatcher struct {
	threshold int
}

func NewStationMatcher() StationMatcher {
	return StationMatcher{threshold: DefaultMatchThreshold}
}

// NormalizeTerm trims, upper-cases and collapses inner whitespace.
func NormalizeTerm(term string) string {
	return strings.Join(strings.Fields(strings.ToUpper(term)), " ")
}

// Rank returns candidates that match term at all, best first.
func (m StationMatcher) Rank(term string, candidates []station.Station) []ScoredStation {
	t := NormalizeTerm(term)
	if t == "" || len(candidates) == 0 {
		return nil
	}

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = NormalizeTerm(c.Name())
	}

	fuzzyScores := make(map[int]int)
	for _, fm := range fuzzy.Find(t, names) {
		fuzzyScores[fm.Index] = scaleFuzzy(len(t), len(names[fm.Index]), fm.MatchedIndexes)
	}

	ranked := make([]ScoredStation, 0, len(candidates))
	for i, c := range candidates {
		score := directScore(t, c.Code(), names[i])
		if score == 0 {
			score = abbrevScore(t, names[i])
		}
		if score == 0 {
			score = fuzzyScores[i]
		}
		if score > 0 {
			ranked = append(ranked, ScoredStation{Station: c, Score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if la, lb := len(a.Station.Name()), len(b.Station.Name()); la != lb {
			return la < lb
		}
		return a.Station.Code() < b.Station.Code()
	})
	return ranked
}

// Best returns the top-ranked station when its score reaches the threshold.
func (m StationMatcher) Best(term string, candidates []station.Station) (ScoredStation, bool) {
	ranked := m.Rank(term, candidates)
	if len(ranked) == 0 || ranked[0].Score < m.threshold {
		return ScoredStation{}, false
	}
	return ranked[0], true
}

func directScore(term, code, name string) int {
	switch {
	case code == term:
		return ScoreCodeExact
	case name == term:
		return ScoreNameExact
	case strings.HasPrefix(name, term):
		return ScoreNamePrefix
	case strings.HasPrefix(code, term):
		return ScoreCodePrefix
	case strings.Contains(name, term):
		return ScoreNameContains
	default:
		return 0
	}
}

// abbrevScore scores a term whose words shorten the name's words in order, such
// as "KALYAN JN" for "KALYAN JUNCTION" or "LONAVLA" for "LONAVALA". Each term
// word must start with the first letter of a name word and be a subsequence of
// it. The score grows with the share of the name's letters the term keeps.
func abbrevScore(term, name string) int {
	termWords := strings.Fields(term)
	nameWords := strings.Fields(name)

	next := 0
	for _, tw := range termWords {
		found := false
		for next < len(nameWords) {
			nw := nameWords[next]
			next++
			if tw[0] == nw[0] && isSubsequence(tw, nw) {
				found = true
				break
			}
		}
		if !found {
			return 0
		}
	}

	kept := float64(letterCount(termWords)) / float64(max(letterCount(nameWords), 1))
	return ScoreAbbrevMin + int(math.Round(float64(ScoreAbbrevMax-ScoreAbbrevMin)*math.Min(kept, 1)))
}

func isSubsequence(sub, s string) bool {
	i := 0
	for j := 0; j < len(s) && i < len(sub); j++ {
		if s[j] == sub[i] {
			i++
		}
	}
	return i == len(sub)
}

func letterCount(words []string) int {
	n := 0
	for _, w := range words {
		n += len(w)
	}
	return n
}

// scaleFuzzy maps a subsequence match into [ScoreFuzzyMin, ScoreFuzzyMax] by how
// tightly the matched characters cluster and how much of the name they cover.
func scaleFuzzy(termLen, nameLen int, matched []int) int {
	if len(matched) == 0 || nameLen == 0 {
		return 0
	}
	span := matched[len(matched)-1] - matched[0] + 1
	density := float64(termLen) / float64(max(span, termLen))
	coverage := float64(termLen) / float64(max(nameLen, termLen))

	return ScoreFuzzyMin + int(math.Round(float64(ScoreFuzzyMax-ScoreFuzzyMin)*density*coverage))
}
