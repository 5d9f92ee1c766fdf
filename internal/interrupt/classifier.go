package interrupt

import (
	"regexp"
	"strings"
)

// fillerThreshold is the probability at or above which the classifier calls
// an utterance a filler. Design constant, not configurable.
const fillerThreshold = 0.5

// FeatureVector holds the six linguistic signals the classifier scores.
type FeatureVector struct {
	FewWords        bool // <=2 tokens
	ShortText       bool // <10 chars
	CharRepetition  bool // same letter run >=3 ("uhhh")
	VowelStretch    bool // vowel run >=3 ("sooo")
	DiscourseMarker bool // any marker token present
	DiscourseCombo  bool // two or more marker hits
}

// Feature weights. They sum to 1.0 across all six features.
const (
	weightFewWords        = 0.20
	weightCharRepetition  = 0.20
	weightShortText       = 0.15
	weightDiscourseMarker = 0.15
	weightVowelStretch    = 0.10
	weightDiscourseCombo  = 0.20
)

var vowelStretchRe = regexp.MustCompile(`[aeiou]{3,}`)

// Markers that manage conversational flow without semantic content.
// Multi-word markers are matched as substrings of the normalized text.
var discourseMarkers = []string{"like", "you know", "gonna", "basically", "yeah"}

// classifyUtterance scores an utterance's filler probability from its
// linguistic features. Deterministic and side-effect free; empty or
// whitespace-only text scores zero.
func classifyUtterance(utterance string) (float64, FeatureVector) {
	norm := normalizeUtterance(utterance)
	var fv FeatureVector
	if norm == "" {
		return 0, fv
	}

	toks := strings.Fields(norm)
	fv.FewWords = len(toks) <= 2
	fv.ShortText = len(norm) < 10
	fv.CharRepetition = hasCharRun(norm, 3)
	fv.VowelStretch = vowelStretchRe.MatchString(norm)

	markerHits := countDiscourseMarkers(norm, toks)
	fv.DiscourseMarker = markerHits >= 1
	fv.DiscourseCombo = markerHits >= 2

	score := 0.0
	if fv.FewWords {
		score += weightFewWords
	}
	if fv.CharRepetition {
		score += weightCharRepetition
	}
	if fv.ShortText {
		score += weightShortText
	}
	if fv.DiscourseMarker {
		score += weightDiscourseMarker
	}
	if fv.VowelStretch {
		score += weightVowelStretch
	}
	if fv.DiscourseCombo {
		score += weightDiscourseCombo
	}
	if score > 1.0 {
		score = 1.0
	}
	return score, fv
}

// hasCharRun reports a run of n or more identical letters or digits.
// Go regexp (RE2) has no backreferences, so this is a plain scan.
func hasCharRun(s string, n int) bool {
	run := 1
	var prev rune
	for i, r := range s {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if i > 0 && alnum && r == prev {
			run++
			if run >= n {
				return true
			}
		} else {
			run = 1
		}
		prev = r
	}
	return false
}

func countDiscourseMarkers(norm string, toks []string) int {
	hits := 0
	for _, m := range discourseMarkers {
		if strings.Contains(m, " ") {
			hits += strings.Count(norm, m)
			continue
		}
		for _, t := range toks {
			if t == m {
				hits++
			}
		}
	}
	return hits
}
