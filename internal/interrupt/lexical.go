package interrupt

import (
	"regexp"
	"strings"
)

// DefaultBlockedUtterances is the built-in filler vocabulary used when no
// custom phrase list is configured.
var DefaultBlockedUtterances = []string{
	"uh", "uhh", "um", "umm", "hmm", "hm",
	"haan", "yeah", "mhm", "mm", "mmm",
	"err", "ah", "oh", "erm", "uh-huh",
}

// Structural pattern table: discourse-marker combinations that block at the
// rule layer regardless of the configured vocabulary. Stretch/repetition
// detection lives in the classifier, not here.
var discourseCombos = map[string]struct{}{
	"like you know":   {},
	"basically yeah":  {},
	"basically right": {},
	"you know":        {},
	"i mean":          {},
	"gonna tell you":  {},
}

var discourseComboPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^like\s+you\s+know$`),
	regexp.MustCompile(`^basically\s+(yeah|right)$`),
	regexp.MustCompile(`^you\s+know$`),
	regexp.MustCompile(`^i\s+mean$`),
}

// normalizeUtterance trims whitespace, lower-cases, and strips trailing
// punctuation so "Umm..." and "umm" match the same vocabulary entry.
func normalizeUtterance(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimRight(s, ".,!?;:")
}

func tokenizeUtterance(s string) []string {
	return strings.Fields(normalizeUtterance(s))
}

// matchesBlocked reports whether the utterance is covered by the phrase set:
// either the whole normalized string is an entry, or every token is one.
func matchesBlocked(norm string, phrases map[string]struct{}) bool {
	if norm == "" {
		return false
	}
	if _, ok := phrases[norm]; ok {
		return true
	}
	toks := strings.Fields(norm)
	if len(toks) == 0 {
		return false
	}
	for _, t := range toks {
		if _, ok := phrases[t]; !ok {
			return false
		}
	}
	return true
}

// matchesPattern evaluates the fixed structural pattern table.
func matchesPattern(norm string) bool {
	if norm == "" {
		return false
	}
	if _, ok := discourseCombos[norm]; ok {
		return true
	}
	for _, re := range discourseComboPatterns {
		if re.MatchString(norm) {
			return true
		}
	}
	return false
}

// ParsePhraseList parses a comma-separated phrase list (the
// BLOCKED_INTERRUPTION_PHRASES format) into normalized phrases.
func ParsePhraseList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = normalizeUtterance(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
