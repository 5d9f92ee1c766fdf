package interrupt

import (
	"math"
	"testing"
)

func TestWeightsSumToOne(t *testing.T) {
	sum := weightFewWords + weightCharRepetition + weightShortText +
		weightDiscourseMarker + weightVowelStretch + weightDiscourseCombo
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("feature weights sum to %v, want 1.0", sum)
	}
}

func TestClassifyStretchedFiller(t *testing.T) {
	prob, fv := classifyUtterance("uhhhhhh")
	if !fv.FewWords || !fv.ShortText || !fv.CharRepetition {
		t.Fatalf("unexpected features for stretched filler: %+v", fv)
	}
	if fv.VowelStretch {
		t.Fatalf("consonant run is not a vowel stretch: %+v", fv)
	}
	if prob < fillerThreshold {
		t.Fatalf("stretched filler prob %.2f below threshold", prob)
	}
}

func TestClassifyVowelStretch(t *testing.T) {
	prob, fv := classifyUtterance("sooooo")
	if !fv.VowelStretch || !fv.CharRepetition {
		t.Fatalf("expected vowel stretch + repetition, got %+v", fv)
	}
	if prob < fillerThreshold {
		t.Fatalf("prob %.2f below threshold", prob)
	}
}

func TestClassifyGenuineSpeech(t *testing.T) {
	for _, u := range []string{
		"wait, how much was that?",
		"can you help me with the invoice",
		"please stop talking now",
	} {
		prob, _ := classifyUtterance(u)
		if prob >= fillerThreshold {
			t.Errorf("%q scored %.2f, should be below threshold", u, prob)
		}
	}
}

func TestClassifyDiscourseMarkers(t *testing.T) {
	_, fv := classifyUtterance("like you know")
	if !fv.DiscourseMarker || !fv.DiscourseCombo {
		t.Fatalf("expected marker + combo features, got %+v", fv)
	}
	_, fv = classifyUtterance("basically everything broke at noon")
	if !fv.DiscourseMarker || fv.DiscourseCombo {
		t.Fatalf("single marker must not count as combo: %+v", fv)
	}
}

func TestClassifyEmpty(t *testing.T) {
	prob, fv := classifyUtterance("   ")
	if prob != 0 {
		t.Fatalf("empty text scored %.2f, want 0", prob)
	}
	if fv != (FeatureVector{}) {
		t.Fatalf("empty text produced features: %+v", fv)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	p1, f1 := classifyUtterance("gonna tell you")
	for i := 0; i < 5; i++ {
		p2, f2 := classifyUtterance("gonna tell you")
		if p1 != p2 || f1 != f2 {
			t.Fatalf("classifier not deterministic: (%v,%v) vs (%v,%v)", p1, f1, p2, f2)
		}
	}
}

func TestHasCharRun(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"uhhh", true},
		{"mmm", true},
		{"hmm", false},
		{"aa", false},
		{"", false},
		{"abcabc", false},
		{"no   way", false}, // whitespace runs don't count
	}
	for _, c := range cases {
		if got := hasCharRun(c.in, 3); got != c.want {
			t.Errorf("hasCharRun(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
