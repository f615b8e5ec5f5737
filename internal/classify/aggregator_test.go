package classify_test

import (
	"math"
	"strings"
	"testing"

	"synthcheck/internal/classify"
)

func score(conf float64, piiType, reasoning string) classify.ClassificationScore {
	return classify.ClassificationScore{Confidence: conf, SensitivityType: piiType, Reasoning: reasoning}
}

func TestAggregate_NoSignals(t *testing.T) {
	fc := classify.Aggregate("col", "string", map[string]classify.ClassificationScore{
		"pattern": score(0, classify.TypeUnknown, "nothing"),
		"name":    score(0, classify.TypeUnknown, "nothing"),
	})

	if fc.SensitivityType != classify.TypeNonSensitive {
		t.Errorf("expected non_sensitive, got %s", fc.SensitivityType)
	}
	if fc.Confidence != 0 || fc.IsSensitive {
		t.Errorf("expected confidence 0 / not sensitive, got %v / %v", fc.Confidence, fc.IsSensitive)
	}
}

func TestAggregate_StrongSignalShortCircuit(t *testing.T) {
	fc := classify.Aggregate("col", "string", map[string]classify.ClassificationScore{
		"pattern": score(0.92, classify.TypeEmail, "pattern hit"),
		"content": score(0.4, classify.TypeIdentifier, "stats"),
	})

	if fc.Confidence != 0.92 {
		t.Errorf("expected max confidence 0.92, got %v", fc.Confidence)
	}
	if fc.SensitivityType != classify.TypeEmail {
		t.Errorf("type must come from highest-confidence classifier, got %s", fc.SensitivityType)
	}
}

func TestAggregate_NameWeightedBlend(t *testing.T) {
	// 0.7*0.85 + 0.3*0.4 = 0.715
	fc := classify.Aggregate("col", "string", map[string]classify.ClassificationScore{
		"name":    score(0.85, classify.TypeEmail, "name hit"),
		"pattern": score(0.4, classify.TypeEmail, "weak pattern"),
	})

	if math.Abs(fc.Confidence-0.715) > 1e-9 {
		t.Errorf("expected 0.715, got %v", fc.Confidence)
	}
	if !fc.IsSensitive {
		t.Error("0.715 >= 0.7 must be sensitive")
	}
}

func TestAggregate_NameBlendPrecedesStrongSignal(t *testing.T) {
	// The name classifier's fixed 0.85 must take the 70/30 blend, never
	// the strong-signal short-circuit, even next to a stronger signal.
	fc := classify.Aggregate("col", "string", map[string]classify.ClassificationScore{
		"name":    score(0.85, classify.TypeEmail, "name hit"),
		"pattern": score(0.92, classify.TypeEmail, "strong pattern"),
	})

	want := 0.7*0.85 + 0.3*0.92
	if math.Abs(fc.Confidence-want) > 1e-9 {
		t.Errorf("expected blend %v, got %v", want, fc.Confidence)
	}
}

func TestAggregate_NameAloneAtTier(t *testing.T) {
	fc := classify.Aggregate("col", "string", map[string]classify.ClassificationScore{
		"name": score(0.8, classify.TypePhone, "name hit"),
	})

	if fc.Confidence != 0.8 {
		t.Errorf("name-only blend should return name confidence, got %v", fc.Confidence)
	}
}

func TestAggregate_PatternDirectTier(t *testing.T) {
	fc := classify.Aggregate("col", "string", map[string]classify.ClassificationScore{
		"pattern": score(0.6, classify.TypeSSN, "pattern"),
		"content": score(0.4, classify.TypeIdentifier, "stats"),
	})

	if fc.Confidence != 0.6 {
		t.Errorf("mid-range pattern confidence taken directly, got %v", fc.Confidence)
	}
	if fc.SensitivityType != classify.TypeSSN {
		t.Errorf("expected ssn, got %s", fc.SensitivityType)
	}
}

func TestAggregate_WeightedAverage(t *testing.T) {
	// pattern 0.5*0.5 + content 0.2*0.4 = 0.33, total weight 0.7 -> 0.4714...
	fc := classify.Aggregate("col", "string", map[string]classify.ClassificationScore{
		"pattern": score(0.5, classify.TypePostalCode, "pattern"),
		"content": score(0.4, classify.TypeIdentifier, "stats"),
	})

	want := (0.5*0.5 + 0.2*0.4) / 0.7
	if math.Abs(fc.Confidence-want) > 1e-9 {
		t.Errorf("expected %v, got %v", want, fc.Confidence)
	}
	if fc.IsSensitive {
		t.Error("sub-threshold aggregate must not be sensitive")
	}
}

func TestAggregate_UnknownClassifierDefaultWeight(t *testing.T) {
	// knowledge is not in the weight table: weight 0.1.
	fc := classify.Aggregate("col", "string", map[string]classify.ClassificationScore{
		"content":   score(0.4, classify.TypeIdentifier, "stats"),
		"knowledge": score(0.2, classify.TypeUnknown, "weak kb"),
	})

	want := (0.2*0.4 + 0.1*0.2) / 0.3
	if math.Abs(fc.Confidence-want) > 1e-9 {
		t.Errorf("expected %v, got %v", want, fc.Confidence)
	}
}

func TestAggregate_TierBoundarySeam(t *testing.T) {
	// Observed behavior preserved on purpose: 0.81 pattern takes tier 1,
	// 0.79 drops to tier 3 pattern-direct.
	high := classify.Aggregate("col", "string", map[string]classify.ClassificationScore{
		"pattern": score(0.81, classify.TypeEmail, "p"),
		"content": score(0.3, classify.TypeIdentifier, "c"),
	})
	if high.Confidence != 0.81 {
		t.Errorf("0.81 pattern should short-circuit, got %v", high.Confidence)
	}

	low := classify.Aggregate("col", "string", map[string]classify.ClassificationScore{
		"pattern": score(0.79, classify.TypeEmail, "p"),
		"content": score(0.3, classify.TypeIdentifier, "c"),
	})
	if low.Confidence != 0.79 {
		t.Errorf("0.79 pattern should be taken directly by tier 3, got %v", low.Confidence)
	}
}

func TestAggregate_SensitiveInvariant(t *testing.T) {
	inputs := []map[string]classify.ClassificationScore{
		{"pattern": score(0.95, classify.TypeEmail, "r")},
		{"name": score(0.85, classify.TypePhone, "r")},
		{"content": score(0.4, classify.TypeIdentifier, "r")},
		{"pattern": score(0.56, classify.TypeSSN, "r"), "content": score(0.4, classify.TypeIdentifier, "r")},
		{},
	}

	for _, scores := range inputs {
		fc := classify.Aggregate("col", "string", scores)
		if fc.IsSensitive != (fc.Confidence >= 0.7) {
			t.Errorf("invariant violated: sensitive=%v confidence=%v", fc.IsSensitive, fc.Confidence)
		}
	}
}

func TestAggregate_ReasoningConcatenated(t *testing.T) {
	fc := classify.Aggregate("col", "string", map[string]classify.ClassificationScore{
		"pattern": score(0.6, classify.TypeEmail, "pattern says email"),
		"name":    score(0.85, classify.TypeEmail, "name says email"),
	})

	if !strings.Contains(fc.Reasoning, "pattern says email") ||
		!strings.Contains(fc.Reasoning, "name says email") {
		t.Errorf("reasoning should include all contributors: %q", fc.Reasoning)
	}
	if !strings.Contains(fc.Reasoning, "; ") {
		t.Errorf("reasoning parts should be separated by '; ': %q", fc.Reasoning)
	}
}

func TestAggregate_PatternMatchesMergedAndTruncated(t *testing.T) {
	a := score(0.9, classify.TypeEmail, "r")
	a.PatternMatches = []string{"a@x.co", "b@x.co", "c@x.co"}
	b := score(0.4, classify.TypeEmail, "r")
	b.PatternMatches = []string{"c@x.co", "d@x.co", "e@x.co", "f@x.co"}

	fc := classify.Aggregate("col", "string", map[string]classify.ClassificationScore{
		"pattern": a, "content": b,
	})

	if len(fc.PatternMatches) != 5 {
		t.Errorf("expected merged matches truncated to 5, got %d", len(fc.PatternMatches))
	}
	seen := make(map[string]bool)
	for _, m := range fc.PatternMatches {
		if seen[m] {
			t.Errorf("duplicate match %q", m)
		}
		seen[m] = true
	}
}
