package classify

import (
	"fmt"
	"regexp"

	"synthcheck/internal/profile"
)

// patternSampleLimit caps how many sampled values are tested per column.
const patternSampleLimit = 100

// patternConfidenceCap keeps pattern evidence from ever being treated as
// certain, no matter how many samples match.
const patternConfidenceCap = 0.95

type patternFamily struct {
	piiType  string
	patterns []*regexp.Regexp
}

// Priority order matters: on equal match ratios the earlier family wins.
var piiPatterns = []patternFamily{
	{TypeEmail, compileAll(
		`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`,
	)},
	{TypePhone, compileAll(
		`^\+?1?[-. ]?\(?\d{3}\)?[-. ]?\d{3}[-. ]?\d{4}$`,
		`^\+\d{1,3}[-. ]?\d{1,4}[-. ]?\d{3,4}[-. ]?\d{3,4}$`,
	)},
	{TypeSSN, compileAll(
		`^\d{3}-\d{2}-\d{4}$`,
	)},
	{TypeCreditCard, compileAll(
		`^\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}$`,
	)},
	{TypePostalCode, compileAll(
		`^\d{5}(-\d{4})?$`,
	)},
	{TypeIPAddress, compileAll(
		`^(\d{1,3}\.){3}\d{1,3}$`,
	)},
	{TypeDateOfBirth, compileAll(
		`^\d{4}-\d{2}-\d{2}$`,
		`^\d{2}/\d{2}/\d{4}$`,
	)},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// PatternClassifier detects common PII value shapes with regexes over the
// sampled values. Numeric columns are skipped outright: digit-shaped
// patterns (ssn, zip, phone) fire constantly on plain numbers.
type PatternClassifier struct{}

func NewPatternClassifier() *PatternClassifier {
	return &PatternClassifier{}
}

func (c *PatternClassifier) Classify(p *profile.ColumnProfile) ClassificationScore {
	if p.IsNumeric() {
		return zeroScore("numeric column, pattern matching skipped")
	}

	samples := p.StringSamples(patternSampleLimit)
	if len(samples) == 0 {
		return zeroScore("no sampled values")
	}

	bestRatio := 0.0
	bestType := ""
	var bestExamples []string

	for _, family := range piiPatterns {
		matches := 0
		var examples []string
		seen := make(map[string]bool)
		for _, v := range samples {
			if matchesAny(family.patterns, v) {
				matches++
				if len(examples) < 5 && !seen[v] {
					seen[v] = true
					examples = append(examples, v)
				}
			}
		}
		ratio := float64(matches) / float64(len(samples))
		if ratio > bestRatio {
			bestRatio = ratio
			bestType = family.piiType
			bestExamples = examples
		}
	}

	if bestRatio == 0 {
		return zeroScore("no PII patterns matched")
	}

	confidence := bestRatio
	if confidence > patternConfidenceCap {
		confidence = patternConfidenceCap
	}

	return ClassificationScore{
		Confidence:      confidence,
		SensitivityType: bestType,
		Reasoning:       fmt.Sprintf("detected %s pattern in %.1f%% of sampled values", bestType, bestRatio*100),
		PatternMatches:  bestExamples,
	}
}

func matchesAny(patterns []*regexp.Regexp, v string) bool {
	for _, re := range patterns {
		if re.MatchString(v) {
			return true
		}
	}
	return false
}
