package classify

import (
	"fmt"
	"strings"

	"synthcheck/internal/profile"
)

// ContentAnalysisClassifier applies statistical heuristics over sampled
// values: cardinality, average string length and special-character density.
// It catches columns the pattern and name classifiers miss, at low
// confidence.
type ContentAnalysisClassifier struct{}

func NewContentAnalysisClassifier() *ContentAnalysisClassifier {
	return &ContentAnalysisClassifier{}
}

const specialChars = "@#$%&*"

func (c *ContentAnalysisClassifier) Classify(p *profile.ColumnProfile) ClassificationScore {
	if p.NonNullCount() == 0 {
		return zeroScore("no sampled values")
	}

	uniqueRatio := p.UniqueRatio()

	if p.IsNumeric() {
		if uniqueRatio > 0.9 {
			return ClassificationScore{
				Confidence:      0.6,
				SensitivityType: TypeIdentifier,
				Reasoning:       fmt.Sprintf("numeric column with %.1f%% unique values, likely identifier", uniqueRatio*100),
			}
		}
		return zeroScore("numeric column with low cardinality")
	}

	samples := p.StringSamples(0)
	if len(samples) == 0 {
		return zeroScore("no sampled values")
	}

	totalLen := 0
	hasSpecial := false
	for _, v := range samples {
		totalLen += len(v)
		if !hasSpecial && strings.ContainsAny(v, specialChars) {
			hasSpecial = true
		}
	}
	meanLen := float64(totalLen) / float64(len(samples))

	switch {
	case uniqueRatio > 0.8 && meanLen > 10 && hasSpecial:
		return ClassificationScore{
			Confidence:      0.5,
			SensitivityType: TypeTextPII,
			Reasoning: fmt.Sprintf("high cardinality (%.1f%%), long values (mean %.1f chars) with special characters",
				uniqueRatio*100, meanLen),
		}
	case uniqueRatio > 0.9 && meanLen < 50:
		return ClassificationScore{
			Confidence:      0.4,
			SensitivityType: TypeIdentifier,
			Reasoning:       fmt.Sprintf("%.1f%% unique short values, likely identifier", uniqueRatio*100),
		}
	}

	return zeroScore("content statistics inconclusive")
}
