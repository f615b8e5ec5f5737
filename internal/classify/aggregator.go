package classify

import (
	"sort"
	"strings"
)

// SensitiveThreshold is the calibrated confidence at which a field is
// declared sensitive. FieldClassification.IsSensitive is always derived
// from it, never set independently.
const SensitiveThreshold = 0.7

const (
	strongSignalThreshold  = 0.8
	nameTierThreshold      = 0.8
	patternDirectThreshold = 0.55
	maxPatternMatches      = 5
)

// Fixed weights for the weighted-average tier. Unknown classifier names
// weigh 0.1.
var aggregationWeights = map[string]float64{
	ClassifierPattern: 0.5,
	ClassifierName:    0.3,
	ClassifierContent: 0.2,
}

const defaultWeight = 0.1

// FieldClassification is the aggregator's calibrated verdict for one
// column, immutable once produced.
type FieldClassification struct {
	FieldName           string   `json:"field_name"`
	IsSensitive         bool     `json:"is_sensitive"`
	SensitivityType     string   `json:"sensitivity_type"`
	Confidence          float64  `json:"confidence"`
	Reasoning           string   `json:"reasoning"`
	RecommendedStrategy string   `json:"recommended_strategy,omitempty"`
	DataType            string   `json:"data_type"`
	KnowledgeReferences []string `json:"knowledge_references,omitempty"`
	PatternMatches      []string `json:"pattern_matches,omitempty"`
}

// canonicalOrder fixes iteration order over the score map so reasoning and
// pattern-match merging are deterministic.
func canonicalOrder(scores map[string]ClassificationScore) []string {
	known := []string{ClassifierPattern, ClassifierName, ClassifierContent, ClassifierKnowledge}
	var order []string
	seen := make(map[string]bool)
	for _, name := range known {
		if _, ok := scores[name]; ok {
			order = append(order, name)
			seen[name] = true
		}
	}
	var extra []string
	for name := range scores {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(order, extra...)
}

// Aggregate combines the per-classifier scores for one column into a single
// calibrated classification.
//
// Tier rules, applied in order over the non-zero-confidence entries:
//  1. a name-based confidence >= 0.8 is blended 70/30 with the average of
//     the remaining signals (the name classifier's fixed 0.85 must land
//     here, not in the short-circuit below);
//  2. any confidence > 0.8 wins outright;
//  3. a pattern confidence >= 0.55 is taken directly;
//  4. otherwise a weighted average (pattern 0.5, name 0.3, content 0.2,
//     others 0.1) normalized by the weights actually present.
//
// The sensitivity type always comes from the single highest-confidence
// classifier.
func Aggregate(fieldName, dataType string, scores map[string]ClassificationScore) FieldClassification {
	order := canonicalOrder(scores)

	valid := make(map[string]ClassificationScore)
	var validOrder []string
	for _, name := range order {
		if s := scores[name]; s.Confidence > 0 {
			valid[name] = s
			validOrder = append(validOrder, name)
		}
	}

	if len(valid) == 0 {
		return FieldClassification{
			FieldName:       fieldName,
			SensitivityType: TypeNonSensitive,
			Confidence:      0,
			Reasoning:       "no classifier produced a signal",
			DataType:        dataType,
		}
	}

	topName := validOrder[0]
	for _, name := range validOrder[1:] {
		if valid[name].Confidence > valid[topName].Confidence {
			topName = name
		}
	}
	top := valid[topName]

	var confidence float64
	nameScore, hasName := valid[ClassifierName]
	patternScore, hasPattern := valid[ClassifierPattern]

	switch {
	case hasName && nameScore.Confidence >= nameTierThreshold:
		others := 0.0
		count := 0
		for _, name := range validOrder {
			if name == ClassifierName {
				continue
			}
			others += valid[name].Confidence
			count++
		}
		if count == 0 {
			confidence = nameScore.Confidence
		} else {
			confidence = 0.7*nameScore.Confidence + 0.3*(others/float64(count))
		}

	case top.Confidence > strongSignalThreshold:
		confidence = top.Confidence

	case hasPattern && patternScore.Confidence >= patternDirectThreshold:
		confidence = patternScore.Confidence

	default:
		weighted := 0.0
		totalWeight := 0.0
		for _, name := range validOrder {
			w, ok := aggregationWeights[name]
			if !ok {
				w = defaultWeight
			}
			weighted += w * valid[name].Confidence
			totalWeight += w
		}
		confidence = weighted / totalWeight
	}

	var reasons []string
	var matches []string
	var refs []string
	seenMatch := make(map[string]bool)
	for _, name := range validOrder {
		s := valid[name]
		if s.Reasoning != "" {
			reasons = append(reasons, s.Reasoning)
		}
		for _, m := range s.PatternMatches {
			if !seenMatch[m] && len(matches) < maxPatternMatches {
				seenMatch[m] = true
				matches = append(matches, m)
			}
		}
		refs = append(refs, s.References...)
	}

	return FieldClassification{
		FieldName:           fieldName,
		IsSensitive:         confidence >= SensitiveThreshold,
		SensitivityType:     top.SensitivityType,
		Confidence:          confidence,
		Reasoning:           strings.Join(reasons, "; "),
		DataType:            dataType,
		KnowledgeReferences: refs,
		PatternMatches:      matches,
	}
}
