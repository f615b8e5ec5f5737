package classify

import "synthcheck/internal/profile"

// Sensitivity type labels shared across classifiers.
const (
	TypeEmail        = "email"
	TypePhone        = "phone"
	TypeSSN          = "ssn"
	TypeCreditCard   = "credit_card"
	TypePostalCode   = "postal_code"
	TypeIPAddress    = "ip_address"
	TypeDateOfBirth  = "date_of_birth"
	TypeName         = "name"
	TypeAddress      = "address"
	TypePassword     = "password"
	TypeIdentifier   = "identifier"
	TypeTextPII      = "text_pii"
	TypeUnknown      = "unknown"
	TypeNonSensitive = "non_sensitive"
)

// Well-known classifier registration names. The aggregator's weighting and
// tier rules key off these.
const (
	ClassifierPattern   = "pattern"
	ClassifierName      = "name"
	ClassifierContent   = "content"
	ClassifierKnowledge = "knowledge"
)

// ClassificationScore is one classifier's verdict for one column.
type ClassificationScore struct {
	Confidence      float64
	SensitivityType string
	Reasoning       string
	PatternMatches  []string
	References      []string
}

// Classifier scores a single column profile. Implementations must never
// return an error: transient failures degrade to a zero-confidence score.
type Classifier interface {
	Classify(p *profile.ColumnProfile) ClassificationScore
}

// RegisteredClassifier pairs a classifier with the name it reports under.
type RegisteredClassifier struct {
	Name       string
	Classifier Classifier
}

func zeroScore(reason string) ClassificationScore {
	return ClassificationScore{
		Confidence:      0,
		SensitivityType: TypeUnknown,
		Reasoning:       reason,
	}
}

// DefaultClassifiers builds the standard four-classifier ensemble.
// kb may be nil, in which case knowledge-base classification is skipped.
func DefaultClassifiers(kb *KnowledgeBaseClassifier) []RegisteredClassifier {
	cs := []RegisteredClassifier{
		{ClassifierPattern, NewPatternClassifier()},
		{ClassifierName, NewNameBasedClassifier()},
		{ClassifierContent, NewContentAnalysisClassifier()},
	}
	if kb != nil {
		cs = append(cs, RegisteredClassifier{ClassifierKnowledge, kb})
	}
	return cs
}
