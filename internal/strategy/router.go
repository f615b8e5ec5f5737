package strategy

import (
	"context"
	"time"

	"synthcheck/internal/classify"
)

// Valid generation-strategy identifiers. The router returns nothing else.
const (
	TextGeneration         = "text_generation"
	DistributionPreserving = "distribution_preserving"
	ExampleBased           = "example_based"
)

const (
	selectorSampleLimit    = 10
	defaultSelectorTimeout = 10 * time.Second
)

// Request is the context handed to the LLM-assisted selector: the field's
// classification summary, a bounded set of sample values, and the menu of
// valid strategies to choose from.
type Request struct {
	FieldName       string
	DataType        string
	SensitivityType string
	Confidence      float64
	Samples         []string
	Options         []string
}

// Selector is the optional LLM-assisted strategy recommendation
// collaborator. A malformed or failed response is never an error for the
// router; it falls back to the rule table.
type Selector interface {
	Select(ctx context.Context, req Request) (string, error)
}

// Sensitivity types whose values are text-shaped and therefore need a text
// generator rather than a fitted distribution.
var textLikeTypes = map[string]bool{
	classify.TypeEmail:       true,
	classify.TypePhone:       true,
	classify.TypeName:        true,
	classify.TypeAddress:     true,
	classify.TypeTextPII:     true,
	classify.TypeSSN:         true,
	classify.TypeCreditCard:  true,
	classify.TypeDateOfBirth: true,
	classify.TypePostalCode:  true,
	classify.TypePassword:    true,
}

// Router maps a field classification to a generation strategy. It never
// fails: collaborator errors degrade to the deterministic rule table.
type Router struct {
	selector Selector
	timeout  time.Duration
}

// NewRouter builds a router. selector may be nil for pure rule-based
// routing; timeout <= 0 selects a default.
func NewRouter(selector Selector, timeout time.Duration) *Router {
	if timeout <= 0 {
		timeout = defaultSelectorTimeout
	}
	return &Router{selector: selector, timeout: timeout}
}

// Route returns one of the three valid strategy identifiers for the field.
// Non-sensitive fields always keep their statistical distribution.
func (r *Router) Route(fc classify.FieldClassification, samples []string) string {
	if !fc.IsSensitive {
		return DistributionPreserving
	}

	if r.selector != nil {
		if len(samples) > selectorSampleLimit {
			samples = samples[:selectorSampleLimit]
		}
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		choice, err := r.selector.Select(ctx, Request{
			FieldName:       fc.FieldName,
			DataType:        fc.DataType,
			SensitivityType: fc.SensitivityType,
			Confidence:      fc.Confidence,
			Samples:         samples,
			Options:         []string{TextGeneration, DistributionPreserving, ExampleBased},
		})
		cancel()
		if err == nil && IsValid(choice) {
			return choice
		}
	}

	return FallbackRoute(fc.SensitivityType)
}

// FallbackRoute is the deterministic rule table used when no selector is
// configured or its response is unusable.
func FallbackRoute(sensitivityType string) string {
	if textLikeTypes[sensitivityType] {
		return TextGeneration
	}
	return DistributionPreserving
}

// IsValid reports whether s is one of the three strategy identifiers.
func IsValid(s string) bool {
	switch s {
	case TextGeneration, DistributionPreserving, ExampleBased:
		return true
	}
	return false
}
