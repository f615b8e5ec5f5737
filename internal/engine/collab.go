package engine

import (
	"context"

	"synthcheck/internal/schema"
)

// FallbackFn produces one replacement value when a text generator cannot.
type FallbackFn func() string

// TabularSynthesizer is the external statistical-model collaborator. The
// core never inspects how samples are computed; it only consumes the
// returned column-major values, one slice of rowCount values per field.
type TabularSynthesizer interface {
	Sample(ctx context.Context, table string, fields []schema.FieldDefinition, rowCount int, seed int64) (map[string][]interface{}, error)
}

// TextGenerator is the external text-value collaborator, typically
// LLM-backed. Implementations must return exactly count values even on
// partial failure, using fallback to fill the gaps.
type TextGenerator interface {
	Generate(ctx context.Context, fieldName, fieldType string, count int, contextValues []string, constraints []schema.Constraint, fallback FallbackFn) ([]string, error)
}
