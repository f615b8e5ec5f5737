package engine

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"synthcheck/internal/classify"
	"synthcheck/internal/profile"
	"synthcheck/internal/schema"
)

// FakerTextGenerator is the built-in TextGenerator: realistic values per
// sensitivity type, no external service required. Callers inject an
// LLM-backed generator in its place for richer text.
type FakerTextGenerator struct {
	faker *gofakeit.Faker
}

// NewFakerTextGenerator builds a generator. seed 0 picks a random seed.
func NewFakerTextGenerator(seed int64) *FakerTextGenerator {
	return &FakerTextGenerator{faker: gofakeit.New(seed)}
}

// Generate always returns exactly count values and never fails.
func (g *FakerTextGenerator) Generate(ctx context.Context, fieldName, fieldType string, count int, contextValues []string, constraints []schema.Constraint, fallback FallbackFn) ([]string, error) {
	values := make([]string, count)
	for i := 0; i < count; i++ {
		values[i] = g.one(fieldType, fallback)
	}
	return values, nil
}

func (g *FakerTextGenerator) one(fieldType string, fallback FallbackFn) string {
	switch fieldType {
	case classify.TypeEmail:
		return g.faker.Email()
	case classify.TypePhone:
		return g.faker.Phone()
	case classify.TypeName:
		return g.faker.Name()
	case classify.TypeAddress:
		return g.faker.Address().Address
	case classify.TypeSSN:
		return g.faker.SSN()
	case classify.TypeCreditCard:
		return g.faker.CreditCardNumber(nil)
	case classify.TypePostalCode:
		return g.faker.Zip()
	case classify.TypePassword:
		return g.faker.Password(true, true, true, false, false, 12)
	case classify.TypeDateOfBirth:
		start := time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2005, 12, 31, 0, 0, 0, 0, time.UTC)
		return g.faker.DateRange(start, end).Format("2006-01-02")
	case classify.TypeIPAddress:
		return g.faker.IPv4Address()
	case classify.TypeTextPII:
		return g.faker.Sentence(4)
	}
	if fallback != nil {
		return fallback()
	}
	return g.faker.Word()
}

// BootstrapSynthesizer is the built-in TabularSynthesizer: it resamples
// each column's profiled sample values (with replacement) and preserves
// the observed null ratio. Columns without a profile fall back to
// type-based generation.
type BootstrapSynthesizer struct {
	profiles map[string]map[string]*profile.ColumnProfile // table -> column
	faker    *gofakeit.Faker
}

// NewBootstrapSynthesizer builds a synthesizer over per-table column
// profiles. profiles may be nil for pure type-based generation.
func NewBootstrapSynthesizer(profiles map[string]map[string]*profile.ColumnProfile) *BootstrapSynthesizer {
	return &BootstrapSynthesizer{profiles: profiles, faker: gofakeit.New(0)}
}

func (s *BootstrapSynthesizer) Sample(ctx context.Context, table string, fields []schema.FieldDefinition, rowCount int, seed int64) (map[string][]interface{}, error) {
	rng := rand.New(rand.NewSource(seed))
	out := make(map[string][]interface{}, len(fields))

	for _, f := range fields {
		var p *profile.ColumnProfile
		if cols, ok := s.profiles[table]; ok {
			p = cols[f.Name]
		}

		col := make([]interface{}, rowCount)
		for i := 0; i < rowCount; i++ {
			if p != nil && len(p.Samples) > 0 {
				if f.Nullable && p.NullRatio() > 0 && rng.Float64() < p.NullRatio() {
					col[i] = nil
					continue
				}
				col[i] = p.Samples[rng.Intn(len(p.Samples))]
				continue
			}
			col[i] = s.typedValue(f, rng)
		}
		out[f.Name] = col
	}
	return out, nil
}

// typedValue generates a plausible value from the declared type alone.
func (s *BootstrapSynthesizer) typedValue(f schema.FieldDefinition, rng *rand.Rand) interface{} {
	t := strings.ToLower(f.Type)
	switch {
	case strings.Contains(t, "int"):
		return rng.Intn(100000) + 1
	case strings.Contains(t, "float") || strings.Contains(t, "decimal") ||
		strings.Contains(t, "numeric") || strings.Contains(t, "double"):
		return s.faker.Price(0.99, 9999.99)
	case strings.Contains(t, "bool") || strings.Contains(t, "bit"):
		return s.faker.Bool()
	case strings.Contains(t, "date") || strings.Contains(t, "time"):
		return s.faker.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()).Format("2006-01-02 15:04:05")
	default:
		return s.faker.Word()
	}
}
