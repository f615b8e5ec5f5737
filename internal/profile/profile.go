package profile

import (
	"fmt"
	"strings"
)

// MaxSampleSize bounds how many non-null values a profile keeps per column.
const MaxSampleSize = 100

// ColumnProfile is the read-only per-column input of the classification
// pipeline: a bounded sample of non-null values plus null/unique statistics.
type ColumnProfile struct {
	Name       string
	DataType   string // normalized logical type: "integer", "float", "string", "date", "boolean", "object"
	Samples    []interface{}
	TotalCount int
	NullCount  int
	UniqueCount int
}

// Build creates a profile from raw column values. Values beyond
// MaxSampleSize still contribute to the statistics but are not retained.
func Build(name, dataType string, values []interface{}) *ColumnProfile {
	p := &ColumnProfile{Name: name, DataType: dataType}
	seen := make(map[string]bool)

	for _, v := range values {
		p.TotalCount++
		if v == nil {
			p.NullCount++
			continue
		}
		key := fmt.Sprintf("%v", v)
		if !seen[key] {
			seen[key] = true
			p.UniqueCount++
		}
		if len(p.Samples) < MaxSampleSize {
			p.Samples = append(p.Samples, v)
		}
	}
	return p
}

// ApplyTableCounts replaces the sample-derived statistics with full-table
// counts. All three must come from the same population: mixing table-wide
// totals with a sample-derived unique count would collapse UniqueRatio on
// any table larger than the sample.
func (p *ColumnProfile) ApplyTableCounts(total, nonNull, distinct int) {
	p.TotalCount = total
	p.NullCount = total - nonNull
	p.UniqueCount = distinct
}

// NonNullCount returns the number of non-null values observed.
func (p *ColumnProfile) NonNullCount() int {
	return p.TotalCount - p.NullCount
}

// UniqueRatio is unique values over non-null values, 0 for empty columns.
func (p *ColumnProfile) UniqueRatio() float64 {
	n := p.NonNullCount()
	if n == 0 {
		return 0
	}
	return float64(p.UniqueCount) / float64(n)
}

// NullRatio is nulls over total values, 0 for empty columns.
func (p *ColumnProfile) NullRatio() float64 {
	if p.TotalCount == 0 {
		return 0
	}
	return float64(p.NullCount) / float64(p.TotalCount)
}

// IsNumeric reports whether the declared type is a numeric family.
func (p *ColumnProfile) IsNumeric() bool {
	t := strings.ToLower(p.DataType)
	return strings.Contains(t, "int") || strings.Contains(t, "float") ||
		strings.Contains(t, "decimal") || strings.Contains(t, "numeric") ||
		strings.Contains(t, "double") || strings.Contains(t, "number")
}

// StringSamples returns up to limit sampled values stringified.
// limit <= 0 means all retained samples.
func (p *ColumnProfile) StringSamples(limit int) []string {
	if limit <= 0 || limit > len(p.Samples) {
		limit = len(p.Samples)
	}
	out := make([]string, 0, limit)
	for _, v := range p.Samples[:limit] {
		out = append(out, fmt.Sprintf("%v", v))
	}
	return out
}

// Stats is the JSON-serializable statistical summary attached to reports.
type Stats struct {
	TotalCount  int     `json:"total_count"`
	NullCount   int     `json:"null_count"`
	UniqueCount int     `json:"unique_count"`
	NullRatio   float64 `json:"null_ratio"`
	UniqueRatio float64 `json:"unique_ratio"`
}

// Summary extracts the statistical profile for report embedding.
func (p *ColumnProfile) Summary() Stats {
	return Stats{
		TotalCount:  p.TotalCount,
		NullCount:   p.NullCount,
		UniqueCount: p.UniqueCount,
		NullRatio:   p.NullRatio(),
		UniqueRatio: p.UniqueRatio(),
	}
}
