package profile_test

import (
	"fmt"
	"testing"

	"synthcheck/internal/profile"
)

func TestBuildCountsAndSampleCap(t *testing.T) {
	values := make([]interface{}, 0, 250)
	for i := 0; i < 250; i++ {
		if i%5 == 0 {
			values = append(values, nil)
			continue
		}
		values = append(values, fmt.Sprintf("v%d", i%20))
	}

	p := profile.Build("col", "varchar", values)

	if p.TotalCount != 250 {
		t.Errorf("TotalCount = %d, want 250", p.TotalCount)
	}
	if p.NullCount != 50 {
		t.Errorf("NullCount = %d, want 50", p.NullCount)
	}
	if len(p.Samples) != profile.MaxSampleSize {
		t.Errorf("len(Samples) = %d, want %d", len(p.Samples), profile.MaxSampleSize)
	}
	// i%20 never hits the multiples of 5 kept as nulls, so 16 distinct values remain.
	if p.UniqueCount != 16 {
		t.Errorf("UniqueCount = %d, want 16", p.UniqueCount)
	}
}

func TestApplyTableCountsKeepsRatiosConsistent(t *testing.T) {
	// A bounded sample of a large high-cardinality column must not report
	// a collapsed unique ratio once full-table counts replace the
	// sample-derived statistics.
	values := make([]interface{}, 100)
	for i := range values {
		values[i] = fmt.Sprintf("user%d@example.com", i)
	}
	p := profile.Build("email", "varchar", values)

	p.ApplyTableCounts(10000, 9500, 9400)

	if p.TotalCount != 10000 || p.NullCount != 500 {
		t.Errorf("counts = %d total / %d null, want 10000/500", p.TotalCount, p.NullCount)
	}
	if got, want := p.UniqueRatio(), 9400.0/9500.0; got != want {
		t.Errorf("UniqueRatio = %v, want %v", got, want)
	}
	if p.NullRatio() != 0.05 {
		t.Errorf("NullRatio = %v, want 0.05", p.NullRatio())
	}
	if len(p.Samples) != profile.MaxSampleSize {
		t.Errorf("samples must be untouched, got %d", len(p.Samples))
	}
}

func TestRatios(t *testing.T) {
	p := profile.Build("col", "int", []interface{}{1, 2, 2, nil})

	if got := p.NonNullCount(); got != 3 {
		t.Errorf("NonNullCount = %d, want 3", got)
	}
	if got := p.NullRatio(); got != 0.25 {
		t.Errorf("NullRatio = %v, want 0.25", got)
	}
	if got := p.UniqueRatio(); got != 2.0/3.0 {
		t.Errorf("UniqueRatio = %v, want 2/3", got)
	}
}

func TestRatiosEmptyColumn(t *testing.T) {
	p := profile.Build("col", "int", nil)
	if p.NullRatio() != 0 || p.UniqueRatio() != 0 {
		t.Errorf("empty column ratios = %v/%v, want 0/0", p.NullRatio(), p.UniqueRatio())
	}
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		dataType string
		want     bool
	}{
		{"int", true},
		{"bigint", true},
		{"DECIMAL", true},
		{"double", true},
		{"number", true},
		{"varchar", false},
		{"date", false},
		{"text", false},
	}
	for _, tt := range tests {
		p := profile.Build("col", tt.dataType, nil)
		if got := p.IsNumeric(); got != tt.want {
			t.Errorf("IsNumeric(%q) = %v, want %v", tt.dataType, got, tt.want)
		}
	}
}

func TestStringSamples(t *testing.T) {
	p := profile.Build("col", "int", []interface{}{1, 2, 3})

	if got := p.StringSamples(2); len(got) != 2 || got[0] != "1" {
		t.Errorf("StringSamples(2) = %v", got)
	}
	if got := p.StringSamples(0); len(got) != 3 {
		t.Errorf("StringSamples(0) = %v, want all 3", got)
	}
	if got := p.StringSamples(10); len(got) != 3 {
		t.Errorf("StringSamples(10) = %v, want all 3", got)
	}
}

func TestSummary(t *testing.T) {
	p := profile.Build("col", "varchar", []interface{}{"a", "a", nil, "b"})
	s := p.Summary()

	if s.TotalCount != 4 || s.NullCount != 1 || s.UniqueCount != 2 {
		t.Errorf("Summary counts = %+v", s)
	}
	if s.NullRatio != 0.25 {
		t.Errorf("Summary.NullRatio = %v, want 0.25", s.NullRatio)
	}
}
