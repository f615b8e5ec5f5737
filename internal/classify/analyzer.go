package classify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"synthcheck/internal/profile"
)

// ConfidenceHistogram buckets final confidences: high >= 0.8, medium >= 0.5,
// low otherwise.
type ConfidenceHistogram struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// SensitivityReport is the JSON-serializable result of one dataset
// analysis. ColumnOrder preserves the dataset's original column order so
// downstream consumers can reconstruct the table layout; the Fields map is
// unordered by nature.
type SensitivityReport struct {
	RunID       string                         `json:"run_id"`
	GeneratedAt time.Time                      `json:"generated_at"`
	Fields      map[string]FieldClassification `json:"fields"`
	ColumnOrder []string                       `json:"column_order"`
	Profiles    map[string]profile.Stats       `json:"profiles"`
	Histogram   ConfidenceHistogram            `json:"confidence_histogram"`
}

// SensitiveFields lists sensitive field names in column order.
func (r *SensitivityReport) SensitiveFields() []string {
	var out []string
	for _, name := range r.ColumnOrder {
		if fc, ok := r.Fields[name]; ok && fc.IsSensitive {
			out = append(out, name)
		}
	}
	return out
}

// StrategyFn maps a finished classification (plus sample values) to a
// generation-strategy identifier. Injected so the analyzer stays decoupled
// from the router.
type StrategyFn func(fc FieldClassification, samples []string) string

// Analyzer runs the classifier ensemble over a dataset's column profiles.
type Analyzer struct {
	classifiers []RegisteredClassifier
	strategyFn  StrategyFn
}

// NewAnalyzer builds an analyzer over the given ensemble. strategyFn may be
// nil, leaving RecommendedStrategy unset.
func NewAnalyzer(classifiers []RegisteredClassifier, strategyFn StrategyFn) *Analyzer {
	return &Analyzer{classifiers: classifiers, strategyFn: strategyFn}
}

// ClassifyColumn runs every registered classifier on one profile and
// aggregates the scores.
func (a *Analyzer) ClassifyColumn(p *profile.ColumnProfile) FieldClassification {
	scores := make(map[string]ClassificationScore, len(a.classifiers))
	for _, rc := range a.classifiers {
		scores[rc.Name] = rc.Classifier.Classify(p)
	}
	fc := Aggregate(p.Name, p.DataType, scores)
	if a.strategyFn != nil {
		fc.RecommendedStrategy = a.strategyFn(fc, p.StringSamples(10))
	}
	return fc
}

// Analyze classifies every column and assembles the report. Columns are
// independent, so classification fans out across goroutines; the knowledge
// classifier's cache is the only shared state and guards itself.
func (a *Analyzer) Analyze(profiles []*profile.ColumnProfile) *SensitivityReport {
	report := &SensitivityReport{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Fields:      make(map[string]FieldClassification, len(profiles)),
		Profiles:    make(map[string]profile.Stats, len(profiles)),
	}

	results := make([]FieldClassification, len(profiles))
	var wg sync.WaitGroup
	for i, p := range profiles {
		wg.Add(1)
		go func(i int, p *profile.ColumnProfile) {
			defer wg.Done()
			results[i] = a.ClassifyColumn(p)
		}(i, p)
	}
	wg.Wait()

	for i, p := range profiles {
		fc := results[i]
		report.ColumnOrder = append(report.ColumnOrder, p.Name)
		report.Fields[p.Name] = fc
		report.Profiles[p.Name] = p.Summary()

		switch {
		case fc.Confidence >= 0.8:
			report.Histogram.High++
		case fc.Confidence >= 0.5:
			report.Histogram.Medium++
		default:
			report.Histogram.Low++
		}
	}

	return report
}
