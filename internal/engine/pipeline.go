package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"synthcheck/internal/classify"
	"synthcheck/internal/profile"
	"synthcheck/internal/schema"
	"synthcheck/internal/strategy"
)

// Options control one pipeline run.
type Options struct {
	RowCount int
	Seed     int64
	// OnTable is called after each table is finalized, for progress UIs.
	OnTable func(table string)
}

// TableResult summarizes one finalized table.
type TableResult struct {
	TableName string `json:"table"`
	Rows      int    `json:"rows"`
	Repairs   int    `json:"repairs"`
	Warnings  int    `json:"warnings"`
}

// Result is the complete outcome of a generation run: final synthetic
// tables, per-table sensitivity reports, and the repair/violation log.
type Result struct {
	RunID    string
	Order    []string
	Tables   map[string]*TableData
	Reports  map[string]*classify.SensitivityReport
	Summary  []TableResult
	Warnings []Warning
}

// Pipeline wires the decision-and-validation engine end to end:
// classification, strategy routing, collaborator-driven generation,
// constraint repair and referential-integrity repair.
type Pipeline struct {
	classifiers []classify.RegisteredClassifier
	router      *strategy.Router
	synth       TabularSynthesizer
	textGen     TextGenerator
}

// NewPipeline assembles a pipeline from its collaborators. synth and
// textGen must be non-nil; use the built-in fallbacks when no external
// service is configured.
func NewPipeline(classifiers []classify.RegisteredClassifier, router *strategy.Router, synth TabularSynthesizer, textGen TextGenerator) *Pipeline {
	return &Pipeline{
		classifiers: classifiers,
		router:      router,
		synth:       synth,
		textGen:     textGen,
	}
}

// Run executes the full pipeline over the schema. profiles maps table name
// to that table's column profiles; tables without profiles are generated
// from declared types alone. Structural schema problems abort before any
// value-level work.
func (p *Pipeline) Run(ctx context.Context, s *schema.DataSchema, profiles map[string][]*profile.ColumnProfile, opts Options) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	order, err := s.TopologicalSort()
	if err != nil {
		return nil, err
	}
	if opts.RowCount <= 0 {
		opts.RowCount = 100
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	repairLog := NewRepairLog()
	constraints := NewConstraintEngine(repairLog, opts.Seed)
	resolver := NewResolver(repairLog, opts.Seed+1)
	analyzer := classify.NewAnalyzer(p.classifiers, p.router.Route)

	result := &Result{
		RunID:   uuid.NewString(),
		Order:   order,
		Tables:  make(map[string]*TableData, len(order)),
		Reports: make(map[string]*classify.SensitivityReport, len(order)),
	}

	for _, name := range order {
		t := s.Table(name)

		report := analyzer.Analyze(profiles[name])
		result.Reports[name] = report

		data, err := p.generateTable(ctx, name, t, report, profiles[name], opts)
		if err != nil {
			return nil, fmt.Errorf("generating table %s: %w", name, err)
		}

		// Required-field filling runs before FK resampling so the
		// referencing side never draws toward a null.
		constraints.EnforceTable(t, data)
		resolver.ResolveTable(s, t, data, result.Tables)

		result.Tables[name] = data
		if opts.OnTable != nil {
			opts.OnTable(name)
		}
	}

	for _, name := range order {
		result.Summary = append(result.Summary, TableResult{
			TableName: name,
			Rows:      result.Tables[name].RowCount,
			Repairs:   repairLog.TableRepairs(name),
			Warnings:  repairLog.TableWarnings(name),
		})
	}
	result.Warnings = repairLog.Warnings()
	return result, nil
}

func (p *Pipeline) generateTable(ctx context.Context, name string, t *schema.TableSchema, report *classify.SensitivityReport, profs []*profile.ColumnProfile, opts Options) (*TableData, error) {
	samplesByField := make(map[string][]string, len(profs))
	for _, pr := range profs {
		samplesByField[pr.Name] = pr.StringSamples(10)
	}

	data := NewTableData(name, opts.RowCount)
	var statFields []schema.FieldDefinition

	for _, f := range t.Fields {
		fc, classified := report.Fields[f.Name]
		cfg := strategy.BuildConfig(strategy.DistributionPreserving, nil)
		if classified && fc.RecommendedStrategy != "" {
			cfg = strategy.BuildConfig(fc.RecommendedStrategy, samplesByField[f.Name])
			if cfg.Validate() != nil {
				// An example strategy without examples degrades to the
				// distribution default rather than failing the run.
				cfg = strategy.BuildConfig(strategy.DistributionPreserving, nil)
			}
		}

		switch cfg.Strategy {
		case strategy.TextGeneration:
			col, err := p.generateText(ctx, f, fc, samplesByField[f.Name], opts)
			if err != nil {
				return nil, err
			}
			data.Columns[f.Name] = col
		case strategy.ExampleBased:
			data.Columns[f.Name] = drawExamples(cfg.Examples, opts.RowCount, opts.Seed)
		default:
			statFields = append(statFields, f)
		}
	}

	if len(statFields) > 0 {
		cols, err := p.synth.Sample(ctx, name, statFields, opts.RowCount, opts.Seed)
		if err != nil {
			return nil, fmt.Errorf("tabular synthesizer: %w", err)
		}
		for fieldName, col := range cols {
			data.Columns[fieldName] = col
		}
	}

	return data, nil
}

func (p *Pipeline) generateText(ctx context.Context, f schema.FieldDefinition, fc classify.FieldClassification, samples []string, opts Options) ([]interface{}, error) {
	n := 0
	fallback := func() string {
		n++
		return fmt.Sprintf("%s_%d", f.Name, n)
	}

	values, err := p.textGen.Generate(ctx, f.Name, fc.SensitivityType, opts.RowCount, samples, f.Constraints, fallback)
	if err != nil {
		values = nil
	}
	// The generator contract promises exactly rowCount values; pad with
	// the fallback if a partial failure leaked through anyway.
	for len(values) < opts.RowCount {
		values = append(values, fallback())
	}
	values = values[:opts.RowCount]

	col := make([]interface{}, len(values))
	for i, v := range values {
		col[i] = v
	}
	return col, nil
}

func drawExamples(examples []string, rowCount int, seed int64) []interface{} {
	rng := newSeededRand(seed)
	col := make([]interface{}, rowCount)
	for i := range col {
		col[i] = examples[rng.Intn(len(examples))]
	}
	return col
}
