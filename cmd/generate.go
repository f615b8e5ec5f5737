package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"synthcheck/internal/classify"
	"synthcheck/internal/dialect"
	"synthcheck/internal/engine"
	"synthcheck/internal/profile"
	"synthcheck/internal/schema"
	"synthcheck/internal/strategy"
)

var (
	genCount      int
	genSeed       int64
	genSchemaFile string
	genOutDir     string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate constraint-repaired synthetic data for a schema",
	Long: `Generate synthetic rows for every table of a schema, in foreign-key
dependency order. The schema comes either from a JSON file (--schema) or
from introspecting the configured live database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			ds       *schema.DataSchema
			profiles map[string][]*profile.ColumnProfile
			err      error
		)

		if genSchemaFile != "" {
			ds, err = loadSchemaFile(genSchemaFile)
			if err != nil {
				return err
			}
			log.Printf("Loaded schema from %s (%d tables)", genSchemaFile, len(ds.Tables))
		} else {
			if err := connect(); err != nil {
				return err
			}
			d := dialect.Get(DriverName)
			log.Printf("Using Dialect: %s\n", DriverName)
			log.Println("Scanning schema...")
			scanner := profile.NewScanner(DB, d)
			ds, profiles, err = scanner.Scan(context.Background(), SchemaName)
			if err != nil {
				return err
			}
		}

		// Flag > Config > Default
		targetCount := viper.GetInt("settings.default_count")
		if genCount > 0 {
			targetCount = genCount
		}

		log.Printf("Starting generation with count=%d per table...", targetCount)
		start := time.Now()

		pipeline := engine.NewPipeline(
			classify.DefaultClassifiers(nil),
			strategy.NewRouter(nil, 0),
			engine.NewBootstrapSynthesizer(profileIndex(profiles)),
			engine.NewFakerTextGenerator(genSeed),
		)

		uiprogress.Start()
		bar := uiprogress.AddBar(len(ds.Tables)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Generating: "
		})

		result, err := pipeline.Run(context.Background(), ds, profiles, engine.Options{
			RowCount: targetCount,
			Seed:     genSeed,
			OnTable:  func(string) { bar.Incr() },
		})
		uiprogress.Stop()
		if err != nil {
			return err
		}

		if err := writeRun(genOutDir, ds, result); err != nil {
			return err
		}

		elapsed := time.Since(start)

		fmt.Println("\n📊 Summary Report (Dependency Order):")
		total := 0
		for i, r := range result.Summary {
			icon := "✓"
			if r.Warnings > 0 {
				icon = "!"
			}
			fmt.Printf("[%s] [%02d/%02d] %-20s : %d rows (%d repairs, %d warnings)\n",
				icon, i+1, len(result.Summary), r.TableName, r.Rows, r.Repairs, r.Warnings)
			total += r.Rows
		}
		fmt.Println("--------------------------------------------------")
		fmt.Printf("Total Rows: %d (run %s)\n", total, result.RunID)
		fmt.Printf("Output written to %s/\n", genOutDir)
		log.Printf("Generation Done! Time Elapsed: %s", elapsed)

		return nil
	},
}

func loadSchemaFile(path string) (*schema.DataSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	var ds schema.DataSchema
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse schema file: %w", err)
	}
	return &ds, nil
}

// profileIndex re-keys scanner output by table then column, the shape the
// bootstrap synthesizer samples from.
func profileIndex(profiles map[string][]*profile.ColumnProfile) map[string]map[string]*profile.ColumnProfile {
	idx := make(map[string]map[string]*profile.ColumnProfile, len(profiles))
	for table, cols := range profiles {
		byName := make(map[string]*profile.ColumnProfile, len(cols))
		for _, p := range cols {
			byName[p.Name] = p
		}
		idx[table] = byName
	}
	return idx
}

// tableDump is the on-disk shape of one generated table.
type tableDump struct {
	Table  string          `json:"table"`
	Fields []string        `json:"fields"`
	Rows   [][]interface{} `json:"rows"`
}

// runDump is the on-disk shape of the run report.
type runDump struct {
	RunID    string                                 `json:"run_id"`
	Order    []string                               `json:"order"`
	Summary  []engine.TableResult                   `json:"summary"`
	Reports  map[string]*classify.SensitivityReport `json:"sensitivity_reports"`
	Warnings []engine.Warning                       `json:"warnings,omitempty"`
}

func writeRun(dir string, ds *schema.DataSchema, result *engine.Result) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	for _, name := range result.Order {
		t := ds.Table(name)
		var fields []string
		for _, f := range t.Fields {
			fields = append(fields, f.Name)
		}
		dump := tableDump{
			Table:  name,
			Fields: fields,
			Rows:   result.Tables[name].Rows(fields),
		}
		if err := writeJSON(filepath.Join(dir, name+".json"), dump); err != nil {
			return err
		}
	}

	report := runDump{
		RunID:    result.RunID,
		Order:    result.Order,
		Summary:  result.Summary,
		Reports:  result.Reports,
		Warnings: result.Warnings,
	}
	return writeJSON(filepath.Join(dir, "run_report.json"), report)
}

func init() {
	RootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntVar(&genCount, "count", 0, "Number of rows to generate per table (overrides config)")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "Deterministic seed (0 uses the current time)")
	generateCmd.Flags().StringVar(&genSchemaFile, "schema", "", "Schema JSON file (skips database introspection)")
	generateCmd.Flags().StringVarP(&genOutDir, "out", "o", "synthcheck_out", "Output directory for generated tables and report")

	viper.BindPFlag("settings.default_count", generateCmd.Flags().Lookup("count"))
	viper.SetDefault("settings.default_count", 100)
}
