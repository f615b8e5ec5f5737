package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"

	"synthcheck/internal/classify"
	"synthcheck/internal/dialect"
	"synthcheck/internal/profile"
	"synthcheck/internal/strategy"
)

var (
	analyzeOut    string
	analyzeTables []string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Profile a live database and report PII-sensitive columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connect(); err != nil {
			return err
		}

		d := dialect.Get(DriverName)
		log.Printf("Using Dialect: %s\n", DriverName)

		log.Println("Scanning schema...")
		start := time.Now()
		scanner := profile.NewScanner(DB, d)
		ds, profiles, err := scanner.Scan(context.Background(), SchemaName)
		if err != nil {
			return err
		}

		var all []string
		for _, t := range ds.Tables {
			all = append(all, t.Name)
		}
		targets := filterTables(all, analyzeTables)
		if len(targets) == 0 {
			return fmt.Errorf("no matching tables found for inputs: %v", analyzeTables)
		}

		router := strategy.NewRouter(nil, 0)
		analyzer := classify.NewAnalyzer(classify.DefaultClassifiers(nil), router.Route)

		uiprogress.Start()
		bar := uiprogress.AddBar(len(targets)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Analyzing:  "
		})

		reports := make(map[string]*classify.SensitivityReport, len(targets))
		for _, name := range targets {
			reports[name] = analyzer.Analyze(profiles[name])
			bar.Incr()
		}
		uiprogress.Stop()

		elapsed := time.Since(start)

		fmt.Println("\n📊 Sensitivity Report:")
		for i, name := range targets {
			r := reports[name]
			sensitive := r.SensitiveFields()
			icon := "✓"
			if len(sensitive) > 0 {
				icon = "!"
			}
			fmt.Printf("[%s] [%02d/%02d] %-20s : %d sensitive / %d columns\n",
				icon, i+1, len(targets), name, len(sensitive), len(r.ColumnOrder))
			for _, f := range sensitive {
				fc := r.Fields[f]
				fmt.Printf("    └ %-16s %-14s (confidence %.2f) -> %s\n",
					f, fc.SensitivityType, fc.Confidence, fc.RecommendedStrategy)
			}
		}
		fmt.Println("--------------------------------------------------")
		log.Printf("Analysis Done! Time Elapsed: %s", elapsed)

		if analyzeOut != "" {
			if err := writeJSON(analyzeOut, reports); err != nil {
				return err
			}
			fmt.Printf("Report saved to %s\n", analyzeOut)
		}
		return nil
	},
}

func filterTables(all, requested []string) []string {
	if len(requested) == 0 {
		return all
	}
	req := make(map[string]bool, len(requested))
	for _, t := range requested {
		req[strings.ToLower(t)] = true
	}
	var out []string
	for _, t := range all {
		if req[strings.ToLower(t)] {
			out = append(out, t)
		}
	}
	return out
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func init() {
	RootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Write the full JSON report to this file")
	analyzeCmd.Flags().StringSliceVarP(&analyzeTables, "tables", "t", []string{}, "Specific tables to analyze (comma-separated)")
}
