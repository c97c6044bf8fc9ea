// cmd/tools/roster-report/main.go
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"recruit-analytics/internal/analytics"
	"recruit-analytics/internal/common/config"
	"recruit-analytics/internal/common/errors"
	"recruit-analytics/internal/common/logger"
	"recruit-analytics/internal/models"
	cfm "recruit-analytics/internal/workers/analytics/compute-funnel-metric"
	dfa "recruit-analytics/internal/workers/analytics/detect-followup-alerts"
	scm "recruit-analytics/internal/workers/analytics/suggest-column-mapping"
)

// commonFlags are shared by every subcommand.
type commonFlags struct {
	configPath  *string
	csvPath     *string
	mappingPath *string
	year        *int
}

func register(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		configPath:  fs.String("config", "", "Path to config.yaml (built-in analytics defaults when empty)"),
		csvPath:     fs.String("csv", "", "Roster export to analyse (UTF-8, UTF-16 or Shift_JIS)"),
		mappingPath: fs.String("mapping", "", "JSON file with column mapping overrides"),
		year:        fs.Int("year", 0, "Reference year for dates written without one"),
	}
}

func main() {
	suggestCmd := flag.NewFlagSet("suggest", flag.ExitOnError)
	metricCmd := flag.NewFlagSet("metric", flag.ExitOnError)
	funnelCmd := flag.NewFlagSet("funnel", flag.ExitOnError)
	alertsCmd := flag.NewFlagSet("alerts", flag.ExitOnError)

	suggestFlags := register(suggestCmd)

	metricFlags := register(metricCmd)
	stage := metricCmd.String("stage", "", "Funnel stage (e.g., seminar_reservation)")
	metric := metricCmd.String("metric", "", "Metric of the stage (e.g., attendance_rate)")
	denominator := metricCmd.String("denominator", "", "Reservation denominator: reserved or all")

	funnelFlags := register(funnelCmd)
	funnelDenominator := funnelCmd.String("denominator", "", "Reservation denominator: reserved or all")

	alertsFlags := register(alertsCmd)
	asOf := alertsCmd.String("as-of", "", "Evaluation time, RFC3339 or YYYY-MM-DD (now when empty)")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	ctx := context.Background()
	var (
		result interface{}
		err    error
	)

	switch os.Args[1] {
	case "suggest":
		suggestCmd.Parse(os.Args[2:])
		cfg, source := mustLoad(suggestFlags, suggestCmd)
		handler := scm.NewHandler(scm.LoadConfig(cfg), newLogger())
		result, err = handler.Execute(ctx, &scm.Input{RosterSource: source})

	case "metric":
		metricCmd.Parse(os.Args[2:])
		if *stage == "" || *metric == "" {
			fmt.Println("Error: stage and metric are required for metric.")
			metricCmd.Usage()
			os.Exit(1)
		}
		cfg, source := mustLoad(metricFlags, metricCmd)
		handler := cfm.NewHandler(cfm.LoadConfig(cfg), newLogger())
		result, err = handler.Execute(ctx, &cfm.Input{
			RosterSource:           source,
			ColumnMapping:          mustMapping(*metricFlags.mappingPath),
			Stage:                  models.Stage(*stage),
			Metric:                 models.MetricKind(*metric),
			ReferenceYear:          *metricFlags.year,
			ReservationDenominator: *denominator,
		})

	case "funnel":
		funnelCmd.Parse(os.Args[2:])
		cfg, source := mustLoad(funnelFlags, funnelCmd)
		result, err = funnel(cfg, source, mustMapping(*funnelFlags.mappingPath), *funnelFlags.year, *funnelDenominator)

	case "alerts":
		alertsCmd.Parse(os.Args[2:])
		cfg, source := mustLoad(alertsFlags, alertsCmd)
		handler := dfa.NewHandler(dfa.LoadConfig(cfg), newLogger())
		result, err = handler.Execute(ctx, &dfa.Input{
			RosterSource:  source,
			ColumnMapping: mustMapping(*alertsFlags.mappingPath),
			ReferenceYear: *alertsFlags.year,
			AsOf:          *asOf,
		})

	case "help":
		help()
		return
	default:
		help()
		os.Exit(1)
	}

	if err != nil {
		fail(err)
	}
	printJSON(result)
}

type funnelRow struct {
	Stage       models.Stage      `json:"stage"`
	Metric      models.MetricKind `json:"metric"`
	Label       string            `json:"label"`
	Numerator   int               `json:"numerator"`
	Denominator int               `json:"denominator"`
	Display     string            `json:"display"`
}

// funnel computes every metric whose columns are mapped.
func funnel(cfg *config.Config, source analytics.RosterSource, mapping models.ColumnMapping, year int, denominator string) ([]funnelRow, error) {
	opts := analytics.OptionsFromConfig(cfg.Analytics).WithOverrides(year, denominator)
	analyzer, err := analytics.NewAnalyzer(opts, newLogger())
	if err != nil {
		return nil, err
	}
	table, err := source.Table()
	if err != nil {
		return nil, err
	}
	roster, err := analyzer.Prepare(table, mapping)
	if err != nil {
		return nil, err
	}

	rows := []funnelRow{}
	for _, m := range roster.Metrics() {
		rows = append(rows, funnelRow{
			Stage:       m.Selection.Stage,
			Metric:      m.Selection.Metric,
			Label:       m.Label,
			Numerator:   m.Numerator,
			Denominator: m.Denominator,
			Display:     m.Display(),
		})
	}
	return rows, nil
}

// mustLoad reads the configuration and the roster named by the flags. The
// roster is passed on as base64 so its original encoding is detected as-is.
func mustLoad(f commonFlags, fs *flag.FlagSet) (*config.Config, analytics.RosterSource) {
	if *f.csvPath == "" {
		fmt.Println("Error: csv is required.")
		fs.Usage()
		os.Exit(1)
	}

	cfg := &config.Config{Analytics: config.DefaultAnalytics()}
	if *f.configPath != "" {
		loaded, err := config.LoadFile(*f.configPath)
		if err != nil {
			fail(fmt.Errorf("failed to load config: %w", err))
		}
		cfg = loaded
	}

	data, err := os.ReadFile(*f.csvPath)
	if err != nil {
		fail(fmt.Errorf("failed to read roster: %w", err))
	}
	return cfg, analytics.RosterSource{RosterBase64: base64.StdEncoding.EncodeToString(data)}
}

func mustMapping(path string) models.ColumnMapping {
	var mapping models.ColumnMapping
	if path == "" {
		return mapping
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fail(fmt.Errorf("failed to read mapping: %w", err))
	}
	if err := json.Unmarshal(data, &mapping); err != nil {
		fail(fmt.Errorf("failed to parse mapping: %w", err))
	}
	return mapping
}

func newLogger() logger.Logger {
	zapLog, err := logger.Build(logger.Options{Level: "warn", Format: "console", Output: "stderr"})
	if err != nil {
		return logger.NewNoOpLogger()
	}
	return logger.NewZapAdapter(zapLog)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		fail(err)
	}
}

func fail(err error) {
	if stdErr, ok := errors.AsStandardError(err); ok {
		fmt.Fprintf(os.Stderr, "%s: %s\n", stdErr.Code, stdErr.Message)
		if stdErr.Details != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", stdErr.Details)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}

func help() {
	fmt.Print(`
Usage: roster-report <command> [flags]

Commands:
  suggest  Guess the column mapping from the roster headers
  metric   Compute one funnel metric
  funnel   Compute every funnel metric the mapping allows
  alerts   List candidates needing follow-up
  help     Show this help message

Examples:
  roster-report suggest -csv roster.csv
  roster-report metric -csv roster.csv -stage seminar_reservation -metric attendance_rate
  roster-report funnel -csv roster.csv -mapping mapping.json -denominator all
  roster-report alerts -csv roster.csv -as-of 2025-11-20 -config configs/config.yaml

Use 'roster-report <command> -h' for more information about a command.
` + "\n")
}
