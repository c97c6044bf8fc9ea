// internal/analytics/analyzer.go
package analytics

import (
	"fmt"
	"time"

	"recruit-analytics/internal/common/config"
	"recruit-analytics/internal/common/errors"
	"recruit-analytics/internal/common/logger"
	"recruit-analytics/internal/common/tabular"
	"recruit-analytics/internal/models"
)

// Options configures one analysis run.
type Options struct {
	ReferenceYear          int
	ReservationDenominator string
	Thresholds             Thresholds
	Keywords               map[string]config.KeywordConfig
	DefaultMapping         models.ColumnMapping
}

// OptionsFromConfig builds run options from the analytics configuration section.
func OptionsFromConfig(a config.AnalyticsConfig) Options {
	return Options{
		ReferenceYear:          a.ReferenceYear,
		ReservationDenominator: a.ReservationDenominator,
		Thresholds:             ThresholdsFromConfig(a.Thresholds),
		Keywords:               a.Keywords,
		DefaultMapping:         a.Columns,
	}
}

// DefaultOptions returns the options of an unconfigured deployment.
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultAnalytics())
}

// WithOverrides returns a copy of o with the per-job settings applied. Zero
// values keep the configured defaults.
func (o Options) WithOverrides(referenceYear int, denominator string) Options {
	if referenceYear != 0 {
		o.ReferenceYear = referenceYear
	}
	if denominator != "" {
		o.ReservationDenominator = denominator
	}
	return o
}

// Analyzer is the entry point of the engine. It is immutable once built and
// holds no per-roster state.
type Analyzer struct {
	opts   Options
	engine *FlagEngine
	parser DateParser
	logger logger.Logger
}

// NewAnalyzer validates opts and compiles the flag rule table.
func NewAnalyzer(opts Options, log logger.Logger) (*Analyzer, error) {
	if opts.ReferenceYear < 1900 || opts.ReferenceYear > 9998 {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("reference year %d is out of range", opts.ReferenceYear))
	}
	switch opts.ReservationDenominator {
	case config.ReservationDenominatorReserved, config.ReservationDenominatorAll:
	default:
		return nil, errors.NewInvalidInputError(fmt.Sprintf("unknown reservation denominator %q", opts.ReservationDenominator))
	}

	rules, err := ApplyKeywordOverrides(DefaultKeywords(), opts.Keywords)
	if err != nil {
		return nil, err
	}
	engine, err := NewFlagEngine(rules)
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Analyzer{
		opts:   opts,
		engine: engine,
		parser: DateParser{ReferenceYear: opts.ReferenceYear},
		logger: log,
	}, nil
}

// Options returns the options the analyzer was built with.
func (a *Analyzer) Options() Options {
	return a.opts
}

// Prepare validates the mapping (the configured default overlaid with
// override) against the table, assembles the records and derives their flags.
func (a *Analyzer) Prepare(table *tabular.Table, override models.ColumnMapping) (*Roster, error) {
	mapping := a.opts.DefaultMapping.Merge(override)
	if err := ValidateMapping(table, mapping); err != nil {
		return nil, err
	}

	records, stats := Assemble(table, mapping, a.parser)
	for i := range records {
		records[i].Flags = a.engine.Derive(records[i].Values)
	}

	a.logger.Info("roster assembled", map[string]interface{}{
		"rows":     stats.Rows,
		"kept":     stats.Kept,
		"dropped":  stats.Dropped,
		"warnings": stats.Warnings,
		"encoding": table.Encoding,
	})

	return &Roster{
		Records: records,
		Mapping: mapping,
		Stats:   stats,
		opts:    a.opts,
		logger:  a.logger,
	}, nil
}

// Roster is an assembled, flagged record set ready for metrics and alerts.
type Roster struct {
	Records []models.CandidateRecord
	Mapping models.ColumnMapping
	Stats   AssemblyStats

	opts   Options
	logger logger.Logger
}

// Metric computes one funnel metric.
func (r *Roster) Metric(sel models.Selection) (models.MetricResult, error) {
	return Compute(sel, r.Records, FunnelOptions{
		ReservationDenominator: r.opts.ReservationDenominator,
		Mapping:                r.Mapping,
	})
}

// Metrics computes every metric whose columns are mapped, in stage order.
func (r *Roster) Metrics() []models.MetricResult {
	var out []models.MetricResult
	for _, stage := range models.Stages {
		for _, kind := range MetricOptions(stage) {
			res, err := r.Metric(models.Selection{Stage: stage, Metric: kind})
			if err != nil {
				continue
			}
			out = append(out, res)
		}
	}
	return out
}

// Alerts runs the alert catalog as of now.
func (r *Roster) Alerts(now time.Time) []models.AlertResult {
	results := Detect(r.Records, r.Mapping, now, r.opts.Thresholds)
	for _, res := range results {
		r.logger.Debug("alert rule evaluated", map[string]interface{}{
			"rule":    string(res.Rule),
			"count":   res.Count,
			"skipped": res.Skipped,
		})
	}
	return results
}
