// internal/analytics/funnel.go
package analytics

import (
	"strings"

	"recruit-analytics/internal/common/config"
	"recruit-analytics/internal/common/errors"
	"recruit-analytics/internal/models"
)

// FunnelOptions carries the run settings the calculator depends on.
type FunnelOptions struct {
	// ReservationDenominator is config.ReservationDenominatorReserved (records
	// with a reservation cell) or config.ReservationDenominatorAll.
	ReservationDenominator string
	Mapping                models.ColumnMapping
}

type recordPredicate func(r models.CandidateRecord) bool

// metricDef pairs a population (the denominator) with a numerator predicate.
// When withinPopulation is false the numerator counts over the whole roster.
type metricDef struct {
	requires         []models.Role
	population       func(opts FunnelOptions) recordPredicate
	numerator        recordPredicate
	withinPopulation bool
}

func hasFlag(f models.Flag) recordPredicate {
	return func(r models.CandidateRecord) bool { return r.Has(f) }
}

func lacksFlag(f models.Flag) recordPredicate {
	return func(r models.CandidateRecord) bool { return !r.Has(f) }
}

func flagPopulation(f models.Flag) func(FunnelOptions) recordPredicate {
	return func(FunnelOptions) recordPredicate { return hasFlag(f) }
}

func reservationPopulation(opts FunnelOptions) recordPredicate {
	if opts.ReservationDenominator == config.ReservationDenominatorAll {
		return func(models.CandidateRecord) bool { return true }
	}
	return func(r models.CandidateRecord) bool {
		return strings.TrimSpace(r.Value(models.RoleReservationDate)) != ""
	}
}

var funnelTable = map[models.Stage]map[models.MetricKind]metricDef{
	models.StageSeminarReservation: {
		models.MetricAttendanceRate: {population: reservationPopulation, numerator: hasFlag(models.FlagAttended), withinPopulation: true},
		models.MetricAbsenceRate:    {population: reservationPopulation, numerator: lacksFlag(models.FlagAttended), withinPopulation: true},
	},
	models.StageBriefingAttendance: {
		models.MetricInterestRate:   {population: flagPopulation(models.FlagAttended), numerator: hasFlag(models.FlagWanted)},
		models.MetricWithdrawalRate: {population: flagPopulation(models.FlagAttended), numerator: hasFlag(models.FlagWithdrawnAny), withinPopulation: true},
	},
	models.StageFirstInterview: {
		models.MetricInterviewRate:  {population: flagPopulation(models.FlagWanted), numerator: hasFlag(models.FlagInterviewScheduled), withinPopulation: true},
		models.MetricPassRate:       {population: flagPopulation(models.FlagInterviewed), numerator: hasFlag(models.FlagPassed)},
		models.MetricWithdrawalRate: {population: flagPopulation(models.FlagInterviewScheduled), numerator: hasFlag(models.FlagWithdrawnAny), withinPopulation: true},
	},
	models.StageOfferAcceptance: {
		models.MetricOfferRate: {
			requires:   []models.Role{models.RoleFinalStatus},
			population: flagPopulation(models.FlagPassed),
			numerator:  hasFlag(models.FlagOffered),
		},
		models.MetricAcceptanceRate: {
			requires:   []models.Role{models.RoleFinalStatus},
			population: flagPopulation(models.FlagOffered),
			numerator:  hasFlag(models.FlagAccepted),
		},
	},
}

// metricOrder is the order metrics are offered in for each stage.
var metricOrder = map[models.Stage][]models.MetricKind{
	models.StageSeminarReservation: {models.MetricAttendanceRate, models.MetricAbsenceRate},
	models.StageBriefingAttendance: {models.MetricInterestRate, models.MetricWithdrawalRate},
	models.StageFirstInterview:     {models.MetricInterviewRate, models.MetricPassRate, models.MetricWithdrawalRate},
	models.StageOfferAcceptance:    {models.MetricOfferRate, models.MetricAcceptanceRate},
}

// MetricOptions lists the metric kinds valid for stage, nil for unknown stages.
func MetricOptions(stage models.Stage) []models.MetricKind {
	return append([]models.MetricKind(nil), metricOrder[stage]...)
}

// Compute evaluates one (stage, metric) pair over records. A zero denominator
// is not an error: the result carries a nil Percentage.
func Compute(sel models.Selection, records []models.CandidateRecord, opts FunnelOptions) (models.MetricResult, error) {
	def, ok := funnelTable[sel.Stage][sel.Metric]
	if !ok {
		return models.MetricResult{}, errors.NewInvalidMetricSelectionError(string(sel.Stage), string(sel.Metric))
	}
	for _, role := range def.requires {
		if !opts.Mapping.Mapped(role) {
			return models.MetricResult{}, errors.NewUnmappedRoleError(string(role))
		}
	}

	inPopulation := def.population(opts)
	result := models.MetricResult{Selection: sel, Label: sel.Label()}

	for _, r := range records {
		member := inPopulation(r)
		if member {
			result.Denominator++
		}
		if def.numerator(r) && (member || !def.withinPopulation) {
			result.Numerator++
		}
	}

	if result.Denominator > 0 {
		pct := 100 * float64(result.Numerator) / float64(result.Denominator)
		result.Percentage = &pct
	}
	return result, nil
}
