// internal/analytics/alerts.go
package analytics

import (
	"strings"
	"time"

	"recruit-analytics/internal/common/config"
	"recruit-analytics/internal/models"
)

// Thresholds are the day counts of the alert catalog.
type Thresholds struct {
	SchedulingDelayDays int
	ConsiderationDays   int
	ResultOverdueDays   int
	InvitationStaleDays int
	PreEventWindowDays  int
	DocumentOverdueDays int
}

// ThresholdsFromConfig converts the configuration section. Zero values are
// used as given; defaults are applied by the config loader.
func ThresholdsFromConfig(c config.ThresholdConfig) Thresholds {
	return Thresholds{
		SchedulingDelayDays: c.SchedulingDelayDays,
		ConsiderationDays:   c.ConsiderationDays,
		ResultOverdueDays:   c.ResultOverdueDays,
		InvitationStaleDays: c.InvitationStaleDays,
		PreEventWindowDays:  c.PreEventWindowDays,
		DocumentOverdueDays: c.DocumentOverdueDays,
	}
}

// DefaultThresholds returns the thresholds used when nothing is configured.
func DefaultThresholds() Thresholds {
	return ThresholdsFromConfig(config.DefaultAnalytics().Thresholds)
}

type ruleInput struct {
	now        time.Time
	thresholds Thresholds
	mapping    models.ColumnMapping
}

// alertRule is one entry of the catalog. match returns whether the record is
// flagged and an optional detail line.
type alertRule struct {
	id       models.AlertRuleID
	label    string
	requires []models.Role
	columns  []models.Role
	match    func(r models.CandidateRecord, in ruleInput) (bool, string)
}

type interviewStage struct {
	label  string
	date   models.Role
	result models.Role
}

var interviewStages = []interviewStage{
	{label: "一次選考", date: models.RoleFirstInterviewDate, result: models.RoleFirstInterviewResult},
	{label: "二次選考", date: models.RoleSecondInterviewDate, result: models.RoleSecondInterviewResult},
	{label: "最終選考", date: models.RoleFinalInterviewDate, result: models.RoleFinalInterviewResult},
}

var confirmationFlags = []models.Flag{
	models.FlagSurveyConfirmed,
	models.FlagPhoneConfirmed,
	models.FlagEmailRead,
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

var alertCatalog = []alertRule{
	{
		id:       models.AlertBriefingNoShow,
		label:    "説明会欠席",
		requires: []models.Role{models.RoleReservationDate},
		columns:  []models.Role{models.RoleReservationDate, models.RoleBriefingStatus},
		match: func(r models.CandidateRecord, in ruleInput) (bool, string) {
			return isPast(in.now, r.Date(models.RoleReservationDate)) && !r.Has(models.FlagAttended), ""
		},
	},
	{
		id:       models.AlertSchedulingDelay,
		label:    "一次日程遅延",
		requires: []models.Role{models.RoleReservationDate, models.RoleFirstInterviewDate},
		columns:  []models.Role{models.RoleReservationDate, models.RoleSelectionStatus, models.RoleFirstInterviewDate},
		match: func(r models.CandidateRecord, in ruleInput) (bool, string) {
			d := r.Date(models.RoleReservationDate)
			return r.Has(models.FlagWanted) &&
				blank(r.Value(models.RoleFirstInterviewDate)) &&
				d.Valid && ElapsedDays(in.now, d) >= in.thresholds.SchedulingDelayDays, ""
		},
	},
	{
		id:       models.AlertExtendedConsideration,
		label:    "検討中フォロー",
		requires: []models.Role{models.RoleReservationDate, models.RoleSelectionStatus},
		columns:  []models.Role{models.RoleReservationDate, models.RoleSelectionStatus},
		match: func(r models.CandidateRecord, in ruleInput) (bool, string) {
			d := r.Date(models.RoleReservationDate)
			return r.Has(models.FlagConsidering) &&
				d.Valid && ElapsedDays(in.now, d) >= in.thresholds.ConsiderationDays, ""
		},
	},
	{
		id:    models.AlertInterviewResultMissing,
		label: "選考結果未入力",
		columns: []models.Role{
			models.RoleFirstInterviewDate, models.RoleFirstInterviewResult,
			models.RoleSecondInterviewDate, models.RoleSecondInterviewResult,
			models.RoleFinalInterviewDate, models.RoleFinalInterviewResult,
		},
		match: func(r models.CandidateRecord, in ruleInput) (bool, string) {
			var overdue []string
			for _, st := range interviewStages {
				if !in.mapping.Mapped(st.date) || !in.mapping.Mapped(st.result) {
					continue
				}
				d := r.Date(st.date)
				if d.Valid && ElapsedDays(in.now, d) >= in.thresholds.ResultOverdueDays && blank(r.Value(st.result)) {
					overdue = append(overdue, st.label)
				}
			}
			return len(overdue) > 0, strings.Join(overdue, ", ")
		},
	},
	{
		id:       models.AlertInvitationStale,
		label:    "二次日程未確定",
		requires: []models.Role{models.RoleInvitationDate, models.RoleSecondInterviewDate},
		columns:  []models.Role{models.RoleInvitationDate, models.RoleSecondInterviewDate},
		match: func(r models.CandidateRecord, in ruleInput) (bool, string) {
			d := r.Date(models.RoleInvitationDate)
			return d.Valid && ElapsedDays(in.now, d) >= in.thresholds.InvitationStaleDays &&
				blank(r.Value(models.RoleSecondInterviewDate)), ""
		},
	},
	{
		id:       models.AlertPreEventUnconfirmed,
		label:    "事前確認未完了",
		requires: []models.Role{models.RoleReservationDate},
		columns: []models.Role{
			models.RoleReservationDate, models.RoleSurveyStatus, models.RolePhoneStatus, models.RoleEmailStatus,
		},
		match: func(r models.CandidateRecord, in ruleInput) (bool, string) {
			if !isUpcoming(in.now, r.Date(models.RoleReservationDate), in.thresholds.PreEventWindowDays) {
				return false, ""
			}
			for _, f := range confirmationFlags {
				if r.Has(f) {
					return false, ""
				}
			}
			return true, ""
		},
	},
	{
		id:       models.AlertDocumentNotCollected,
		label:    "書類未回収",
		requires: []models.Role{models.RoleFirstInterviewDate, models.RoleDocumentStatus},
		columns:  []models.Role{models.RoleFirstInterviewDate, models.RoleDocumentStatus},
		match: func(r models.CandidateRecord, in ruleInput) (bool, string) {
			d := r.Date(models.RoleFirstInterviewDate)
			return d.Valid && ElapsedDays(in.now, d) >= in.thresholds.DocumentOverdueDays &&
				!r.Has(models.FlagDocumentsCollected) && !r.Has(models.FlagWithdrawnAny), ""
		},
	},
}

// RuleInfo identifies a catalog rule for listings and digests.
type RuleInfo struct {
	ID    models.AlertRuleID `json:"id"`
	Label string             `json:"label"`
}

// Catalog returns the alert rules in evaluation order.
func Catalog() []RuleInfo {
	out := make([]RuleInfo, len(alertCatalog))
	for i, rule := range alertCatalog {
		out[i] = RuleInfo{ID: rule.id, Label: rule.label}
	}
	return out
}

// Detect evaluates the whole catalog against records as of now. Rules are
// independent; a record may be flagged by several. A rule whose columns are
// not mapped is reported as skipped rather than failing the run.
func Detect(records []models.CandidateRecord, mapping models.ColumnMapping, now time.Time, thresholds Thresholds) []models.AlertResult {
	in := ruleInput{now: now, thresholds: thresholds, mapping: mapping}
	results := make([]models.AlertResult, 0, len(alertCatalog))

	for _, rule := range alertCatalog {
		res := models.AlertResult{Rule: rule.id, Label: rule.label, Entries: []models.AlertEntry{}}
		if !allMapped(mapping, rule.requires) {
			res.Skipped = true
			results = append(results, res)
			continue
		}

		for _, r := range records {
			ok, detail := rule.match(r, in)
			if !ok {
				continue
			}
			res.Entries = append(res.Entries, project(r, rule.columns, mapping, detail))
		}
		res.Count = len(res.Entries)
		results = append(results, res)
	}
	return results
}

func allMapped(mapping models.ColumnMapping, roles []models.Role) bool {
	for _, role := range roles {
		if !mapping.Mapped(role) {
			return false
		}
	}
	return true
}

func project(r models.CandidateRecord, roles []models.Role, mapping models.ColumnMapping, detail string) models.AlertEntry {
	cols := make(map[string]string, len(roles))
	for _, role := range roles {
		if header := mapping.Column(role); header != "" {
			cols[header] = r.Value(role)
		}
	}
	return models.AlertEntry{Row: r.Row, DisplayName: r.DisplayName, Columns: cols, Detail: detail}
}
