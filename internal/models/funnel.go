// internal/models/funnel.go
package models

import "fmt"

// Stage is a selectable point of the hiring funnel.
type Stage string

const (
	StageSeminarReservation Stage = "seminar_reservation"
	StageBriefingAttendance Stage = "briefing_attendance"
	StageFirstInterview     Stage = "first_interview"
	StageOfferAcceptance    Stage = "offer_acceptance"
)

// Stages lists the funnel stages in pipeline order.
var Stages = []Stage{
	StageSeminarReservation,
	StageBriefingAttendance,
	StageFirstInterview,
	StageOfferAcceptance,
}

var StageLabels = map[Stage]string{
	StageSeminarReservation: "説明会予約",
	StageBriefingAttendance: "説明会参加",
	StageFirstInterview:     "一次選考",
	StageOfferAcceptance:    "内定・承諾",
}

// MetricKind is a conversion metric offered for a stage.
type MetricKind string

const (
	MetricAttendanceRate MetricKind = "attendance_rate"
	MetricAbsenceRate    MetricKind = "absence_rate"
	MetricInterestRate   MetricKind = "interest_rate"
	MetricWithdrawalRate MetricKind = "withdrawal_rate"
	MetricInterviewRate  MetricKind = "interview_rate"
	MetricPassRate       MetricKind = "pass_rate"
	MetricOfferRate      MetricKind = "offer_rate"
	MetricAcceptanceRate MetricKind = "acceptance_rate"
)

var MetricLabels = map[MetricKind]string{
	MetricAttendanceRate: "参加率",
	MetricAbsenceRate:    "キャンセル・欠席率",
	MetricInterestRate:   "希望率",
	MetricWithdrawalRate: "辞退率",
	MetricInterviewRate:  "面接参加率",
	MetricPassRate:       "合格率",
	MetricOfferRate:      "内定率",
	MetricAcceptanceRate: "承諾率",
}

// Selection is the (stage, metric) pair chosen by the caller.
type Selection struct {
	Stage  Stage      `json:"stage"`
	Metric MetricKind `json:"metric"`
}

// Label renders the selection the way the dashboard titles it.
func (s Selection) Label() string {
	stage, ok := StageLabels[s.Stage]
	if !ok {
		stage = string(s.Stage)
	}
	metric, ok := MetricLabels[s.Metric]
	if !ok {
		metric = string(s.Metric)
	}
	return stage + "の" + metric
}

const InsufficientData = "insufficient data"

// MetricResult is a numerator/denominator pair. Percentage is nil when the
// denominator is zero.
type MetricResult struct {
	Selection   Selection `json:"selection"`
	Label       string    `json:"label"`
	Numerator   int       `json:"numerator"`
	Denominator int       `json:"denominator"`
	Percentage  *float64  `json:"percentage"`
}

func (r MetricResult) Sufficient() bool {
	return r.Percentage != nil
}

// Display renders the percentage with one decimal, or InsufficientData.
func (r MetricResult) Display() string {
	if r.Percentage == nil {
		return InsufficientData
	}
	return fmt.Sprintf("%.1f%%", *r.Percentage)
}
