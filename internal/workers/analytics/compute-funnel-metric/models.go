// internal/workers/analytics/compute-funnel-metric/models.go
package computefunnelmetric

import (
	"recruit-analytics/internal/analytics"
	"recruit-analytics/internal/common/tabular"
	"recruit-analytics/internal/models"
)

type Input struct {
	analytics.RosterSource
	ColumnMapping          models.ColumnMapping `json:"columnMapping"`
	Stage                  models.Stage         `json:"stage"`
	Metric                 models.MetricKind    `json:"metric"`
	ReferenceYear          int                  `json:"referenceYear,omitempty"`
	ReservationDenominator string               `json:"reservationDenominator,omitempty"`
}

type Output struct {
	RunID       string                 `json:"runId"`
	Stage       models.Stage           `json:"stage"`
	Metric      models.MetricKind      `json:"metric"`
	Label       string                 `json:"label"`
	Numerator   int                    `json:"numerator"`
	Denominator int                    `json:"denominator"`
	Percentage  *float64               `json:"percentage"`
	Display     string                 `json:"display"`
	Sufficient  bool                   `json:"sufficient"`
	Rows        int                    `json:"rows"`
	DroppedRows int                    `json:"droppedRows"`
	Warnings    []tabular.ParseWarning `json:"warnings,omitempty"`
}
