// internal/workers/analytics/detect-followup-alerts/models.go
package detectfollowupalerts

import (
	"recruit-analytics/internal/analytics"
	"recruit-analytics/internal/common/tabular"
	"recruit-analytics/internal/models"
)

type Input struct {
	analytics.RosterSource
	ColumnMapping models.ColumnMapping `json:"columnMapping"`
	ReferenceYear int                  `json:"referenceYear,omitempty"`
	// AsOf pins the evaluation time for re-runs: RFC3339 or YYYY-MM-DD.
	AsOf string `json:"asOf,omitempty"`
}

type Output struct {
	RunID        string                 `json:"runId"`
	AsOf         string                 `json:"asOf"` // ISO 8601
	Alerts       []models.AlertResult   `json:"alerts"`
	TotalFlagged int                    `json:"totalFlagged"`
	Rows         int                    `json:"rows"`
	DroppedRows  int                    `json:"droppedRows"`
	Warnings     []tabular.ParseWarning `json:"warnings,omitempty"`
}

const asOfDateLayout = "2006-01-02"
