// internal/workers/analytics/suggest-column-mapping/models.go
package suggestcolumnmapping

import (
	"recruit-analytics/internal/analytics"
	"recruit-analytics/internal/models"
)

// Input carries either the upload itself or just its header row.
type Input struct {
	analytics.RosterSource
	Headers []string `json:"headers,omitempty"`
}

type Output struct {
	ColumnMapping   models.ColumnMapping `json:"columnMapping"`
	UnresolvedRoles []models.Role        `json:"unresolvedRoles"`
	Complete        bool                 `json:"complete"`
	Headers         []string             `json:"headers"`
}
