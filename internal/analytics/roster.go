// internal/analytics/roster.go
package analytics

import (
	"fmt"
	"strings"

	"recruit-analytics/internal/common/errors"
	"recruit-analytics/internal/common/tabular"
	"recruit-analytics/internal/models"
)

// UnknownName is shown when a candidate has no usable name.
const UnknownName = "Unknown"

// AssemblyStats summarises one assembly pass.
type AssemblyStats struct {
	Rows     int `json:"rows"`
	Kept     int `json:"kept"`
	Dropped  int `json:"dropped"`
	Warnings int `json:"warnings"`
}

// ValidateMapping checks the mapping against the upload's headers once per
// run: every required role must be mapped, every mapped header must exist and
// no header may serve two roles.
func ValidateMapping(table *tabular.Table, mapping models.ColumnMapping) error {
	owner := make(map[string]models.Role)
	for _, rs := range models.Roles {
		col := strings.TrimSpace(mapping.Column(rs.Role))
		if col == "" {
			if rs.Required {
				return errors.NewUnmappedRoleError(string(rs.Role))
			}
			continue
		}
		if prev, dup := owner[col]; dup {
			return errors.NewInvalidColumnMappingError(
				fmt.Sprintf("column %q is mapped to both %s and %s", col, prev, rs.Role))
		}
		owner[col] = rs.Role

		if !table.HasColumn(col) {
			return errors.NewMissingColumnError(string(rs.Role), col)
		}
	}
	return nil
}

// Assemble turns table rows into candidate records. Rows without a last name
// are dropped. Every mapped date cell is parsed here, once; flags are left to
// the flag engine. The mapping must already have passed ValidateMapping.
func Assemble(table *tabular.Table, mapping models.ColumnMapping, parser DateParser) ([]models.CandidateRecord, AssemblyStats) {
	columns := make(map[models.Role]int)
	for _, rs := range models.Roles {
		if i := table.Column(mapping.Column(rs.Role)); i >= 0 {
			columns[rs.Role] = i
		}
	}
	dateRoles := models.DateRoles()
	_, hasFirstName := columns[models.RoleFirstName]

	stats := AssemblyStats{Rows: len(table.Rows), Warnings: len(table.Warnings)}
	records := make([]models.CandidateRecord, 0, len(table.Rows))

	for i, row := range table.Rows {
		values := make(map[models.Role]string, len(columns))
		for role, col := range columns {
			values[role] = row[col]
		}

		last := strings.TrimSpace(values[models.RoleLastName])
		if last == "" {
			stats.Dropped++
			continue
		}

		name := last
		if hasFirstName {
			name = strings.TrimSpace(last + " " + strings.TrimSpace(values[models.RoleFirstName]))
		}
		if name == "" {
			name = UnknownName
		}

		dates := make(map[models.Role]models.Date, len(dateRoles))
		for _, role := range dateRoles {
			if _, ok := columns[role]; ok {
				dates[role] = parser.Parse(values[role])
			}
		}

		records = append(records, models.CandidateRecord{
			Row:         table.RowNumber(i),
			DisplayName: name,
			Values:      values,
			Dates:       dates,
		})
	}

	stats.Kept = len(records)
	return records, stats
}
