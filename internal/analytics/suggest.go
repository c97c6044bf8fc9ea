// internal/analytics/suggest.go
package analytics

import (
	"strings"

	"recruit-analytics/internal/models"
)

// roleHints are header fragments that usually identify a role, most specific first.
var roleHints = map[models.Role][]string{
	models.RoleLastName:              {"姓", "氏名", "氏"},
	models.RoleFirstName:             {"名"},
	models.RoleReservationDate:       {"予約日", "説明会日", "説明会"},
	models.RoleBriefingStatus:        {"参加", "出席"},
	models.RoleSelectionStatus:       {"希望", "ステータス"},
	models.RoleFirstInterviewDate:    {"一次選考日", "一次面接日", "面接日", "一次"},
	models.RoleFirstInterviewResult:  {"一次選考結果", "一次結果", "結果", "合否"},
	models.RoleInvitationDate:        {"案内", "送付"},
	models.RoleSecondInterviewDate:   {"二次選考日", "二次面接日", "二次"},
	models.RoleSecondInterviewResult: {"二次選考結果", "二次結果"},
	models.RoleFinalInterviewDate:    {"最終選考日", "最終面接日", "最終面接"},
	models.RoleFinalInterviewResult:  {"最終選考結果", "最終結果"},
	models.RoleFinalStatus:           {"内定"},
	models.RoleSurveyStatus:          {"アンケート"},
	models.RolePhoneStatus:           {"電話"},
	models.RoleEmailStatus:           {"メール"},
	models.RoleDocumentStatus:        {"履歴書", "書類"},
}

// SuggestMapping guesses a column mapping from upload headers. Roles are
// resolved in catalog order and a header is never bound twice. For each hint
// an exact header match is preferred over a partial one. The required roles
// left unresolved are returned so the caller can ask for them.
func SuggestMapping(headers []string) (models.ColumnMapping, []models.Role) {
	var mapping models.ColumnMapping
	taken := make(map[int]bool, len(headers))

	trimmed := make([]string, len(headers))
	for i, h := range headers {
		trimmed[i] = strings.TrimSpace(h)
	}

	var unresolved []models.Role
	for _, rs := range models.Roles {
		if i := findHeader(trimmed, taken, roleHints[rs.Role]); i >= 0 {
			taken[i] = true
			mapping.Set(rs.Role, trimmed[i])
			continue
		}
		if rs.Required {
			unresolved = append(unresolved, rs.Role)
		}
	}
	return mapping, unresolved
}

func findHeader(headers []string, taken map[int]bool, hints []string) int {
	for _, hint := range hints {
		for i, h := range headers {
			if !taken[i] && h == hint {
				return i
			}
		}
		for i, h := range headers {
			if !taken[i] && h != "" && strings.Contains(h, hint) {
				return i
			}
		}
	}
	return -1
}
