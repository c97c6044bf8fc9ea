// internal/analytics/keywords.go
package analytics

import (
	"fmt"

	"recruit-analytics/internal/common/config"
	"recruit-analytics/internal/common/errors"
	"recruit-analytics/internal/models"
)

// Matcher tests the cells bound to Roles. With Present set it matches any
// non-blank cell; otherwise a cell matches when it contains one of Include
// and none of Exclude. Matching is a case-sensitive substring test.
type Matcher struct {
	Roles   []models.Role
	Include []string
	Exclude []string
	Present bool
}

// FlagRule derives one flag. The flag is true when any matcher matches and
// none of ExcludeFlags is true for the same candidate.
type FlagRule struct {
	Flag         models.Flag
	Matchers     []Matcher
	ExcludeFlags []models.Flag
}

// statusRoles are every column that can carry a withdrawal remark.
var statusRoles = []models.Role{
	models.RoleBriefingStatus,
	models.RoleSelectionStatus,
	models.RoleFirstInterviewResult,
	models.RoleSecondInterviewResult,
	models.RoleFinalInterviewResult,
	models.RoleFinalStatus,
}

func one(r models.Role) []models.Role { return []models.Role{r} }

// DefaultKeywords returns the built-in rule table, using the status
// vocabulary of the recruiting team the dashboard was written for.
func DefaultKeywords() []FlagRule {
	withdrawn := []models.Flag{models.FlagWithdrawnAny}

	return []FlagRule{
		{
			Flag: models.FlagWithdrawnAny,
			Matchers: []Matcher{
				{Roles: statusRoles, Include: []string{"辞退"}},
				// a no-show at the first interview counts as an implicit withdrawal
				{Roles: one(models.RoleFirstInterviewResult), Include: []string{"欠席", "無断キャンセル", "当日キャンセル"}},
			},
		},
		{
			Flag: models.FlagAttended,
			Matchers: []Matcher{{
				Roles:   one(models.RoleBriefingStatus),
				Include: []string{"参加", "出席"},
				Exclude: []string{"不参加", "欠席", "辞退"},
			}},
		},
		{
			Flag: models.FlagWanted,
			Matchers: []Matcher{{
				Roles:   one(models.RoleSelectionStatus),
				Include: []string{"希望"},
				Exclude: []string{"辞退"},
			}},
			ExcludeFlags: withdrawn,
		},
		{
			Flag:     models.FlagInterviewScheduled,
			Matchers: []Matcher{{Roles: one(models.RoleFirstInterviewDate), Present: true}},
		},
		{
			Flag:         models.FlagInterviewed,
			Matchers:     []Matcher{{Roles: one(models.RoleFirstInterviewDate), Present: true}},
			ExcludeFlags: withdrawn,
		},
		{
			Flag: models.FlagPassed,
			Matchers: []Matcher{{
				Roles:   one(models.RoleFirstInterviewResult),
				Include: []string{"合格", "通過", "次へ"},
				Exclude: []string{"不合格", "お見送り", "辞退"},
			}},
			ExcludeFlags: withdrawn,
		},
		{
			Flag: models.FlagOffered,
			Matchers: []Matcher{{
				Roles:   one(models.RoleFinalStatus),
				Include: []string{"内定"},
				Exclude: []string{"取消", "見送り"},
			}},
		},
		{
			Flag: models.FlagAccepted,
			Matchers: []Matcher{{
				Roles:   one(models.RoleFinalStatus),
				Include: []string{"承諾", "入社"},
				Exclude: []string{"辞退", "未承諾"},
			}},
		},
		{
			Flag:     models.FlagConsidering,
			Matchers: []Matcher{{Roles: one(models.RoleSelectionStatus), Include: []string{"検討"}}},
		},
		{
			Flag:     models.FlagSurveyConfirmed,
			Matchers: []Matcher{{Roles: one(models.RoleSurveyStatus), Include: []string{"回答済", "確認済"}}},
		},
		{
			Flag:     models.FlagPhoneConfirmed,
			Matchers: []Matcher{{Roles: one(models.RolePhoneStatus), Include: []string{"確認済"}}},
		},
		{
			Flag:     models.FlagEmailRead,
			Matchers: []Matcher{{Roles: one(models.RoleEmailStatus), Include: []string{"既読", "開封"}}},
		},
		{
			Flag:     models.FlagDocumentsCollected,
			Matchers: []Matcher{{Roles: one(models.RoleDocumentStatus), Include: []string{"回収済"}}},
		},
	}
}

// ApplyKeywordOverrides replaces the keyword lists of the flags named in
// overrides. The lists apply to the flag's first keyword matcher; a nil list
// keeps the built-in one. The input rules are not modified.
func ApplyKeywordOverrides(rules []FlagRule, overrides map[string]config.KeywordConfig) ([]FlagRule, error) {
	out := make([]FlagRule, len(rules))
	index := make(map[models.Flag]int, len(rules))
	for i, r := range rules {
		r.Matchers = append([]Matcher(nil), r.Matchers...)
		out[i] = r
		index[r.Flag] = i
	}

	for name, kw := range overrides {
		i, ok := index[models.Flag(name)]
		if !ok {
			return nil, errors.NewInvalidKeywordTableError(fmt.Sprintf("unknown flag %q", name))
		}

		m := keywordMatcher(out[i].Matchers)
		if m == nil {
			return nil, errors.NewInvalidKeywordTableError(fmt.Sprintf("flag %q is not keyword based", name))
		}
		if kw.Include != nil {
			if len(kw.Include) == 0 {
				return nil, errors.NewInvalidKeywordTableError(fmt.Sprintf("flag %q: include list is empty", name))
			}
			m.Include = append([]string(nil), kw.Include...)
		}
		if kw.Exclude != nil {
			m.Exclude = append([]string(nil), kw.Exclude...)
		}
	}

	return out, nil
}

func keywordMatcher(ms []Matcher) *Matcher {
	for i := range ms {
		if !ms[i].Present {
			return &ms[i]
		}
	}
	return nil
}
