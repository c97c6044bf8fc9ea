// internal/analytics/flags.go
package analytics

import (
	"fmt"
	"strings"

	"recruit-analytics/internal/common/errors"
	"recruit-analytics/internal/models"
)

// FlagEngine evaluates a rule table against candidate rows. Rules are kept in
// dependency order so a flag is always computed after the flags it excludes.
type FlagEngine struct {
	rules []FlagRule
}

// NewFlagEngine validates rules and orders them. Duplicate flags, references
// to flags without a rule, keyword matchers without include keywords and
// dependency cycles are reported as INVALID_KEYWORD_TABLE.
func NewFlagEngine(rules []FlagRule) (*FlagEngine, error) {
	seen := make(map[models.Flag]bool, len(rules))
	for _, r := range rules {
		if r.Flag == "" {
			return nil, errors.NewInvalidKeywordTableError("rule without flag name")
		}
		if seen[r.Flag] {
			return nil, errors.NewInvalidKeywordTableError(fmt.Sprintf("duplicate rule for flag %q", r.Flag))
		}
		seen[r.Flag] = true

		if len(r.Matchers) == 0 {
			return nil, errors.NewInvalidKeywordTableError(fmt.Sprintf("flag %q has no matchers", r.Flag))
		}
		for _, m := range r.Matchers {
			if !m.Present && len(m.Include) == 0 {
				return nil, errors.NewInvalidKeywordTableError(fmt.Sprintf("flag %q has a matcher without include keywords", r.Flag))
			}
		}
	}

	for _, r := range rules {
		for _, dep := range r.ExcludeFlags {
			if !seen[dep] {
				return nil, errors.NewInvalidKeywordTableError(fmt.Sprintf("flag %q excludes unknown flag %q", r.Flag, dep))
			}
		}
	}

	ordered, err := topoSort(rules)
	if err != nil {
		return nil, err
	}
	return &FlagEngine{rules: ordered}, nil
}

// topoSort is Kahn's algorithm, stable with respect to the input order.
func topoSort(rules []FlagRule) ([]FlagRule, error) {
	placed := make(map[models.Flag]bool, len(rules))
	out := make([]FlagRule, 0, len(rules))

	for len(out) < len(rules) {
		progressed := false
		for _, r := range rules {
			if placed[r.Flag] || !allPlaced(r.ExcludeFlags, placed) {
				continue
			}
			placed[r.Flag] = true
			out = append(out, r)
			progressed = true
		}
		if !progressed {
			var stuck []string
			for _, r := range rules {
				if !placed[r.Flag] {
					stuck = append(stuck, string(r.Flag))
				}
			}
			return nil, errors.NewInvalidKeywordTableError("dependency cycle among flags: " + strings.Join(stuck, ", "))
		}
	}
	return out, nil
}

func allPlaced(flags []models.Flag, placed map[models.Flag]bool) bool {
	for _, f := range flags {
		if !placed[f] {
			return false
		}
	}
	return true
}

// Order returns the flags in evaluation order.
func (e *FlagEngine) Order() []models.Flag {
	out := make([]models.Flag, len(e.rules))
	for i, r := range e.rules {
		out[i] = r.Flag
	}
	return out
}

// Derive computes every flag for one row. Missing roles read as blank text.
func (e *FlagEngine) Derive(values map[models.Role]string) models.FlagSet {
	flags := make(models.FlagSet, len(e.rules))
	for _, r := range e.rules {
		flags[r.Flag] = evaluate(r, values, flags)
	}
	return flags
}

func evaluate(r FlagRule, values map[models.Role]string, derived models.FlagSet) bool {
	for _, f := range r.ExcludeFlags {
		if derived[f] {
			return false
		}
	}
	for _, m := range r.Matchers {
		if m.matches(values) {
			return true
		}
	}
	return false
}

func (m Matcher) matches(values map[models.Role]string) bool {
	for _, role := range m.Roles {
		cell := values[role]
		if strings.TrimSpace(cell) == "" {
			continue
		}
		if m.Present {
			return true
		}
		if containsAny(cell, m.Include) && !containsAny(cell, m.Exclude) {
			return true
		}
	}
	return false
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(text, k) {
			return true
		}
	}
	return false
}
