// internal/workers/communication/send-alert-digest/digest.go
package sendalertdigest

import (
	"fmt"
	"strings"
	"time"

	"recruit-analytics/internal/models"
)

const digestDateLayout = "2006/1/2"

// digestDate renders asOf as the calendar date the alerts were evaluated on.
func digestDate(asOf string) string {
	if t, err := time.Parse(time.RFC3339, asOf); err == nil {
		return t.Format(digestDateLayout)
	}
	if t, err := time.Parse("2006-01-02", asOf); err == nil {
		return t.Format(digestDateLayout)
	}
	return asOf
}

// active returns the alerts that matched at least one candidate.
func active(alerts []models.AlertResult) []models.AlertResult {
	var out []models.AlertResult
	for _, a := range alerts {
		if !a.Skipped && a.Count > 0 {
			out = append(out, a)
		}
	}
	return out
}

func total(alerts []models.AlertResult) int {
	n := 0
	for _, a := range alerts {
		n += a.Count
	}
	return n
}

func renderSubject(input *Input, count int) string {
	return fmt.Sprintf("[採用フォローアップ] 要対応 %d件 (%s)", count, digestDate(input.AsOf))
}

// renderBody lists each matching rule with its candidates. Rules that were
// skipped for lack of columns are listed at the end so the reader knows
// they were not evaluated.
func renderBody(input *Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "採用フォローアップ通知 %s\n", digestDate(input.AsOf))
	fmt.Fprintf(&b, "Run: %s\n", input.RunID)

	for _, a := range active(input.Alerts) {
		fmt.Fprintf(&b, "\n■ %s (%d件)\n", a.Label, a.Count)
		for _, e := range a.Entries {
			line := fmt.Sprintf("  - %s (行 %d)", e.DisplayName, e.Row)
			if e.Detail != "" {
				line += ": " + e.Detail
			}
			b.WriteString(line + "\n")
		}
	}

	var skipped []string
	for _, a := range input.Alerts {
		if a.Skipped {
			skipped = append(skipped, a.Label)
		}
	}
	if len(skipped) > 0 {
		fmt.Fprintf(&b, "\n未評価 (列未設定): %s\n", strings.Join(skipped, ", "))
	}
	return b.String()
}

// renderSummary is the one-line SMS text.
func renderSummary(input *Input, count int) string {
	parts := make([]string, 0, len(input.Alerts))
	for _, a := range active(input.Alerts) {
		parts = append(parts, fmt.Sprintf("%s%d", a.Label, a.Count))
	}
	return fmt.Sprintf("採用フォローアップ %s: 要対応%d件 (%s)", digestDate(input.AsOf), count, strings.Join(parts, ", "))
}
