// internal/models/alert.go
package models

// AlertRuleID names an entry of the follow-up alert catalog.
type AlertRuleID string

const (
	AlertBriefingNoShow         AlertRuleID = "briefing_no_show"
	AlertSchedulingDelay        AlertRuleID = "first_interview_scheduling_delay"
	AlertExtendedConsideration  AlertRuleID = "extended_consideration"
	AlertInterviewResultMissing AlertRuleID = "interview_result_missing"
	AlertInvitationStale        AlertRuleID = "next_stage_invitation_stale"
	AlertPreEventUnconfirmed    AlertRuleID = "pre_event_unconfirmed"
	AlertDocumentNotCollected   AlertRuleID = "document_not_collected"
)

// AlertEntry is a matching candidate projected to the rule's columns.
type AlertEntry struct {
	Row         int               `json:"row"`
	DisplayName string            `json:"displayName"`
	Columns     map[string]string `json:"columns,omitempty"`
	Detail      string            `json:"detail,omitempty"`
}

// AlertResult is the outcome of one rule over the roster. Skipped is set when
// a column the rule depends on is not part of the mapping.
type AlertResult struct {
	Rule    AlertRuleID  `json:"rule"`
	Label   string       `json:"label"`
	Count   int          `json:"count"`
	Skipped bool         `json:"skipped,omitempty"`
	Entries []AlertEntry `json:"entries"`
}
