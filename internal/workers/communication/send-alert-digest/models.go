// internal/workers/communication/send-alert-digest/models.go
package sendalertdigest

import "recruit-analytics/internal/models"

// Input is the output of detect-followup-alerts plus optional recipient
// overrides.
type Input struct {
	RunID        string               `json:"runId"`
	AsOf         string               `json:"asOf"`
	Alerts       []models.AlertResult `json:"alerts"`
	Recipients   []string             `json:"recipients,omitempty"`
	PhoneNumbers []string             `json:"phoneNumbers,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "failed", "disabled", "skipped", "duplicate"
	SentAt         string `json:"sentAt"` // ISO 8601
	TotalAlerts    int    `json:"totalAlerts"`
	EmailsSent     int    `json:"emailsSent"`
	SMSSent        int    `json:"smsSent"`
}

// Statuses
const (
	StatusSent      = "sent"
	StatusFailed    = "failed"
	StatusDisabled  = "disabled"
	StatusSkipped   = "skipped"
	StatusDuplicate = "duplicate" // already delivered for this run
)

// Channels, as used in the notifications_sent_total metric.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)
