// internal/workers/communication/send-alert-digest/config.go
package sendalertdigest

import (
	"time"

	"recruit-analytics/internal/common/config"
)

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	Recipients   []string
	PhoneNumbers []string
	SenderID     string
	AWSRegion    string
	Timeout      time.Duration

	DedupEnabled bool
	DedupTTL     time.Duration
	Redis        config.RedisConfig
}

func LoadConfig(cfg *config.Config) *Config {
	n := cfg.Notifications
	return &Config{
		EmailEnabled: n.Email.Enabled,
		SMSEnabled:   n.SMS.Enabled,
		FromEmail:    n.Email.FromEmail,
		Recipients:   n.Email.Recipients,
		PhoneNumbers: n.SMS.PhoneNumbers,
		SenderID:     n.SMS.SenderID,
		AWSRegion:    n.AWS.Region,
		Timeout:      config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		DedupEnabled: n.Dedup.Enabled,
		DedupTTL:     time.Duration(n.Dedup.TTLHours) * time.Hour,
		Redis:        cfg.Redis,
	}
}
