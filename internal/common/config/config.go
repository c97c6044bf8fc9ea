// internal/common/config/config.go
package config

import "recruit-analytics/internal/models"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Metrics       MetricsConfig           `mapstructure:"metrics"`
	Redis         RedisConfig             `mapstructure:"redis"`
	Analytics     AnalyticsConfig         `mapstructure:"analytics"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig controls the /metrics listener of the worker manager.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// RedisConfig holds the connection used for digest de-duplication.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Analytics ---

// Denominator choices for the seminar reservation stage.
const (
	ReservationDenominatorReserved = "reserved"
	ReservationDenominatorAll      = "all"
)

// AnalyticsConfig holds the defaults every analysis run starts from. Jobs may
// override the reference year, the denominator and individual column bindings.
type AnalyticsConfig struct {
	ReferenceYear          int                      `mapstructure:"reference_year"`
	ReservationDenominator string                   `mapstructure:"reservation_denominator"`
	Thresholds             ThresholdConfig          `mapstructure:"thresholds"`
	Keywords               map[string]KeywordConfig `mapstructure:"keywords"`
	Columns                models.ColumnMapping     `mapstructure:"columns"`
}

// ThresholdConfig holds the day counts used by the follow-up alert rules.
type ThresholdConfig struct {
	SchedulingDelayDays int `mapstructure:"scheduling_delay_days"`
	ConsiderationDays   int `mapstructure:"consideration_days"`
	ResultOverdueDays   int `mapstructure:"result_overdue_days"`
	InvitationStaleDays int `mapstructure:"invitation_stale_days"`
	PreEventWindowDays  int `mapstructure:"pre_event_window_days"`
	DocumentOverdueDays int `mapstructure:"document_overdue_days"`
}

// KeywordConfig replaces the include/exclude lists of one flag. A nil list
// keeps the built-in vocabulary.
type KeywordConfig struct {
	Include []string `mapstructure:"include"`
	Exclude []string `mapstructure:"exclude"`
}

// NotificationConfig holds settings for the send-alert-digest worker.
type NotificationConfig struct {
	Email struct {
		Enabled    bool     `mapstructure:"enabled"`
		FromEmail  string   `mapstructure:"from_email"`
		Recipients []string `mapstructure:"recipients"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled      bool     `mapstructure:"enabled"`
		SenderID     string   `mapstructure:"sender_id"`
		PhoneNumbers []string `mapstructure:"phone_numbers"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
	// Dedup keeps a retried or re-run job from sending the same digest twice.
	Dedup struct {
		Enabled  bool `mapstructure:"enabled"`
		TTLHours int  `mapstructure:"ttl_hours"`
	} `mapstructure:"dedup"`
}
