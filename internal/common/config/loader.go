// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultReferenceYear is the recruiting season year used to resolve dates
// written without a year.
const DefaultReferenceYear = 2025

// Load reads configs/config.yaml, overlays config.<APP_ENVIRONMENT>.yaml and
// environment variables, then applies defaults and validates the result.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	if root := findProjectRoot(); root != "" {
		v.AddConfigPath(filepath.Join(root, "configs"))
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // overlay is optional

	cfg, err := finish(v)
	if err != nil {
		return nil, err
	}
	if cfg.Camunda.BrokerAddress == "" {
		return nil, fmt.Errorf("invalid configuration: camunda.broker_address is required")
	}
	return cfg, nil
}

// LoadFile reads configuration from an explicit file path. Used by the
// offline tools, which may run outside the repository tree and never dial
// the broker, so camunda.broker_address is optional here.
func LoadFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := ValidateAnalytics(cfg.Analytics); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads the first .env found walking up from the working directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env", // test/e2e
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills values still empty after expansion from the
// conventional environment variables.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Camunda.BrokerAddress == "" {
		if val := os.Getenv("ZEEBE_ADDRESS"); val != "" {
			cfg.Camunda.BrokerAddress = val
		}
	}
	if cfg.Notifications.AWS.Region == "" {
		if val := os.Getenv("AWS_REGION"); val != "" {
			cfg.Notifications.AWS.Region = val
		}
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = "localhost:6379"
		if val := os.Getenv("REDIS_ADDRESS"); val != "" {
			cfg.Redis.Address = val
		}
	}
	if cfg.Notifications.Email.FromEmail == "" {
		if val := os.Getenv("ALERT_FROM_EMAIL"); val != "" {
			cfg.Notifications.Email.FromEmail = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "recruit-analytics"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9090"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}

	applyAnalyticsDefaults(&cfg.Analytics)

	if cfg.Notifications.AWS.Region == "" {
		cfg.Notifications.AWS.Region = "ap-northeast-1"
	}
	if cfg.Notifications.Dedup.TTLHours == 0 {
		cfg.Notifications.Dedup.TTLHours = 24
	}
}

func applyAnalyticsDefaults(a *AnalyticsConfig) {
	if a.ReferenceYear == 0 {
		a.ReferenceYear = DefaultReferenceYear
	}
	if a.ReservationDenominator == "" {
		a.ReservationDenominator = ReservationDenominatorReserved
	}

	t := &a.Thresholds
	if t.SchedulingDelayDays == 0 {
		t.SchedulingDelayDays = 14
	}
	if t.ConsiderationDays == 0 {
		t.ConsiderationDays = 10
	}
	if t.ResultOverdueDays == 0 {
		t.ResultOverdueDays = 3
	}
	if t.InvitationStaleDays == 0 {
		t.InvitationStaleDays = 7
	}
	if t.PreEventWindowDays == 0 {
		t.PreEventWindowDays = 3
	}
	if t.DocumentOverdueDays == 0 {
		t.DocumentOverdueDays = 3
	}
}

// DefaultAnalytics returns the analytics section with every default applied.
func DefaultAnalytics() AnalyticsConfig {
	var a AnalyticsConfig
	applyAnalyticsDefaults(&a)
	return a
}

// ValidateAnalytics checks the analytics section, including per-job overrides
// layered on top of it.
func ValidateAnalytics(a AnalyticsConfig) error {
	if a.ReferenceYear < 1900 || a.ReferenceYear > 9998 {
		return fmt.Errorf("analytics.reference_year %d is out of range", a.ReferenceYear)
	}

	switch a.ReservationDenominator {
	case ReservationDenominatorReserved, ReservationDenominatorAll:
	default:
		return fmt.Errorf("analytics.reservation_denominator must be %q or %q, got %q",
			ReservationDenominatorReserved, ReservationDenominatorAll, a.ReservationDenominator)
	}

	t := a.Thresholds
	for name, days := range map[string]int{
		"scheduling_delay_days": t.SchedulingDelayDays,
		"consideration_days":    t.ConsiderationDays,
		"result_overdue_days":   t.ResultOverdueDays,
		"invitation_stale_days": t.InvitationStaleDays,
		"pre_event_window_days": t.PreEventWindowDays,
		"document_overdue_days": t.DocumentOverdueDays,
	} {
		if days < 0 {
			return fmt.Errorf("analytics.thresholds.%s must not be negative", name)
		}
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}

	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
