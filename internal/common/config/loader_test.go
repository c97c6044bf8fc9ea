// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
camunda:
  broker_address: localhost:26500
workers:
  compute-funnel-metric:
    enabled: true
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:26500", cfg.Camunda.BrokerAddress)
	assert.Equal(t, 10, cfg.Camunda.MaxJobsActive)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, DefaultReferenceYear, cfg.Analytics.ReferenceYear)
	assert.Equal(t, ReservationDenominatorReserved, cfg.Analytics.ReservationDenominator)
	assert.Equal(t, 14, cfg.Analytics.Thresholds.SchedulingDelayDays)
	assert.Equal(t, 3, cfg.Analytics.Thresholds.DocumentOverdueDays)
	assert.Equal(t, 24, cfg.Notifications.Dedup.TTLHours)
	assert.NotEmpty(t, cfg.Redis.Address)

	w := cfg.Workers["compute-funnel-metric"]
	assert.True(t, w.Enabled)
	assert.Equal(t, 5, w.MaxJobsActive)
	assert.Equal(t, 30000, w.Timeout)
}

func TestLoadFile_AnalyticsSection(t *testing.T) {
	path := writeConfig(t, `
camunda:
  broker_address: localhost:26500
analytics:
  reference_year: 2026
  reservation_denominator: all
  thresholds:
    consideration_days: 5
  keywords:
    attended:
      include: ["出席済"]
  columns:
    last_name: 姓
    reservation_date: 予約日
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 2026, cfg.Analytics.ReferenceYear)
	assert.Equal(t, ReservationDenominatorAll, cfg.Analytics.ReservationDenominator)
	assert.Equal(t, 5, cfg.Analytics.Thresholds.ConsiderationDays)
	assert.Equal(t, 7, cfg.Analytics.Thresholds.InvitationStaleDays)
	assert.Equal(t, []string{"出席済"}, cfg.Analytics.Keywords["attended"].Include)
	assert.Equal(t, "姓", cfg.Analytics.Columns.LastName)
	assert.Equal(t, "予約日", cfg.Analytics.Columns.ReservationDate)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad denominator", "camunda:\n  broker_address: x:1\nanalytics:\n  reservation_denominator: some\n"},
		{"negative threshold", "camunda:\n  broker_address: x:1\nanalytics:\n  thresholds:\n    consideration_days: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ZEEBE_ADDRESS", "")
			_, err := LoadFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_BrokerOptional(t *testing.T) {
	t.Setenv("ZEEBE_ADDRESS", "")

	cfg, err := LoadFile(writeConfig(t, "logging:\n  level: debug\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Camunda.BrokerAddress)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestGetWorkerConfig_Fallback(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{"a": {Enabled: false}}}

	assert.False(t, IsWorkerEnabled(cfg, "a"))
	assert.True(t, IsWorkerEnabled(cfg, "b"))
	assert.Equal(t, 30000, GetWorkerConfig(cfg, "b").Timeout)
}
