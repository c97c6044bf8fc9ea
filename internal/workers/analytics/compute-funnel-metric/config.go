// internal/workers/analytics/compute-funnel-metric/config.go
package computefunnelmetric

import (
	"time"

	"recruit-analytics/internal/analytics"
	"recruit-analytics/internal/common/config"
)

type Config struct {
	Analytics analytics.Options
	Timeout   time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Analytics: analytics.OptionsFromConfig(cfg.Analytics),
		Timeout:   config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
	}
}
