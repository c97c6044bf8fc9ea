// internal/workers/analytics/suggest-column-mapping/config.go
package suggestcolumnmapping

import (
	"time"

	"recruit-analytics/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
	}
}
