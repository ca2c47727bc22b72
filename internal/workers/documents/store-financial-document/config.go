// internal/workers/documents/store-financial-document/config.go
package storefinancialdocument

import (
	"time"

	"loan-assessment-workers/internal/common/camunda"
	"loan-assessment-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	Retry   camunda.RetryConfig
}

// completionRetry bounds how often a completion is resent when the gateway is briefly unavailable.
func completionRetry(maxRetries int) camunda.RetryConfig {
	return camunda.RetryConfig{MaxRetries: maxRetries, BaseDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second}
}

func LoadConfig(appCfg *config.Config) *Config {
	wcfg := config.GetWorkerConfig(appCfg, TaskType)
	return &Config{
		Timeout: config.GetDuration(wcfg.Timeout),
		Retry:   completionRetry(wcfg.MaxRetries),
	}
}
