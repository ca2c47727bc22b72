// internal/workers/credit/score-loan-eligibility/config.go
package scoreloaneligibility

import (
	"time"

	"loan-assessment-workers/internal/common/camunda"
	"loan-assessment-workers/internal/common/config"
	"loan-assessment-workers/internal/scoring/eligibility"
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

// Rubric applies the configured gates to the default rubric. Zero values keep the defaults.
func Rubric(s config.ScoringConfig) eligibility.Rubric {
	r := eligibility.DefaultRubric()
	if s.EligibilityThreshold > 0 {
		r.EligibilityThreshold = s.EligibilityThreshold
	}
	if s.MaxRiskFlags > 0 {
		r.MaxRiskFlags = s.MaxRiskFlags
	}
	if s.LoanCapFactor > 0 {
		r.LoanCapFactor = s.LoanCapFactor
	}
	return r
}
