// internal/workers/credit/classify-credit-report/config.go
package classifycreditreport

import (
	"time"

	"loan-assessment-workers/internal/common/camunda"
	"loan-assessment-workers/internal/common/config"
	"loan-assessment-workers/internal/scoring/classifier"
)

type Config struct {
	Timeout      time.Duration
	CleanOCRText bool
	Retry        camunda.RetryConfig
}

// completionRetry bounds how often a completion is resent when the gateway is briefly unavailable.
func completionRetry(maxRetries int) camunda.RetryConfig {
	return camunda.RetryConfig{MaxRetries: maxRetries, BaseDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second}
}

func LoadConfig(appCfg *config.Config) *Config {
	wcfg := config.GetWorkerConfig(appCfg, TaskType)
	return &Config{
		Timeout:      config.GetDuration(wcfg.Timeout),
		CleanOCRText: appCfg.Classifier.CleanOCRText,
		Retry:        completionRetry(wcfg.MaxRetries),
	}
}

// ClassifierOptions overlays the configured threshold and input cap on the default options.
func ClassifierOptions(c config.ClassifierConfig) classifier.Options {
	opts := classifier.DefaultOptions()
	if c.MatchThreshold > 0 {
		opts.MatchThreshold = c.MatchThreshold
	}
	if c.MaxInputBytes > 0 {
		opts.MaxInputBytes = c.MaxInputBytes
	}
	return opts
}

// LoadVocabulary reads the vocabulary file named in c, or the embedded one when none is set.
func LoadVocabulary(c config.ClassifierConfig) (*classifier.Vocabulary, error) {
	if c.VocabularyPath == "" {
		return classifier.DefaultCreditReportVocabulary(), nil
	}
	return classifier.LoadVocabularyFile(c.VocabularyPath)
}
