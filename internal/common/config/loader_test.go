// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
camunda:
  broker_address: localhost:26500
documents:
  backend: memory
workers:
  classify-credit-report:
    enabled: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "loan-assessment-workers", cfg.App.Name)
	assert.Equal(t, 10, cfg.Camunda.MaxJobsActive)
	assert.Equal(t, BackendMemory, cfg.Documents.Backend)
	assert.Equal(t, "loan:documents:", cfg.Documents.KeyPrefix)
	assert.Equal(t, ":8080", cfg.Metrics.Address)
	assert.Equal(t, 1<<20, cfg.Classifier.MaxInputBytes)
	assert.Equal(t, 40, cfg.Classifier.MatchThreshold)
	assert.Equal(t, 60, cfg.Scoring.EligibilityThreshold)
	assert.Equal(t, 3, cfg.Scoring.MaxRiskFlags)
	assert.Equal(t, 1.2, cfg.Scoring.LoanCapFactor)

	w := GetWorkerConfig(cfg, "classify-credit-report")
	assert.True(t, w.Enabled)
	assert.Equal(t, 5, w.MaxJobsActive)
	assert.Equal(t, 30000, w.Timeout)
	assert.Equal(t, 3, w.MaxRetries)
}

func TestLoadFromFile_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_ZEEBE_BROKER", "zeebe:26500")
	path := writeConfig(t, `
camunda:
  broker_address: ${TEST_ZEEBE_BROKER}
documents:
  backend: redis
  ttl: 3600
database:
  redis:
    address: localhost:6379
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "zeebe:26500", cfg.Camunda.BrokerAddress)
	assert.Equal(t, time.Hour, cfg.Documents.TTLDuration())
}

func TestLoadFromFile_Invalid(t *testing.T) {
	t.Setenv("ZEEBE_ADDRESS", "")

	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "missing broker",
			content: "documents:\n  backend: memory\n",
			errMsg:  "camunda.broker_address",
		},
		{
			name:    "unknown backend",
			content: "camunda:\n  broker_address: x:1\ndocuments:\n  backend: s3\n",
			errMsg:  "documents.backend",
		},
		{
			name:    "redis without address",
			content: "camunda:\n  broker_address: x:1\ndocuments:\n  backend: redis\n",
			errMsg:  "database.redis.address",
		},
		{
			name:    "postgres without host",
			content: "camunda:\n  broker_address: x:1\ndocuments:\n  backend: postgres\n",
			errMsg:  "database.postgres.host",
		},
		{
			name:    "threshold out of range",
			content: "camunda:\n  broker_address: x:1\ndocuments:\n  backend: memory\nclassifier:\n  match_threshold: 140\n",
			errMsg:  "classifier.match_threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestWorkerHelpers(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"score-loan-eligibility": {Enabled: false, MaxJobsActive: 2},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "score-loan-eligibility"))
	assert.True(t, IsWorkerEnabled(cfg, "unknown"))
	assert.Equal(t, 2, GetWorkerConfig(cfg, "score-loan-eligibility").MaxJobsActive)
	assert.Equal(t, 5, GetWorkerConfig(cfg, "unknown").MaxJobsActive)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "loans", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=loans sslmode=disable", p.GetDSN())
}
