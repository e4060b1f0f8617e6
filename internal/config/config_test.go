package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
server:
  api_key: secret
database:
  driver: memory
school:
  name: Gymnasium Musterstadt
`

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "500ms", cfg.Events.SettleDelay)
	assert.Equal(t, MailFailurePolicyFail, cfg.Offboarding.MailFailurePolicy)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.True(t, cfg.Events.WebhookEnabled)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CONNECTOR_RATE_LIMIT", "2.5")
	t.Setenv("BATCH_CONCURRENCY", " 8 ")
	t.Setenv("OFFBOARDING_AUTO_MAIL", "true")
	t.Setenv("SCHOOL_NAME", "Realschule Nord")

	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 2.5, cfg.Connector.RateLimit)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.True(t, cfg.Offboarding.AutoMail)
	assert.Equal(t, "Realschule Nord", cfg.School.Name)
}

func TestLoadConfigReportsAllBadEnvValues(t *testing.T) {
	t.Setenv("BATCH_CONCURRENCY", "many")
	t.Setenv("OFFBOARDING_AUTO_MAIL", "sometimes")

	_, err := LoadConfig(writeConfig(t, minimalConfig))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_CONCURRENCY")
	assert.Contains(t, err.Error(), "OFFBOARDING_AUTO_MAIL")
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "missing api key",
			content: "database:\n  driver: memory\nschool:\n  name: X\n",
			want:    "API key",
		},
		{
			name:    "missing school name",
			content: "server:\n  api_key: k\ndatabase:\n  driver: memory\n",
			want:    "school name",
		},
		{
			name:    "mongo without uri",
			content: "server:\n  api_key: k\ndatabase:\n  driver: mongo\nschool:\n  name: X\n",
			want:    "mongo uri",
		},
		{
			name:    "unknown mail policy",
			content: minimalConfig + "offboarding:\n  mail_failure_policy: retry\n",
			want:    "mail failure policy",
		},
		{
			name:    "bad settle delay",
			content: minimalConfig + "events:\n  settle_delay: soon\n",
			want:    "settle delay",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "configs/config.yaml", ConfigPath("configs/config.yaml"))

	t.Setenv("CONFIG_PATH", "/etc/school/config.yaml")
	assert.Equal(t, "/etc/school/config.yaml", ConfigPath("configs/config.yaml"))
}
