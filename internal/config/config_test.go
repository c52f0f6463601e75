package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ROSTERING_BASE_URL", "http://rostering.local/rest")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("EMAIL_ALERT_RECIPIENTS", "a@example.com,b@example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "http://rostering.local/rest", cfg.Rostering.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout())
	assert.Equal(t, "email_queue", cfg.RabbitMQ.Queue)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Email.AlertRecipients)
	assert.Equal(t, time.Sunday, cfg.WeekStart())
	assert.Equal(t, time.Local, cfg.Location())
}

func TestLoadConfigMissingRequired(t *testing.T) {
	t.Setenv("ROSTERING_BASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestCalendarSettings(t *testing.T) {
	cfg := &Config{}
	cfg.Calendar.Timezone = "Asia/Shanghai"
	cfg.Calendar.WeekStart = 1
	assert.Equal(t, "Asia/Shanghai", cfg.Location().String())
	assert.Equal(t, time.Monday, cfg.WeekStart())

	cfg.Calendar.Timezone = "Not/AZone"
	cfg.Calendar.WeekStart = 9
	assert.Equal(t, time.Local, cfg.Location())
	assert.Equal(t, time.Sunday, cfg.WeekStart())
}
