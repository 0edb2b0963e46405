package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	scheduler := cfg.GetScheduler()
	assert.Equal(t, "sqlite", scheduler.StoreType)
	assert.NotEmpty(t, scheduler.SQLitePath)

	tick, err := cfg.GetDuration("scheduler.tick_interval")
	require.NoError(t, err)
	assert.Equal(t, "30s", tick.String())

	assert.Equal(t, 0.5, cfg.GetFloat64("spam.threshold"))
	assert.Equal(t, "rules", cfg.GetAssistant().Provider)
	assert.Equal(t, "INBOX", cfg.GetIMAP().Folder)
	assert.Equal(t, "info", cfg.GetString("logging.level"))
}

func TestOverrides(t *testing.T) {
	v := NewEmptyViper()
	v.Set("scheduler.store_type", "memory")
	v.Set("spam.threshold", 0.8)
	cfg := NewFromViper(v)

	assert.Equal(t, "memory", cfg.GetScheduler().StoreType)
	assert.Equal(t, 0.8, cfg.GetFloat64("spam.threshold"))
}

func TestGetDurationRejectsInvalid(t *testing.T) {
	v := NewEmptyViper()
	v.Set("scheduler.tick_interval", "not-a-duration")
	cfg := NewFromViper(v)

	_, err := cfg.GetDuration("scheduler.tick_interval")
	assert.Error(t, err)
}
