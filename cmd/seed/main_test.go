package main

import (
	"context"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_CaptchaSecretNotRequired(t *testing.T) {
	cfg, err := loadConfig(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
		"MONGO_DB":   "news_seed",
	}))
	require.NoError(t, err)
	assert.False(t, cfg.Captcha.Enabled)
	assert.Equal(t, "news_seed", cfg.Mongo.Database)
}

func TestLoadConfig_CaptchaEnabledInEnvironmentIsIgnored(t *testing.T) {
	cfg, err := loadConfig(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "s3cret",
		"CAPTCHA_ENABLED": "true",
	}))
	require.NoError(t, err)
	assert.False(t, cfg.Captcha.Enabled)
}

func TestLoadConfig_StillValidates(t *testing.T) {
	_, err := loadConfig(context.Background(), envconfig.MapLookuper(map[string]string{}))
	assert.Error(t, err, "JWT_SECRET is still required")
}
