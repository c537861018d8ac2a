package client

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		TNumber:    "T123456",
		APIKey:     "secret",
		Endpoint:   "https://example.openai.azure.com/",
		ModelName:  "gpt-4",
		APIVersion: "2023-12-01-preview",
	}
}

func TestNormalizeConfig_DefaultsPackagerMode(t *testing.T) {
	cfg := validConfig()
	cfg.TNumber = "  T123456 "

	got, err := NormalizeConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "T123456", got.TNumber)
	assert.Equal(t, PackagerSandbox, got.PackagerMode)
}

func TestNormalizeConfig_AcceptsDev(t *testing.T) {
	cfg := validConfig()
	cfg.PackagerMode = "DEV"

	got, err := NormalizeConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, PackagerDev, got.PackagerMode)
}

func TestNormalizeConfig_ReportsEveryBlankField(t *testing.T) {
	_, err := NormalizeConfig(Config{TNumber: "T1", APIKey: "   "})

	var cfgErr *ConfigValidationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Len(t, cfgErr.Fields, 4)
	assert.Equal(t, "API key is required", cfgErr.Message("api_key"))
	assert.Equal(t, "Endpoint is required", cfgErr.Message("endpoint"))
	assert.Equal(t, "Model name is required", cfgErr.Message("model_name"))
	assert.Equal(t, "API version is required", cfgErr.Message("api_version"))
	assert.Empty(t, cfgErr.Message("t_number"))
}

func TestNormalizeConfig_RejectsUnknownPackagerMode(t *testing.T) {
	cfg := validConfig()
	cfg.PackagerMode = "prod"

	_, err := NormalizeConfig(cfg)

	var cfgErr *ConfigValidationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrInvalidPackagerMode.Error(), cfgErr.Message("packager_mode"))
}
