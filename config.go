package client

import (
	"context"
	"strings"
)

// CheckConfig reports whether the service already holds a configuration and its secrets.
func (c *client) CheckConfig(ctx context.Context) (*ConfigStatus, error) {
	var result ConfigStatus
	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&apiError{}).
		Get(EndpointConfig)

	traceID, err := checkResponse(OperationCheckConfig, resp, err)
	if err != nil {
		return nil, err
	}
	result.TraceID = traceID

	c.logger.DebugContext(ctx, "config checked",
		"config_exists", result.ConfigExists,
		"secrets_exists", result.SecretsExists,
		"trace-id", traceID,
	)

	return &result, nil
}

// SaveConfig validates cfg and stores it on the service.
func (c *client) SaveConfig(ctx context.Context, cfg Config) error {
	cfg, err := NormalizeConfig(cfg)
	if err != nil {
		return err
	}

	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(cfg).
		SetError(&apiError{}).
		Post(EndpointConfig)

	traceID, err := checkResponse(OperationSaveConfig, resp, err)
	if err != nil {
		return err
	}

	c.logger.DebugContext(ctx, "config saved", "packager_mode", cfg.PackagerMode, "trace-id", traceID)
	return nil
}

// NormalizeConfig trims every field, defaults the packager mode to sandbox and
// rejects the configuration with one message per blank required field.
func NormalizeConfig(cfg Config) (Config, error) {
	cfg.TNumber = strings.TrimSpace(cfg.TNumber)
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	cfg.ModelName = strings.TrimSpace(cfg.ModelName)
	cfg.APIVersion = strings.TrimSpace(cfg.APIVersion)
	cfg.PackagerMode = PackagerMode(strings.ToLower(strings.TrimSpace(string(cfg.PackagerMode))))

	required := []struct {
		field, value, message string
	}{
		{"t_number", cfg.TNumber, "T-number is required"},
		{"api_key", cfg.APIKey, "API key is required"},
		{"endpoint", cfg.Endpoint, "Endpoint is required"},
		{"model_name", cfg.ModelName, "Model name is required"},
		{"api_version", cfg.APIVersion, "API version is required"},
	}

	var fields []FieldError
	for _, r := range required {
		if r.value == "" {
			fields = append(fields, FieldError{Field: r.field, Message: r.message})
		}
	}

	switch cfg.PackagerMode {
	case "":
		cfg.PackagerMode = PackagerSandbox
	case PackagerSandbox, PackagerDev:
	default:
		fields = append(fields, FieldError{Field: "packager_mode", Message: ErrInvalidPackagerMode.Error()})
	}

	if len(fields) > 0 {
		return cfg, &ConfigValidationError{Fields: fields}
	}

	return cfg, nil
}
