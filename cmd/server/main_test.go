package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deutschflow/deutschflow-hub/config"
	"github.com/deutschflow/deutschflow-hub/pkg/logger"
)

func TestSetupHTTPLoggerHonorsConfiguredLevel(t *testing.T) {
	cfg := &config.Config{}
	cfg.Observability.LogLevel = "warn"

	assert.Equal(t, logger.LevelWarn, setupHTTPLogger(cfg).Level())

	cfg.Observability.LogLevel = "error"
	assert.Equal(t, logger.LevelError, setupHTTPLogger(cfg).Level())
}

func TestSetupHTTPLoggerDebugOverridesLevel(t *testing.T) {
	cfg := &config.Config{}
	cfg.Observability.LogLevel = "warn"
	cfg.App.Debug = true

	assert.Equal(t, logger.LevelDebug, setupHTTPLogger(cfg).Level())
}
