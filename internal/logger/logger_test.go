package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/deppfellow/campus-manager/internal/config"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"

	var buf bytes.Buffer
	log := NewLogger(cfg, NewLoggerService(cfg), &buf)

	log.Debug().Msg("hidden")
	log.Info().Str("room", "A-101").Msg("allocated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "allocated", entry["message"])
	assert.Equal(t, "A-101", entry["room"])
	assert.Equal(t, "campus-manager", entry["service"])
	assert.Equal(t, "production", entry["environment"])
}

func TestNewLogger_LevelFallback(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = ""

	log := NewLogger(cfg, &LoggerService{}, &bytes.Buffer{})
	assert.Equal(t, zerolog.DebugLevel, log.GetLevel())
}

func TestLoggerService_Disabled(t *testing.T) {
	svc := NewLoggerService(config.DefaultObservabilityConfig())
	assert.Nil(t, svc.GetApplication())
	svc.Shutdown()

	var nilSvc *LoggerService
	assert.Nil(t, nilSvc.GetApplication())
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	assert.Equal(t, tracelog.LogLevelDebug, GetPgxTraceLogLevel(zerolog.DebugLevel))
	assert.Equal(t, tracelog.LogLevelWarn, GetPgxTraceLogLevel(zerolog.WarnLevel))
	assert.Equal(t, tracelog.LogLevelError, GetPgxTraceLogLevel(zerolog.FatalLevel))
	assert.Equal(t, tracelog.LogLevelNone, GetPgxTraceLogLevel(zerolog.Disabled))
}

func TestWithTraceContext_NilTransaction(t *testing.T) {
	base := zerolog.Nop()
	assert.Equal(t, base, WithTraceContext(base, nil))
}
