package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name          string
		logLevel      string
		envLevel      string
		logFormat     string
		isDevelopment bool
		expectedLevel logrus.Level
		expectJSON    bool
	}{
		{
			name:          "production defaults to info and json",
			expectedLevel: logrus.InfoLevel,
			expectJSON:    true,
		},
		{
			name:          "development defaults to debug and text",
			isDevelopment: true,
			expectedLevel: logrus.DebugLevel,
			expectJSON:    false,
		},
		{
			name:          "development with json format",
			isDevelopment: true,
			logFormat:     "JSON",
			expectedLevel: logrus.DebugLevel,
			expectJSON:    true,
		},
		{
			name:          "environment level used when none passed",
			envLevel:      "error",
			expectedLevel: logrus.ErrorLevel,
			expectJSON:    true,
		},
		{
			name:          "explicit level wins over environment",
			logLevel:      "WARN",
			envLevel:      "error",
			expectedLevel: logrus.WarnLevel,
			expectJSON:    true,
		},
		{
			name:          "invalid level defaults to info",
			logLevel:      "loud",
			expectedLevel: logrus.InfoLevel,
			expectJSON:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.envLevel)
			t.Setenv("LOG_FORMAT", tt.logFormat)
			Logger = nil

			log := InitLogger(tt.logLevel, tt.isDevelopment)

			assert.Equal(t, tt.expectedLevel, log.GetLevel(), "log level mismatch")
			if tt.expectJSON {
				_, ok := log.Formatter.(*logrus.JSONFormatter)
				assert.True(t, ok, "expected JSON formatter")
			} else {
				_, ok := log.Formatter.(*logrus.TextFormatter)
				assert.True(t, ok, "expected text formatter")
			}
			assert.Same(t, log, GetLogger())
		})
	}
}

func TestGetLoggerInitializesOnce(t *testing.T) {
	Logger = nil
	first := GetLogger()
	require.NotNil(t, first)
	assert.Same(t, first, GetLogger())
}

func TestWithOptimizationContext(t *testing.T) {
	Logger = nil
	os.Unsetenv("LOG_LEVEL")
	log := InitLogger("debug", false)

	var buf bytes.Buffer
	log.SetOutput(&buf)

	WithOptimizationContext("opt-456", 12, 9).Debug("building model")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "opt-456", entry["optimization_id"])
	assert.Equal(t, float64(12), entry["roster_size"])
	assert.Equal(t, float64(9), entry["innings"])
	assert.Equal(t, "building model", entry["msg"])
	assert.Contains(t, entry, "time")
}

func TestWithServiceAndOptimizationID(t *testing.T) {
	Logger = nil
	log := InitLogger("info", false)

	var buf bytes.Buffer
	log.SetOutput(&buf)

	WithService("lineup-optimizer").Info("starting")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "lineup-optimizer", entry["service"])

	buf.Reset()
	WithOptimizationID("opt-1").Info("done")
	entry = map[string]interface{}{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "opt-1", entry["optimization_id"])
}

func TestDiscard(t *testing.T) {
	log := Discard()
	assert.NotPanics(t, func() { log.Info("ignored") })
}
