package common

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("info"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("bogus"))
}

func TestNewLoggerWithOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("account", "schwab-1").Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, `"account":"schwab-1"`)
}

func TestNewSilentLogger(t *testing.T) {
	logger := NewSilentLogger()
	logger.Error().Msg("dropped")
}
