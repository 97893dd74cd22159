package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"WARN", zerolog.WarnLevel},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			New(Config{Level: tt.level})
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	log := New(Config{Level: "error"})
	var buf bytes.Buffer
	log = log.Output(&buf)

	log.Info().Msg("hidden")
	assert.NotContains(t, buf.String(), "hidden")

	log.Error().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNewWritesStructuredOutput(t *testing.T) {
	log := New(Config{Level: "info"})
	var buf bytes.Buffer
	log = log.Output(&buf)

	log.Info().Str("component", "test").Msg("hello")
	out := buf.String()
	assert.Contains(t, out, `"component":"test"`)
	assert.Contains(t, out, "hello")
}
